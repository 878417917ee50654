package stego

import (
	"github.com/pkg/errors"
)

// errors about hide and extract.
var (
	// ErrCapacityExceeded is returned by Hide if the framed message needs
	// more bits than the carrier can hold, the carrier is not modified.
	ErrCapacityExceeded = errors.New("message does not fit in carrier")

	// ErrAuthentication is returned by Extract if the password is wrong
	// or the carrier data is modified after Hide.
	ErrAuthentication = errors.New("failed to authenticate message")

	// ErrFormat is returned by Extract if the carrier does not contain
	// a valid frame, like extract from a carrier without hidden data.
	ErrFormat = errors.New("invalid or missing frame")

	// ErrUnsupportedFormat is returned if the carrier does not meet the
	// structural precondition, like a stereo wav or a text carrier that
	// already contains zero width characters.
	ErrUnsupportedFormat = errors.New("unsupported carrier format")

	// ErrUnsupportedCodec is returned if the video container does not
	// declare a lossless codec.
	ErrUnsupportedCodec = errors.New("unsupported video codec")

	// ErrEmptyMessage is returned by Hide if the message is empty, a
	// frame can not carry zero bytes.
	ErrEmptyMessage = errors.New("empty message")
)
