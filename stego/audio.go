package stego

import (
	"bytes"
	"io"

	"github.com/aler9/writerseeker"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// audioLSB embeds one bit to the least significant bit of each PCM
// sample, position p selects sample p. Only uncompressed 16 bit mono
// wav carriers are accepted.
type audioLSB struct {
	buf *audio.IntBuffer
}

func newAudioLSB(carrier []byte) (*audioLSB, error) {
	decoder := wav.NewDecoder(bytes.NewReader(carrier))
	if !decoder.IsValidFile() {
		return nil, errors.WithMessage(ErrUnsupportedFormat, "invalid wav file")
	}
	if decoder.WavAudioFormat != 1 {
		return nil, errors.WithMessage(ErrUnsupportedFormat, "compressed wav stream")
	}
	if decoder.BitDepth != 16 {
		return nil, errors.WithMessagef(ErrUnsupportedFormat, "%d bit wav samples", decoder.BitDepth)
	}
	if decoder.NumChans != 1 {
		return nil, errors.WithMessagef(ErrUnsupportedFormat, "%d wav channels", decoder.NumChans)
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, errors.WithMessage(ErrUnsupportedFormat, err.Error())
	}
	al := audioLSB{buf: buf}
	return &al, nil
}

// Capacity is used to calculate the number of bits that the audio can
// hold, one bit for each sample.
func (al *audioLSB) Capacity() uint64 {
	return uint64(len(al.buf.Data))
}

// Slots is used to get the position domain size, one bit one position.
func (al *audioLSB) Slots() uint64 {
	return al.Capacity()
}

// Embed is used to write bits to the least significant bits of the
// samples selected by the drawn positions.
func (al *audioLSB) Embed(bits []byte, positions []uint64) error {
	data := al.buf.Data
	for i, bit := range bits {
		position := positions[i]
		sample := data[position]
		switch {
		case bit == 0 && sample&1 == 1:
			sample--
		case bit == 1 && sample&1 == 0:
			sample++
		}
		data[position] = sample
	}
	return nil
}

// Extract is used to read bits from the least significant bits of the
// samples selected by the drawn positions.
func (al *audioLSB) Extract(positions []uint64) ([]byte, error) {
	data := al.buf.Data
	bits := make([]byte, len(positions))
	for i, position := range positions {
		bits[i] = byte(data[position] & 1)
	}
	return bits, nil
}

// Encode is used to encode the modified samples back to wav bytes.
func (al *audioLSB) Encode() ([]byte, error) {
	ws := &writerseeker.WriterSeeker{}
	encoder := wav.NewEncoder(ws, al.buf.Format.SampleRate, 16, al.buf.Format.NumChannels, 1)
	err := encoder.Write(al.buf)
	if err != nil {
		return nil, err
	}
	err = encoder.Close()
	if err != nil {
		return nil, err
	}
	return io.ReadAll(ws.Reader())
}
