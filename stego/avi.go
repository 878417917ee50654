package stego

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"covertcomm/internal/convert"
)

// avi container structure
//
// +------+------+--------+----------------------------------+
// | RIFF | size | "AVI " | LIST hdrl | LIST movi | ...      |
// +------+------+--------+----------------------------------+
//
// Each chunk is [4 byte id][4 byte little endian size][data], chunks
// are word aligned. The hdrl list describes the streams, the movi list
// holds the frame data chunks like "00db", the two digits select the
// stream.

const aviHeaderSize = 12

// aviChunk locates one video frame payload in the container.
type aviChunk struct {
	offset int
	size   int
}

// aviVideo is a parsed avi carrier, the frame table refers to the raw
// rgb video stream only.
type aviVideo struct {
	raw    []byte
	frames []aviChunk
	prefix []uint64 // cumulative frame sizes about position lookup
	total  uint64
}

// riffChunk is one chunk during the container walk, the offset is the
// absolute begin of the chunk data.
type riffChunk struct {
	id     string
	data   []byte
	offset int
}

// walkChunks is used to iterate riff chunks in [offset, end), the walk
// stops at the first callback error.
func walkChunks(raw []byte, offset, end int, fn func(c *riffChunk) error) error {
	for offset < end {
		if offset+8 > end {
			return errors.WithMessage(ErrUnsupportedFormat, "truncated avi chunk header")
		}
		size := int(convert.LEBytesToUint32(raw[offset+4 : offset+8]))
		dataOff := offset + 8
		if size < 0 || dataOff+size > end {
			return errors.WithMessage(ErrUnsupportedFormat, "truncated avi chunk data")
		}
		chunk := riffChunk{
			id:     string(raw[offset : offset+4]),
			data:   raw[dataOff : dataOff+size],
			offset: dataOff,
		}
		err := fn(&chunk)
		if err != nil {
			return err
		}
		offset = dataOff + size
		if size%2 == 1 {
			offset++
		}
	}
	return nil
}

// parseAVI is used to parse an avi carrier and locate the raw video
// frame payloads. A video stream that declares a compressed codec is
// rejected, the least significant bits would not survive it.
func parseAVI(raw []byte) (*aviVideo, error) {
	if len(raw) < aviHeaderSize {
		return nil, errors.WithMessage(ErrUnsupportedFormat, "avi file too small")
	}
	if string(raw[:4]) != "RIFF" || string(raw[8:12]) != "AVI " {
		return nil, errors.WithMessage(ErrUnsupportedFormat, "invalid avi magic number")
	}
	av := aviVideo{raw: raw}
	stream := -1
	streamCount := 0
	err := walkChunks(raw, aviHeaderSize, len(raw), func(c *riffChunk) error {
		if c.id != "LIST" || len(c.data) < 4 {
			return nil
		}
		switch string(c.data[:4]) {
		case "hdrl":
			return av.parseStreams(c, &stream, &streamCount)
		case "movi":
			if stream < 0 {
				return nil
			}
			return av.collectFrames(c, fmt.Sprintf("%02d", stream))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(av.frames) == 0 {
		return nil, errors.WithMessage(ErrUnsupportedFormat, "no raw video frames")
	}
	return &av, nil
}

// parseStreams is used to find the raw rgb video stream index in the
// hdrl list.
func (av *aviVideo) parseStreams(hdrl *riffChunk, stream, count *int) error {
	return walkChunks(av.raw, hdrl.offset+4, hdrl.offset+len(hdrl.data), func(c *riffChunk) error {
		if c.id != "LIST" || len(c.data) < 4 || string(c.data[:4]) != "strl" {
			return nil
		}
		index := *count
		*count++
		video := false
		return walkChunks(av.raw, c.offset+4, c.offset+len(c.data), func(sc *riffChunk) error {
			switch sc.id {
			case "strh":
				if len(sc.data) < 4 {
					return errors.WithMessage(ErrUnsupportedFormat, "invalid avi stream header")
				}
				video = string(sc.data[:4]) == "vids"
			case "strf":
				if !video {
					return nil
				}
				// BITMAPINFOHEADER, the compression field is the codec
				if len(sc.data) < 20 {
					return errors.WithMessage(ErrUnsupportedFormat, "invalid avi stream format")
				}
				if convert.LEBytesToUint32(sc.data[16:20]) != 0 { // BI_RGB
					return errors.WithMessage(ErrUnsupportedCodec, "compressed avi video stream")
				}
				if *stream < 0 {
					*stream = index
				}
			}
			return nil
		})
	})
}

// collectFrames is used to record the frame payloads of the selected
// stream in the movi list, rec lists are walked as well.
func (av *aviVideo) collectFrames(list *riffChunk, prefix string) error {
	return walkChunks(av.raw, list.offset+4, list.offset+len(list.data), func(c *riffChunk) error {
		if c.id == "LIST" {
			if len(c.data) < 4 || string(c.data[:4]) != "rec " {
				return nil
			}
			return av.collectFrames(c, prefix)
		}
		if !strings.HasPrefix(c.id, prefix) {
			return nil
		}
		switch c.id[2:] {
		case "db", "dc":
		default:
			return nil
		}
		if len(c.data) == 0 {
			return nil
		}
		av.frames = append(av.frames, aviChunk{offset: c.offset, size: len(c.data)})
		av.total += uint64(len(c.data))
		av.prefix = append(av.prefix, av.total)
		return nil
	})
}

// locate is used to translate a position to the absolute offset of the
// frame payload byte in the container.
func (av *aviVideo) locate(position uint64) int {
	k := sort.Search(len(av.prefix), func(i int) bool {
		return av.prefix[i] > position
	})
	begin := uint64(0)
	if k > 0 {
		begin = av.prefix[k-1]
	}
	return av.frames[k].offset + int(position-begin)
}
