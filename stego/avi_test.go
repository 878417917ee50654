package stego

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"covertcomm/internal/convert"
)

// testChunk is used to serialize one riff chunk with word alignment.
func testChunk(id string, data []byte) []byte {
	chunk := make([]byte, 0, 8+len(data)+1)
	chunk = append(chunk, id...)
	chunk = append(chunk, convert.LEUint32ToBytes(uint32(len(data)))...)
	chunk = append(chunk, data...)
	if len(data)%2 == 1 {
		chunk = append(chunk, 0)
	}
	return chunk
}

// testList is used to serialize one riff list chunk with a kind.
func testList(kind string, chunks ...[]byte) []byte {
	data := []byte(kind)
	for i := 0; i < len(chunks); i++ {
		data = append(data, chunks[i]...)
	}
	return testChunk("LIST", data)
}

// testRIFF is used to wrap the chunks into an avi file.
func testRIFF(chunks ...[]byte) []byte {
	data := []byte("AVI ")
	for i := 0; i < len(chunks); i++ {
		data = append(data, chunks[i]...)
	}
	raw := make([]byte, 0, 8+len(data))
	raw = append(raw, "RIFF"...)
	raw = append(raw, convert.LEUint32ToBytes(uint32(len(data)))...)
	raw = append(raw, data...)
	return raw
}

// testStreamList is used to build a hdrl list with one video stream
// that declares the given compression.
func testStreamList(compression uint32) []byte {
	strh := make([]byte, 56)
	copy(strh, "vids")
	strf := make([]byte, 40)
	copy(strf[16:20], convert.LEUint32ToBytes(compression))
	return testList("hdrl", testList("strl", testChunk("strh", strh), testChunk("strf", strf)))
}

// testGenerateAVI is used to build an avi container with an
// uncompressed video stream and the given frame payloads.
func testGenerateAVI(frames ...[]byte) []byte {
	chunks := make([][]byte, 0, len(frames))
	for i := 0; i < len(frames); i++ {
		chunks = append(chunks, testChunk("00db", frames[i]))
	}
	return testRIFF(testStreamList(0), testList("movi", chunks...))
}

// testFramePayload is used to build a frame payload that stores the
// position of each byte, locate results become easy to check.
func testFramePayload(begin, size int) []byte {
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		data[i] = byte(begin + i)
	}
	return data
}

func TestParseAVI(t *testing.T) {
	t.Run("common", func(t *testing.T) {
		raw := testGenerateAVI(
			testFramePayload(0, 5),
			testFramePayload(5, 8),
			testFramePayload(13, 3),
		)

		av, err := parseAVI(raw)
		require.NoError(t, err)
		spew.Dump(av.frames)

		require.Len(t, av.frames, 3)
		require.Equal(t, uint64(16), av.total)
		require.Equal(t, []uint64{5, 13, 16}, av.prefix)
	})

	t.Run("locate", func(t *testing.T) {
		raw := testGenerateAVI(
			testFramePayload(0, 5),
			testFramePayload(5, 8),
			testFramePayload(13, 3),
		)

		av, err := parseAVI(raw)
		require.NoError(t, err)

		for position := uint64(0); position < av.total; position++ {
			require.Equal(t, byte(position), av.raw[av.locate(position)])
		}
	})

	t.Run("rec list", func(t *testing.T) {
		movi := testList("movi",
			testChunk("00db", testFramePayload(0, 4)),
			testList("rec ", testChunk("00dc", testFramePayload(4, 4))),
		)
		raw := testRIFF(testStreamList(0), movi)

		av, err := parseAVI(raw)
		require.NoError(t, err)

		require.Len(t, av.frames, 2)
		require.Equal(t, uint64(8), av.total)
		for position := uint64(0); position < av.total; position++ {
			require.Equal(t, byte(position), av.raw[av.locate(position)])
		}
	})

	t.Run("select video stream", func(t *testing.T) {
		strh := make([]byte, 56)
		copy(strh, "auds")
		audio := testList("strl", testChunk("strh", strh))
		strh = make([]byte, 56)
		copy(strh, "vids")
		video := testList("strl", testChunk("strh", strh), testChunk("strf", make([]byte, 40)))
		movi := testList("movi",
			testChunk("00wb", testFramePayload(0, 4)),
			testChunk("01db", testFramePayload(0, 6)),
			testChunk("01db", nil),
		)
		raw := testRIFF(testList("hdrl", audio, video), movi)

		av, err := parseAVI(raw)
		require.NoError(t, err)

		require.Len(t, av.frames, 1)
		require.Equal(t, uint64(6), av.total)
	})

	t.Run("avi file too small", func(t *testing.T) {
		av, err := parseAVI(make([]byte, 8))
		require.ErrorIs(t, err, ErrUnsupportedFormat)
		require.Nil(t, av)
	})

	t.Run("invalid avi magic number", func(t *testing.T) {
		av, err := parseAVI(make([]byte, 64))
		require.ErrorIs(t, err, ErrUnsupportedFormat)
		require.Nil(t, av)
	})

	t.Run("truncated chunk header", func(t *testing.T) {
		raw := append(testRIFF(), "LIST"...)

		av, err := parseAVI(raw)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
		require.Nil(t, av)
	})

	t.Run("truncated chunk data", func(t *testing.T) {
		raw := append(testRIFF(), "00db"...)
		raw = append(raw, convert.LEUint32ToBytes(100)...)
		raw = append(raw, 1, 2, 3, 4)

		av, err := parseAVI(raw)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
		require.Nil(t, av)
	})

	t.Run("huge chunk size", func(t *testing.T) {
		raw := append(testRIFF(), "00db"...)
		raw = append(raw, convert.LEUint32ToBytes(0xFFFFFFFF)...)

		av, err := parseAVI(raw)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
		require.Nil(t, av)
	})

	t.Run("compressed avi video stream", func(t *testing.T) {
		// "H264" fourcc
		movi := testList("movi", testChunk("00db", testFramePayload(0, 4)))
		raw := testRIFF(testStreamList(0x34363248), movi)

		av, err := parseAVI(raw)
		require.ErrorIs(t, err, ErrUnsupportedCodec)
		require.Nil(t, av)
	})

	t.Run("no raw video frames", func(t *testing.T) {
		raw := testRIFF(testStreamList(0), testList("movi", testChunk("00db", nil)))

		av, err := parseAVI(raw)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
		require.Nil(t, av)
	})

	t.Run("invalid avi stream header", func(t *testing.T) {
		strl := testList("strl", testChunk("strh", []byte{1, 2}))
		raw := testRIFF(testList("hdrl", strl))

		av, err := parseAVI(raw)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
		require.Nil(t, av)
	})

	t.Run("invalid avi stream format", func(t *testing.T) {
		strh := make([]byte, 56)
		copy(strh, "vids")
		strl := testList("strl", testChunk("strh", strh), testChunk("strf", make([]byte, 10)))
		raw := testRIFF(testList("hdrl", strl))

		av, err := parseAVI(raw)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
		require.Nil(t, av)
	})
}
