package stego

import (
	"runtime"
	"sync"
)

// videoLSB embeds one bit to the least significant bit of each frame
// payload byte, position p selects payload byte p. The container bytes
// outside the frame payloads are copied unchanged, so the stego output
// keeps the original frame order and chunk layout.
type videoLSB struct {
	avi     *aviVideo
	out     []byte
	workers int
}

func newVideoLSB(carrier []byte, opts *Options) (*videoLSB, error) {
	av, err := parseAVI(carrier)
	if err != nil {
		return nil, err
	}
	workers := opts.VideoWorkers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	vl := videoLSB{
		avi:     av,
		workers: workers,
	}
	return &vl, nil
}

// Capacity is used to calculate the number of bits that the video can
// hold, one bit for each frame payload byte.
func (vl *videoLSB) Capacity() uint64 {
	return vl.avi.total
}

// Slots is used to get the position domain size, one bit one position.
func (vl *videoLSB) Slots() uint64 {
	return vl.Capacity()
}

// Embed is used to write bits to the least significant bits of the
// frame payload bytes selected by the drawn positions. The writes are
// split between the workers, each position is unique so the workers
// never write the same byte.
func (vl *videoLSB) Embed(bits []byte, positions []uint64) error {
	offsets := make([]int, len(bits))
	for i := range offsets {
		offsets[i] = vl.avi.locate(positions[i])
	}
	if vl.out == nil {
		vl.out = make([]byte, len(vl.avi.raw))
		copy(vl.out, vl.avi.raw)
	}

	chunk := (len(bits) + vl.workers - 1) / vl.workers
	wg := sync.WaitGroup{}
	for begin := 0; begin < len(bits); begin += chunk {
		end := begin + chunk
		if end > len(bits) {
			end = len(bits)
		}
		wg.Add(1)
		go vl.embedRange(&wg, bits[begin:end], offsets[begin:end])
	}
	wg.Wait()
	return nil
}

func (vl *videoLSB) embedRange(wg *sync.WaitGroup, bits []byte, offsets []int) {
	defer wg.Done()
	for i, bit := range bits {
		b := vl.out[offsets[i]]
		switch {
		case bit == 0 && b&1 == 1:
			b--
		case bit == 1 && b&1 == 0:
			b++
		}
		vl.out[offsets[i]] = b
	}
}

// Extract is used to read bits from the least significant bits of the
// frame payload bytes selected by the drawn positions.
func (vl *videoLSB) Extract(positions []uint64) ([]byte, error) {
	raw := vl.avi.raw
	bits := make([]byte, len(positions))
	for i, position := range positions {
		bits[i] = raw[vl.avi.locate(position)] & 1
	}
	return bits, nil
}

// Encode is used to get the patched container bytes.
func (vl *videoLSB) Encode() ([]byte, error) {
	if vl.out == nil {
		panic("stego: internal error")
	}
	return vl.out, nil
}
