package transcriber

import "encoding/binary"

// downsample reduces 16-bit little-endian mono PCM by an integer factor,
// averaging each window of factor input samples into one output sample.
// Input at rate*factor Hz becomes output at rate Hz.
func downsample(in []byte, factor int) []byte {
	inSamples := len(in) / 2
	if factor <= 1 || inSamples == 0 {
		return in
	}
	outSamples := inSamples / factor
	out := make([]byte, outSamples*2)
	for i := 0; i < outSamples; i++ {
		var acc int
		for j := 0; j < factor; j++ {
			acc += int(readSample(in, i*factor+j))
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(acc/factor)))
	}
	return out
}

func readSample(buf []byte, idx int) int16 {
	off := idx * 2
	if off+1 >= len(buf) {
		// Clamp to last sample.
		off = len(buf) - 2
	}
	if off < 0 {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(buf[off:]))
}
