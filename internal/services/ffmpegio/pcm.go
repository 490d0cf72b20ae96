package ffmpegio

import (
	"encoding/binary"
	"math"
)

// samplesToBytes serializes f32 PCM in little-endian byte order, the form
// ffmpeg's f32le format expects on stdin.
func samplesToBytes(samples []float32) []byte {
	buf := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(s))
	}
	return buf
}

// bytesToSamples parses little-endian f32 PCM. A trailing partial sample
// is dropped.
func bytesToSamples(data []byte) []float32 {
	n := len(data) / 4
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return samples
}
