package wire

import "math"

func encodeFloat32(v float32) uint32 {
	return math.Float32bits(v)
}

func decodeFloat32(v uint32) float32 {
	return math.Float32frombits(v)
}
