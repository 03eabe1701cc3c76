package vitals

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Result is the downstream record published by GetOutput. It is copied out
// on every read; callers never retain pointers into pipeline-owned state.
type Result struct {
	ID                 uint16
	RangeBin           uint16
	HeartRate          float32
	BreathingRate      float32
	BreathingDeviation float32
	Valid              bool
}

// WireSize is the byte length of the little-endian wire record informative
// integrators republish over a TLV framing.
const WireSize = 20

// EncodeWire writes the 20-byte little-endian wire layout
// {u16 id, u16 rangeBin, f32 heartRate, f32 breathingRate, f32 breathingDeviation, u8 valid, u8[3] reserved}.
func (r Result) EncodeWire(dst []byte) error {
	if len(dst) < WireSize {
		return fmt.Errorf("%w: destination buffer shorter than %d bytes", ErrInvalidArg, WireSize)
	}
	binary.LittleEndian.PutUint16(dst[0:2], r.ID)
	binary.LittleEndian.PutUint16(dst[2:4], r.RangeBin)
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(r.HeartRate))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(r.BreathingRate))
	binary.LittleEndian.PutUint32(dst[12:16], math.Float32bits(r.BreathingDeviation))
	if r.Valid {
		dst[16] = 1
	} else {
		dst[16] = 0
	}
	dst[17], dst[18], dst[19] = 0, 0, 0
	return nil
}

// DecodeWire parses the 20-byte little-endian wire layout back into a Result.
func DecodeWire(src []byte) (Result, error) {
	var r Result
	if len(src) < WireSize {
		return r, fmt.Errorf("%w: source buffer shorter than %d bytes", ErrInvalidArg, WireSize)
	}
	r.ID = binary.LittleEndian.Uint16(src[0:2])
	r.RangeBin = binary.LittleEndian.Uint16(src[2:4])
	r.HeartRate = math.Float32frombits(binary.LittleEndian.Uint32(src[4:8]))
	r.BreathingRate = math.Float32frombits(binary.LittleEndian.Uint32(src[8:12]))
	r.BreathingDeviation = math.Float32frombits(binary.LittleEndian.Uint32(src[12:16]))
	r.Valid = src[16] != 0
	return r, nil
}
