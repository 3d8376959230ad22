package pulse

import (
	"bytes"
	"hash/adler32"
)

// Vector is a recorded checksum: the value the deployed engine produced
// for Payload.
type Vector struct {
	Name    string
	Payload []byte
	Want    uint32
}

// VectorResult is the outcome of checking one [Vector].
type VectorResult struct {
	Vector
	Got uint32
	// Adler32 is zlib's Adler-32 of the payload, kept for comparison only.
	Adler32 uint32
}

// Match reports whether the computed checksum equals the recorded one.
func (r VectorResult) Match() bool { return r.Got == r.Want }

// AgreesWithAdler32 reports whether zlib's Adler-32 happens to produce
// the recorded value for this payload.
func (r VectorResult) AgreesWithAdler32() bool { return r.Adler32 == r.Want }

// CheckVectors computes [Checksum] for every vector.
func CheckVectors(vs []Vector) []VectorResult {
	out := make([]VectorResult, len(vs))
	for i, v := range vs {
		out[i] = VectorResult{
			Vector:  v,
			Got:     Checksum(v.Payload),
			Adler32: adler32.Checksum(v.Payload),
		}
	}
	return out
}

// DiffVectors returns only the vectors whose checksum disagrees with the
// recorded value. An empty result means the implementation matches.
func DiffVectors(vs []Vector) []VectorResult {
	var diffs []VectorResult
	for _, r := range CheckVectors(vs) {
		if !r.Match() {
			diffs = append(diffs, r)
		}
	}
	return diffs
}

// ReferenceVectors returns checksums recorded from the native engine.
// The last three diverge from zlib's Adler-32.
func ReferenceVectors() []Vector {
	seq := make([]byte, 256)
	for i := range seq {
		seq[i] = byte(i)
	}
	report := make([]byte, ReportSize-ChecksumSize)
	copy(report[3*RecordSize:], []byte{0x39, 0x30, 4, 5})

	return []Vector{
		{Name: "empty", Payload: []byte{}, Want: 0x00000001},
		{Name: "single byte", Payload: []byte{0x01}, Want: 0x00020002},
		{Name: "set 3 4 5", Payload: []byte{SetOpcode, 3, 4, 5}, Want: 0x03de00fe},
		{Name: "set ff ff ff", Payload: []byte{0xff, 0xff, 0xff, 0xff}, Want: 0x09fa03fd},
		{Name: "query token", Payload: []byte(QueryToken), Want: 0x0ded0310},
		{Name: "empty report", Payload: make([]byte, ReportSize-ChecksumSize), Want: 0x01000001},
		{Name: "report slot 3", Payload: report, Want: 0x6d610073},
		{Name: "zeros 5000", Payload: make([]byte, 5000), Want: 0x13880001},
		{Name: "ff 256", Payload: bytes.Repeat([]byte{0xff}, 256), Want: 0x008fff01},
		{Name: "sequence 256", Payload: seq, Want: 0xab8f7f81},
		{Name: "ff 5000", Payload: bytes.Repeat([]byte{0xff}, 5000), Want: 0x21d37497},
	}
}
