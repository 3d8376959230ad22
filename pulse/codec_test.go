package pulse

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	valid := EncodeSet(3, 4, 5)

	badSum := valid
	badSum[0] ^= 0xff

	badOp := valid
	badOp[4] = 0xf2

	var ascii [RequestSize]byte
	copy(ascii[:], "12345678")

	almostQuery := QueryPacket()
	almostQuery[7] = 'k'

	tests := []struct {
		name string
		in   [RequestSize]byte
		want Request
	}{
		{"query", QueryPacket(), Request{Kind: KindQuery}},
		{"set", valid, Request{Kind: KindSet, Variable: 3, Sender: 4, Value: 5}},
		{"set out of range keeps variable", EncodeSet(200, 1, 2), Request{Kind: KindSet, Variable: 200, Sender: 1, Value: 2}},
		{"bad checksum", badSum, Request{Kind: KindMalformed}},
		{"bad opcode", badOp, Request{Kind: KindMalformed}},
		{"ascii digits", ascii, Request{Kind: KindMalformed}},
		{"query token case", almostQuery, Request{Kind: KindMalformed}},
		{"all zero", [RequestSize]byte{}, Request{Kind: KindMalformed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeRequest(tt.in))
		})
	}
}

func TestEncodeSet_Layout(t *testing.T) {
	p := EncodeSet(3, 4, 5)
	assert.Equal(t, []byte{SetOpcode, 3, 4, 5}, p[4:])
	assert.Equal(t, uint32(0x03de00fe), binary.LittleEndian.Uint32(p[:4]))
}

func TestEncodeReport_Layout(t *testing.T) {
	var slots [NumVariables]Slot
	slots[0] = Slot{Timestamp: 0x0102, Sender: 3, Value: 4}
	slots[63] = Slot{Timestamp: 0xfffe, Sender: 0xaa, Value: 0xbb}

	var buf [ReportSize]byte
	EncodeReport(&buf, &slots)

	assert.Equal(t, []byte{0x02, 0x01, 3, 4}, buf[4:8])
	assert.Equal(t, []byte{0xfe, 0xff, 0xaa, 0xbb}, buf[ReportSize-4:])
	assert.Equal(t, Checksum(buf[4:]), binary.LittleEndian.Uint32(buf[:4]))
}

func TestParseReport(t *testing.T) {
	var slots [NumVariables]Slot
	slots[3] = Slot{Timestamp: 12345, Sender: 4, Value: 5}
	var buf [ReportSize]byte
	EncodeReport(&buf, &slots)

	r, err := ParseReport(buf[:])
	require.NoError(t, err)
	assert.Equal(t, slots, r.Slots)
	assert.Equal(t, uint32(0x6d610073), r.Checksum)

	_, err = ParseReport(buf[:ReportSize-1])
	assert.ErrorIs(t, err, ErrReportLength)

	buf[10] ^= 1
	_, err = ParseReport(buf[:])
	assert.ErrorIs(t, err, ErrReportChecksum)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "query", KindQuery.String())
	assert.Equal(t, "set", KindSet.String())
	assert.Equal(t, "malformed", KindMalformed.String())
}
