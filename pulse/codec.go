package pulse

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// RequestSize is the length of every request datagram.
	RequestSize = 8

	// ChecksumSize is the length of the checksum prefix on requests and reports.
	ChecksumSize = 4

	// RecordSize is the length of one slot record in a report.
	RecordSize = 4

	// ReportSize is the length of a health report: checksum plus 64 records.
	ReportSize = ChecksumSize + NumVariables*RecordSize

	// SetOpcode marks a set request.
	SetOpcode = 0xF1
)

// QueryToken is the request asking for a health report.
const QueryToken = "AreyouOK"

// QueryPacket returns the query request as a fixed-size array.
func QueryPacket() [RequestSize]byte {
	var p [RequestSize]byte
	copy(p[:], QueryToken)
	return p
}

var (
	// ErrFrameLength is returned when a request is not exactly RequestSize bytes.
	ErrFrameLength = errors.New("request must be exactly 8 bytes")

	// ErrReportLength is returned by ParseReport for a buffer of the wrong size.
	ErrReportLength = errors.New("report must be exactly 260 bytes")

	// ErrReportChecksum is returned by ParseReport when the checksum field
	// does not match the payload.
	ErrReportChecksum = errors.New("report checksum mismatch")
)

// Kind classifies a decoded request.
type Kind uint8

const (
	// KindMalformed is a request with a bad checksum or an unknown opcode.
	KindMalformed Kind = iota
	// KindQuery asks for a health report.
	KindQuery
	// KindSet updates one variable.
	KindSet
)

func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindSet:
		return "set"
	default:
		return "malformed"
	}
}

// Request is a decoded request. Variable, Sender and Value are only
// meaningful for KindSet. Variable spans the whole byte range; only 0-63
// address a slot.
type Request struct {
	Kind     Kind
	Variable uint8
	Sender   uint8
	Value    uint8
}

// DecodeRequest classifies an 8-byte request.
func DecodeRequest(p [RequestSize]byte) Request {
	if string(p[:]) == QueryToken {
		return Request{Kind: KindQuery}
	}
	payload := p[ChecksumSize:]
	if payload[0] != SetOpcode {
		return Request{Kind: KindMalformed}
	}
	if binary.LittleEndian.Uint32(p[:ChecksumSize]) != Checksum(payload) {
		return Request{Kind: KindMalformed}
	}
	return Request{
		Kind:     KindSet,
		Variable: payload[1],
		Sender:   payload[2],
		Value:    payload[3],
	}
}

// EncodeSet builds a checksummed set request.
func EncodeSet(variable, sender, value uint8) [RequestSize]byte {
	var p [RequestSize]byte
	p[4] = SetOpcode
	p[5] = variable
	p[6] = sender
	p[7] = value
	binary.LittleEndian.PutUint32(p[:ChecksumSize], Checksum(p[ChecksumSize:]))
	return p
}

// EncodeReport lays out slots as a health report in dst.
func EncodeReport(dst *[ReportSize]byte, slots *[NumVariables]Slot) {
	for i := range slots {
		rec := dst[ChecksumSize+i*RecordSize:]
		binary.LittleEndian.PutUint16(rec, slots[i].Timestamp)
		rec[2] = slots[i].Sender
		rec[3] = slots[i].Value
	}
	binary.LittleEndian.PutUint32(dst[:ChecksumSize], Checksum(dst[ChecksumSize:]))
}

// Report is a parsed health report.
type Report struct {
	Checksum uint32
	Slots    [NumVariables]Slot
}

// ParseReport decodes and verifies a health report.
func ParseReport(p []byte) (Report, error) {
	var r Report
	if len(p) != ReportSize {
		return r, fmt.Errorf("%w: got %d", ErrReportLength, len(p))
	}
	r.Checksum = binary.LittleEndian.Uint32(p[:ChecksumSize])
	if want := Checksum(p[ChecksumSize:]); want != r.Checksum {
		return r, fmt.Errorf("%w: field %08x, payload %08x", ErrReportChecksum, r.Checksum, want)
	}
	for i := range r.Slots {
		rec := p[ChecksumSize+i*RecordSize:]
		r.Slots[i] = Slot{
			Timestamp: binary.LittleEndian.Uint16(rec),
			Sender:    rec[2],
			Value:     rec[3],
		}
	}
	return r, nil
}
