package tdf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// QType identifies whether a packet is a request, response, notification,
// or error, plus (via a high bit) whether the frame uses the extended
// 32-bit length encoding.
type QType uint16

const (
	QTypeRequest  QType = 0x00
	QTypeResponse QType = 0x10
	QTypeNotify   QType = 0x20
	QTypeError    QType = 0x30

	qTypeKindMask     QType = 0x30
	qTypeExtendedBit  QType = 0x0040
)

func (q QType) Kind() QType   { return q & qTypeKindMask }
func (q QType) Extended() bool { return q&qTypeExtendedBit != 0 }

// Packet is one decoded Blaze frame: header plus a TDF-encoded body.
type Packet struct {
	Component uint16
	Command   uint16
	Error     uint16
	QType     QType
	Seq       uint16
	Body      []byte
}

// EncodeFrame serializes a packet to the wire format described in
// spec.md §3, choosing the extended-length encoding automatically when the
// body exceeds 0xFFFF bytes.
//
// The header's `length` field and the optional trailing extended-length
// field together form a 32-bit body length: when the extended bit is set,
// total = (length<<16) | extended. This resolves an internal inconsistency
// in the source description (which also describes the encoder as emitting
// "the high 16 bits after seq") by following the precise decode formula —
// see DESIGN.md.
func EncodeFrame(p *Packet) []byte {
	bodyLen := uint32(len(p.Body))
	qtype := p.QType
	var header []byte

	if bodyLen > 0xFFFF {
		qtype |= qTypeExtendedBit
		high := uint16(bodyLen >> 16)
		low := uint16(bodyLen & 0xFFFF)
		header = make([]byte, 14)
		binary.BigEndian.PutUint16(header[0:2], high)
		binary.BigEndian.PutUint16(header[2:4], p.Component)
		binary.BigEndian.PutUint16(header[4:6], p.Command)
		binary.BigEndian.PutUint16(header[6:8], p.Error)
		binary.BigEndian.PutUint16(header[8:10], uint16(qtype))
		binary.BigEndian.PutUint16(header[10:12], p.Seq)
		binary.BigEndian.PutUint16(header[12:14], low)
	} else {
		qtype &^= qTypeExtendedBit
		header = make([]byte, 12)
		binary.BigEndian.PutUint16(header[0:2], uint16(bodyLen))
		binary.BigEndian.PutUint16(header[2:4], p.Component)
		binary.BigEndian.PutUint16(header[4:6], p.Command)
		binary.BigEndian.PutUint16(header[6:8], p.Error)
		binary.BigEndian.PutUint16(header[8:10], uint16(qtype))
		binary.BigEndian.PutUint16(header[10:12], p.Seq)
	}
	return append(header, p.Body...)
}

// ReadFrame reads one packet frame from r, decoding the header first to
// learn the body length (and whether it is extended) before reading the
// body. Truncated frames return an *io-layer* error (io.ErrUnexpectedEOF
// family), never a CodecError — those are reserved for malformed TDF
// content within an otherwise complete frame.
func ReadFrame(r io.Reader) (*Packet, error) {
	var base [12]byte
	if _, err := io.ReadFull(r, base[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	lengthField := binary.BigEndian.Uint16(base[0:2])
	component := binary.BigEndian.Uint16(base[2:4])
	command := binary.BigEndian.Uint16(base[4:6])
	errCode := binary.BigEndian.Uint16(base[6:8])
	qtype := QType(binary.BigEndian.Uint16(base[8:10]))
	seq := binary.BigEndian.Uint16(base[10:12])

	var bodyLen uint32
	if qtype.Extended() {
		var ext [2]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return nil, fmt.Errorf("read extended length: %w", err)
		}
		low := binary.BigEndian.Uint16(ext[:])
		bodyLen = uint32(lengthField)<<16 | uint32(low)
	} else {
		bodyLen = uint32(lengthField)
	}

	body := make([]byte, bodyLen)
	if bodyLen > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("read frame body (%d bytes): %w", bodyLen, err)
		}
	}

	return &Packet{
		Component: component,
		Command:   command,
		Error:     errCode,
		QType:     qtype,
		Seq:       seq,
		Body:      body,
	}, nil
}

func WriteFrame(w io.Writer, p *Packet) error {
	_, err := w.Write(EncodeFrame(p))
	return err
}
