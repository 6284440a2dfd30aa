// Package codec implements the fixed-layout binary encoding of the request and
// response records.
//
// Unlike a stream protocol there is no header+body framing: every record has a
// known total length, so the reader always asks the FIFO for exactly one
// record's worth of bytes. Field order, widths and endianness are defined here
// once and implemented symmetrically by both ends — never rely on in-memory
// struct layout.
//
// Request record (152 bytes):
//
//	0      4          12         20     24                 152
//	┌──────┬──────────┬──────────┬──────┬───────────────────┐
//	│ op   │ operand1 │ operand2 │ rid  │ replyPath          │
//	│ 4B   │ int64 BE │ int64 BE │ i32  │ 128B zero-padded   │
//	└──────┴──────────┴──────────┴──────┴───────────────────┘
//
// Response record (140 bytes):
//
//	0          8          12                 140
//	┌──────────┬──────────┬───────────────────┐
//	│ result   │ success  │ error              │
//	│ int64 BE │ int32 BE │ 128B zero-padded   │
//	└──────────┴──────────┴───────────────────┘
//
// Fixed-width strings are zero-padded and not guaranteed NUL-terminated; the
// decoder stops at the first NUL or the field boundary, whichever comes first.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"fifo-arith/message"
)

// Total record sizes in bytes, derived from the field widths above.
const (
	RequestSize  = message.OpSize + 8 + 8 + 4 + message.ReplyPathSize
	ResponseSize = 8 + 4 + message.ErrorSize
)

// ErrChannelClosed reports a read that returned zero bytes: every writer has
// closed the channel. This is a transient transport condition, not data
// corruption — the caller reopens the channel and continues.
var ErrChannelClosed = errors.New("codec: channel closed, no data")

// ErrPartialRecord reports a read that returned more than zero but fewer than
// the fixed record length. The record is unusable and must be dropped whole;
// no byte-level resynchronization is attempted.
var ErrPartialRecord = errors.New("codec: partial record")

// EncodeRequest serializes req into a RequestSize byte buffer.
func EncodeRequest(req *message.Request) []byte {
	buf := make([]byte, RequestSize)

	offset := 0
	// Operation code — OpSize bytes, significant in the first 3
	copy(buf[offset:offset+message.OpSize], req.Op[:])
	offset += message.OpSize

	// Operands — 8 bytes each, big-endian
	binary.BigEndian.PutUint64(buf[offset:offset+8], uint64(req.Operand1))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:offset+8], uint64(req.Operand2))
	offset += 8

	// Requester ID — 4 bytes
	binary.BigEndian.PutUint32(buf[offset:offset+4], uint32(req.RequesterID))
	offset += 4

	// Reply path — fixed width, zero-padded, always NUL-terminated on the wire
	copy(buf[offset:offset+message.ReplyPathSize-1], req.ReplyPath)

	return buf
}

// DecodeRequest deserializes one request record from data.
// A zero-length buffer and a short buffer fail with distinct errors because
// they mean different things to the dispatcher (reopen vs drop).
func DecodeRequest(data []byte) (*message.Request, error) {
	if len(data) == 0 {
		return nil, ErrChannelClosed
	}
	if len(data) < RequestSize {
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrPartialRecord, len(data), RequestSize)
	}

	req := &message.Request{}
	offset := 0

	copy(req.Op[:], data[offset:offset+message.OpSize])
	offset += message.OpSize

	req.Operand1 = int64(binary.BigEndian.Uint64(data[offset : offset+8]))
	offset += 8
	req.Operand2 = int64(binary.BigEndian.Uint64(data[offset : offset+8]))
	offset += 8

	req.RequesterID = int32(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4

	req.ReplyPath = fixedString(data[offset : offset+message.ReplyPathSize])

	return req, nil
}

// EncodeResponse serializes resp into a ResponseSize byte buffer.
func EncodeResponse(resp *message.Response) []byte {
	buf := make([]byte, ResponseSize)

	offset := 0
	binary.BigEndian.PutUint64(buf[offset:offset+8], uint64(resp.Result))
	offset += 8

	var success uint32
	if resp.Success {
		success = 1
	}
	binary.BigEndian.PutUint32(buf[offset:offset+4], success)
	offset += 4

	copy(buf[offset:offset+message.ErrorSize-1], resp.Error)

	return buf
}

// DecodeResponse deserializes one response record from data, with the same
// empty-vs-short error distinction as DecodeRequest.
func DecodeResponse(data []byte) (*message.Response, error) {
	if len(data) == 0 {
		return nil, ErrChannelClosed
	}
	if len(data) < ResponseSize {
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrPartialRecord, len(data), ResponseSize)
	}

	resp := &message.Response{}
	offset := 0

	resp.Result = int64(binary.BigEndian.Uint64(data[offset : offset+8]))
	offset += 8

	resp.Success = binary.BigEndian.Uint32(data[offset:offset+4]) == 1
	offset += 4

	resp.Error = fixedString(data[offset : offset+message.ErrorSize])

	return resp, nil
}

// ReadRequest reads exactly one request record from r.
// io.ReadFull guarantees the full record or a distinct failure: a clean EOF
// (zero bytes, all writers gone) maps to ErrChannelClosed, a short read maps
// to ErrPartialRecord.
func ReadRequest(r io.Reader) (*message.Request, error) {
	buf := make([]byte, RequestSize)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return nil, mapReadError(err, n, RequestSize)
	}
	return DecodeRequest(buf)
}

// ReadResponse reads exactly one response record from r.
func ReadResponse(r io.Reader) (*message.Response, error) {
	buf := make([]byte, ResponseSize)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return nil, mapReadError(err, n, ResponseSize)
	}
	return DecodeResponse(buf)
}

func mapReadError(err error, got, want int) error {
	switch {
	case errors.Is(err, io.EOF):
		return ErrChannelClosed
	case errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: got %d of %d bytes", ErrPartialRecord, got, want)
	default:
		return err
	}
}

// fixedString extracts a fixed-width string field: everything up to the first
// NUL, or the whole field if no NUL is present.
func fixedString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
