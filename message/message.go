// Package message defines the fixed-size request and response records exchanged
// between client and server over the FIFOs.
//
// Request is the "envelope" for a single arithmetic call. The client writes it to
// the server's well-known request FIFO; the reply travels back over the FIFO named
// in ReplyPath. Both records have a byte-exact wire layout defined in the codec
// package — field widths here must stay in sync with it.
package message

// Field widths shared by both ends of the wire. OpSize leaves one byte of slack
// beyond the 3 significant characters; ReplyPathSize and ErrorSize bound the
// fixed-width string fields.
const (
	OpSize        = 4
	ReplyPathSize = 128
	ErrorSize     = 128
)

// Operation codes. Only the first 3 bytes are significant on the wire; anything
// beyond them is padding and is ignored by comparison.
const (
	OpAdd = "add"
	OpSub = "sub"
	OpMul = "mul"
	OpDiv = "div"
)

// Request carries the data for a single arithmetic request.
//
//   - Op holds the operation code, zero-padded to OpSize on the wire and not
//     guaranteed NUL-terminated.
//   - RequesterID is the client's PID. Informational only — routing is done
//     entirely through ReplyPath.
//   - ReplyPath names the FIFO the client owns for reading and is the ONLY way
//     the server can reach the client.
type Request struct {
	Op          [OpSize]byte
	Operand1    int64
	Operand2    int64
	RequesterID int32
	ReplyPath   string // truncated to ReplyPathSize-1 bytes on the wire
}

// Response carries the outcome of a single request.
//
//   - On success: Success is true and Result holds the value; Error is empty.
//   - On failure: Success is false and Error holds a human-readable message
//     (division by zero, invalid operation); Result is meaningless.
type Response struct {
	Result  int64
	Success bool
	Error   string // truncated to ErrorSize-1 bytes on the wire
}

// ValidOp reports whether op is in the closed operation set.
func ValidOp(op string) bool {
	return op == OpAdd || op == OpSub || op == OpMul || op == OpDiv
}

// NewRequest builds a Request from a textual operation code, padding or
// truncating it to the fixed width.
func NewRequest(op string, a, b int64, requesterID int32, replyPath string) Request {
	req := Request{
		Operand1:    a,
		Operand2:    b,
		RequesterID: requesterID,
		ReplyPath:   replyPath,
	}
	copy(req.Op[:], op)
	return req
}

// OpString returns the significant 3 bytes of the operation code for logging.
func (r *Request) OpString() string {
	return string(r.Op[:3])
}

// OpEqual compares the operation code against a 3-letter code by fixed-width
// byte equality, tolerating trailing garbage in the padding byte.
func (r *Request) OpEqual(code string) bool {
	return len(code) == 3 &&
		r.Op[0] == code[0] && r.Op[1] == code[1] && r.Op[2] == code[2]
}
