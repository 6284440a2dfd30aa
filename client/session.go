// Package client implements the client side of the exchange: a session that
// owns one reply FIFO and issues synchronous requests against the server's
// well-known channel.
//
// The default reply path is derived from the client's PID, which makes it
// unique per process for the session's lifetime. Known limitation: under rapid
// PID reuse two distinct sessions could derive the same path; this mirrors the
// protocol's design and is not resolved here.
package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fifo-arith/codec"
	"fifo-arith/fifo"
	"fifo-arith/message"
)

// ServerError is a domain error reported by the server in a well-formed
// response (division by zero, invalid operation). It does not end the session.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %s", e.Message)
}

// Session owns a reply FIFO for the lifetime of one client process and reuses
// it across sequential requests. Exactly one exchange is outstanding at a
// time; Call serializes itself.
type Session struct {
	requestPath string
	replyPath   string
	requesterID int32
	mu          sync.Mutex // one outstanding exchange per session
}

// NewSession creates a session whose reply FIFO path is derived from the
// process ID, under the system temp directory.
func NewSession(requestPath string) (*Session, error) {
	pid := os.Getpid()
	replyPath := filepath.Join(os.TempDir(), fmt.Sprintf("arith_reply_%d.fifo", pid))
	return NewSessionWithReply(requestPath, replyPath)
}

// NewSessionWithReply creates a session with an explicit reply FIFO path.
// The reply FIFO is created here, before any request can reference it;
// creation is idempotent.
func NewSessionWithReply(requestPath, replyPath string) (*Session, error) {
	if len(replyPath) > message.ReplyPathSize-1 {
		return nil, fmt.Errorf("client: reply path exceeds %d bytes: %s",
			message.ReplyPathSize-1, replyPath)
	}
	if err := fifo.Create(replyPath); err != nil {
		return nil, err
	}
	return &Session{
		requestPath: requestPath,
		replyPath:   replyPath,
		requesterID: int32(os.Getpid()),
	}, nil
}

// Call performs one synchronous exchange:
//
//  1. open the well-known channel for writing (blocks until the server listens)
//  2. write exactly one request record, close the write handle
//  3. open the reply channel for reading (blocks until the worker attaches)
//  4. read exactly one response record, close the read handle
//
// A domain failure comes back as *ServerError; transport failures as ordinary
// errors. There is no timeout: if the server never replies, Call blocks — a
// documented limitation of the protocol.
func (s *Session) Call(op string, a, b int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := message.NewRequest(op, a, b, s.requesterID, s.replyPath)

	w, err := fifo.OpenWrite(s.requestPath)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(codec.EncodeRequest(&req)); err != nil {
		w.Close()
		return 0, fmt.Errorf("client: write request: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("client: close request channel: %w", err)
	}

	r, err := fifo.OpenRead(s.replyPath)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	resp, err := codec.ReadResponse(r)
	if err != nil {
		return 0, fmt.Errorf("client: read response: %w", err)
	}

	if !resp.Success {
		return 0, &ServerError{Message: resp.Error}
	}
	return resp.Result, nil
}

// ReplyPath returns the session's reply FIFO location.
func (s *Session) ReplyPath() string {
	return s.replyPath
}

// Close removes the reply FIFO. Call it at session end; the path is reused
// across requests and must survive until then.
func (s *Session) Close() error {
	return fifo.Remove(s.replyPath)
}
