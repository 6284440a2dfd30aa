package fifo

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// RequestChannel owns the server side of the well-known request FIFO: the read
// handle the dispatcher consumes from, plus a redundant write handle that is
// never written through.
//
// The redundant writer solves the open-end problem: a FIFO delivers EOF to its
// reader as soon as the last writer closes. Between clients the server would
// otherwise see a spurious end-of-channel after every request. Holding our own
// writer open for the channel's whole lifetime means writer count never drops
// to zero, so the reader simply blocks until the next client arrives.
type RequestChannel struct {
	path   string
	reader *os.File
	keeper *os.File // write end held open, never written
}

// OpenRequestChannel creates (idempotently) and opens the well-known FIFO.
//
// The read end is opened with O_NONBLOCK so the open itself returns before any
// writer exists; the keeper writer then opens without blocking because this
// process already holds the read end. The nonblocking flag stays set on the
// fd — the runtime poller turns reads into goroutine-level blocking reads.
func OpenRequestChannel(path string) (*RequestChannel, error) {
	if err := Create(path); err != nil {
		return nil, err
	}

	reader, err := openReadNonblock(path)
	if err != nil {
		return nil, err
	}

	keeper, err := OpenWrite(path)
	if err != nil {
		reader.Close()
		return nil, err
	}

	return &RequestChannel{path: path, reader: reader, keeper: keeper}, nil
}

// Reader returns the read handle the dispatcher consumes requests from.
// Exclusively owned by the dispatcher.
func (c *RequestChannel) Reader() *os.File {
	return c.reader
}

// Path returns the filesystem location of the FIFO.
func (c *RequestChannel) Path() string {
	return c.path
}

// Reopen replaces the read handle after a genuine end-of-channel observation.
// With the keeper in place this should not occur, but the dispatcher handles
// it defensively by reopening rather than terminating.
func (c *RequestChannel) Reopen() error {
	c.reader.Close()
	reader, err := openReadNonblock(c.path)
	if err != nil {
		return err
	}
	c.reader = reader
	return nil
}

// Close releases both handles and removes the FIFO from the filesystem.
func (c *RequestChannel) Close() error {
	var firstErr error
	if err := c.reader.Close(); err != nil {
		firstErr = err
	}
	if err := c.keeper.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := Remove(c.path); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func openReadNonblock(p string) (*os.File, error) {
	f, err := os.OpenFile(p, os.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("fifo: open %s for read: %w", p, err)
	}
	return f, nil
}
