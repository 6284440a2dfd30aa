// Package fifo manages the named pipes the service communicates over: the
// server's well-known request FIFO and the per-client reply FIFOs.
//
// Opening a FIFO is the synchronization primitive of the whole design — there
// is no accept step. Opening for writing blocks until a reader is present and
// opening for reading blocks until a writer is present, so a completed open is
// proof that the peer is attached.
package fifo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// Permissions for created FIFOs. The well-known FIFO must be writable by every
// participating client.
const Permissions = 0o666

// Create makes the FIFO at path. Creation is idempotent: a FIFO already
// present (for example left behind by a crashed server) is not an error.
func Create(path string) error {
	if err := unix.Mkfifo(path, Permissions); err != nil && !errors.Is(err, unix.EEXIST) {
		return fmt.Errorf("fifo: create %s: %w", path, err)
	}
	return nil
}

// OpenRead opens the FIFO for reading, blocking until a writer is attached.
func OpenRead(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("fifo: open %s for read: %w", path, err)
	}
	return f, nil
}

// OpenWrite opens the FIFO for writing, blocking until a reader is attached.
// For a client this is where it stalls when the server is absent.
func OpenWrite(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("fifo: open %s for write: %w", path, err)
	}
	return f, nil
}

// Remove deletes the FIFO from the filesystem. A missing file is not an error,
// so Remove is safe on every shutdown path.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("fifo: remove %s: %w", path, err)
	}
	return nil
}
