package fifo

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempFifoPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.fifo")
}

func TestCreateIdempotent(t *testing.T) {
	path := tempFifoPath(t)

	require.NoError(t, Create(path))
	// A second create over an existing FIFO (e.g. after a crash) must succeed.
	require.NoError(t, Create(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeNamedPipe)
}

func TestRemoveMissingIsNoError(t *testing.T) {
	assert.NoError(t, Remove(filepath.Join(t.TempDir(), "absent.fifo")))
}

// The blocking opens are the connection handshake: each side parks until the
// peer attaches, then data flows.
func TestOpenHandshake(t *testing.T) {
	path := tempFifoPath(t)
	require.NoError(t, Create(path))

	go func() {
		w, err := OpenWrite(path)
		if err != nil {
			return
		}
		defer w.Close()
		w.Write([]byte("hello"))
	}()

	r, err := OpenRead(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 5)
	_, err = io.ReadFull(r, buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf))
}

// The keeper writer must shield the reader from end-of-channel when a client
// disconnects: the next read blocks instead of returning EOF.
func TestRequestChannelNoSpuriousEOF(t *testing.T) {
	path := tempFifoPath(t)

	ch, err := OpenRequestChannel(path)
	require.NoError(t, err)
	defer ch.Close()

	// First client writes and disconnects.
	w, err := OpenWrite(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	buf := make([]byte, 3)
	_, err = io.ReadFull(ch.Reader(), buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf))

	// No writers left: the read must park, not report EOF.
	got := make(chan error, 1)
	go func() {
		one := make([]byte, 1)
		_, err := io.ReadFull(ch.Reader(), one)
		got <- err
	}()

	select {
	case err := <-got:
		t.Fatalf("read returned early between clients: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	// Second client arrives; the parked read completes.
	w2, err := OpenWrite(path)
	require.NoError(t, err)
	_, err = w2.Write([]byte("x"))
	require.NoError(t, err)
	w2.Close()

	select {
	case err := <-got:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("read did not complete after a new writer attached")
	}
}

func TestRequestChannelReopen(t *testing.T) {
	path := tempFifoPath(t)

	ch, err := OpenRequestChannel(path)
	require.NoError(t, err)
	defer ch.Close()

	require.NoError(t, ch.Reopen())

	// Channel still usable after the reopen.
	go func() {
		w, err := OpenWrite(path)
		if err != nil {
			return
		}
		defer w.Close()
		w.Write([]byte("ok"))
	}()

	buf := make([]byte, 2)
	_, err = io.ReadFull(ch.Reader(), buf)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(buf))
}

func TestRequestChannelCloseRemovesFifo(t *testing.T) {
	path := tempFifoPath(t)

	ch, err := OpenRequestChannel(path)
	require.NoError(t, err)
	require.NoError(t, ch.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
