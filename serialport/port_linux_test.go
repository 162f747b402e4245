package serialport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// openPTY allocates a pseudo-terminal pair and returns the master side and
// the slave device path. The test is skipped when no PTY is available.
func openPTY(t *testing.T) (*os.File, string) {
	t.Helper()

	master, err := os.OpenFile("/dev/ptmx", os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	t.Cleanup(func() { _ = master.Close() })

	fd := int(master.Fd())
	if err := unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0); err != nil {
		t.Skipf("unlock pty: %v", err)
	}

	n, err := unix.IoctlGetUint32(fd, unix.TIOCGPTN)
	if err != nil {
		t.Skipf("get pty number: %v", err)
	}

	return master, fmt.Sprintf("/dev/pts/%d", n)
}

func openTestPort(t *testing.T, opts ...Option) (*Port, *os.File) {
	t.Helper()

	master, path := openPTY(t)

	defaults := []Option{WithReadTimer(MinReadTimer)}
	p, err := Open(path, append(defaults, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	return p, master
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "no-such-tty"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOpen))
	assert.True(t, errors.Is(err, unix.ENOENT))
}

func TestOpen_NotTerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regular")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotTerminal))
}

func TestOpen_InvalidOption(t *testing.T) {
	_, path := openPTY(t)

	_, err := Open(path, WithBaudRate(7))
	require.Error(t, err)
}

func TestPort_RawModeAndRestore(t *testing.T) {
	p, _ := openTestPort(t)

	before, err := unix.IoctlGetTermios(p.fd, ioctlGetTermios)
	require.NoError(t, err)

	require.NoError(t, p.Capture())
	assert.True(t, p.Captured())
	require.NoError(t, p.ApplyRawMode())

	raw, err := unix.IoctlGetTermios(p.fd, ioctlGetTermios)
	require.NoError(t, err)
	assert.Zero(t, raw.Lflag&(unix.ICANON|unix.ECHO|unix.ISIG), "canonical mode, echo and signals must be off")
	assert.Equal(t, uint8(0), raw.Cc[unix.VMIN])
	assert.Equal(t, uint8(1), raw.Cc[unix.VTIME])
	assert.Equal(t, uint32(unix.CS8), raw.Cflag&unix.CSIZE)

	require.NoError(t, p.Restore())

	after, err := unix.IoctlGetTermios(p.fd, ioctlGetTermios)
	require.NoError(t, err)
	assert.Equal(t, before.Lflag, after.Lflag)
	assert.Equal(t, before.Iflag, after.Iflag)
	assert.Equal(t, before.Cc, after.Cc)
}

func TestPort_RestoreOnce(t *testing.T) {
	p, _ := openTestPort(t)

	// Without a capture there is nothing to restore.
	require.NoError(t, p.Restore())

	require.NoError(t, p.Capture())
	require.NoError(t, p.ApplyRawMode())
	require.NoError(t, p.Restore())
	assert.True(t, p.restored)

	// A second restore must not reapply settings.
	require.NoError(t, p.ApplyRawMode())
	require.NoError(t, p.Restore())

	raw, err := unix.IoctlGetTermios(p.fd, ioctlGetTermios)
	require.NoError(t, err)
	assert.Zero(t, raw.Lflag&unix.ICANON)
}

func TestPort_ReadTimerExpires(t *testing.T) {
	p, _ := openTestPort(t)
	require.NoError(t, p.Capture())
	require.NoError(t, p.ApplyRawMode())

	buf := make([]byte, 5)
	start := time.Now()
	n, err := p.Read(buf)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestPort_ReadFrame(t *testing.T) {
	p, master := openTestPort(t)
	require.NoError(t, p.Capture())
	require.NoError(t, p.ApplyRawMode())

	want := []byte{0x7E, 0x03, 0x03, 0x00, 0x7E}
	_, err := master.Write(want)
	require.NoError(t, err)

	got := make([]byte, 0, len(want))
	buf := make([]byte, 5)
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < len(want) && time.Now().Before(deadline) {
		n, err := p.Read(buf[:len(want)-len(got)])
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}

	assert.Equal(t, want, got)
}

func TestPort_Write(t *testing.T) {
	p, master := openTestPort(t)
	require.NoError(t, p.Capture())
	require.NoError(t, p.ApplyRawMode())

	ua := []byte{0x7E, 0x01, 0x07, 0x06, 0x7E}
	n, err := p.Write(ua)
	require.NoError(t, err)
	assert.Equal(t, len(ua), n)

	got := make([]byte, len(ua))
	_, err = master.Read(got)
	require.NoError(t, err)
	assert.Equal(t, ua[0], got[0])
}

func TestPort_CloseIdempotent(t *testing.T) {
	p, _ := openTestPort(t)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err := p.Read(make([]byte, 1))
	assert.True(t, errors.Is(err, ErrClosed))

	_, err = p.Write([]byte{0x7E})
	assert.True(t, errors.Is(err, ErrClosed))

	assert.True(t, errors.Is(p.Capture(), ErrClosed))
	assert.True(t, errors.Is(p.ApplyRawMode(), ErrClosed))
}
