package iouring_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pawelgaczynski/uringcat/iouring"
	. "github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestReadvScattersAcrossIovecs(t *testing.T) {
	content := strings.Repeat("a", 300) + strings.Repeat("b", 100)
	path := filepath.Join(t.TempDir(), "data.txt")
	NoError(t, os.WriteFile(path, []byte(content), 0o600))

	file, err := os.Open(path)
	NoError(t, err)
	defer file.Close()

	ring, err := iouring.CreateRing(1)
	NoError(t, err)
	defer ring.QueueExit()

	buf := make([]byte, 512)
	iovecs := make([]unix.Iovec, 2)
	for i := range iovecs {
		iovecs[i].Base = &buf[i*256]
		iovecs[i].SetLen(256)
	}

	entry, err := ring.GetSQE()
	NoError(t, err)
	entry.PrepareReadvIovecs(int(file.Fd()), iovecs, 0)
	entry.UserData = 7

	_, err = ring.Submit()
	NoError(t, err)

	cqe, err := ring.WaitCQE()
	NoError(t, err)
	Equal(t, uint64(7), cqe.UserData())
	Equal(t, int32(len(content)), cqe.Res())
	ring.CQESeen(cqe)
	runtime.KeepAlive(iovecs)

	Equal(t, content, string(buf[:len(content)]))
	Equal(t, make([]byte, 512-len(content)), buf[len(content):])
}

func TestReadvReportsBadDescriptor(t *testing.T) {
	ring, err := iouring.CreateRing(1)
	NoError(t, err)
	defer ring.QueueExit()

	buf := make([]byte, 16)
	iovecs := []unix.Iovec{{Base: &buf[0]}}
	iovecs[0].SetLen(len(buf))

	entry, err := ring.GetSQE()
	NoError(t, err)
	entry.PrepareReadvIovecs(-1, iovecs, 0)

	_, err = ring.Submit()
	NoError(t, err)

	cqe, err := ring.WaitCQE()
	NoError(t, err)
	Equal(t, -int32(unix.EBADF), cqe.Res())
	ring.CQESeen(cqe)
}
