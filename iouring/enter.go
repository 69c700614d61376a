package iouring

import (
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	EnterGetEvents uint32 = 1 << iota
	EnterSQWakeup
	EnterSQWait
	EnterExtArg
	EnterRegisteredRing
)

func convertErrno(errno syscall.Errno) error {
	switch errno {
	case syscall.ETIME:
		return ErrTimerExpired
	case syscall.EINTR:
		return ErrInterruptedSyscall
	case syscall.EAGAIN:
		return ErrAgain
	}

	return os.NewSyscallError("io_uring_enter", errno)
}

func (ring *Ring) enter(submitted uint32, waitNr uint32, flags uint32, sig unsafe.Pointer) (uint, error) {
	return ring.enter2(submitted, waitNr, flags, sig, nSig/szDivider)
}

func (ring *Ring) enter2(
	submitted uint32,
	waitNr uint32,
	flags uint32,
	sig unsafe.Pointer,
	size int,
) (uint, error) {
	consumed, _, errno := unix.Syscall6(
		sysEnter,
		uintptr(ring.enterRingFd),
		uintptr(submitted),
		uintptr(waitNr),
		uintptr(flags),
		uintptr(sig),
		uintptr(size),
	)
	if errno != 0 {
		return 0, convertErrno(errno)
	}

	return uint(consumed), nil
}
