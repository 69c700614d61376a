package iouring_test

import (
	"testing"

	"github.com/pawelgaczynski/uringcat/iouring"
	. "github.com/stretchr/testify/require"
)

func TestCreateRingRejectsZeroEntries(t *testing.T) {
	_, err := iouring.CreateRing(0)
	ErrorIs(t, err, iouring.ErrInvalidEntries)
}

func TestCreateRingRoundsUpEntries(t *testing.T) {
	ring, err := iouring.CreateRing(3)
	NoError(t, err)
	defer ring.QueueExit()

	Equal(t, uint32(4), ring.Entries())
	GreaterOrEqual(t, ring.CQEntries(), ring.Entries())
	Greater(t, ring.Fd(), 0)
}

func TestSubmitAndWait(t *testing.T) {
	ring, err := iouring.CreateRing(8)
	NoError(t, err)
	defer ring.QueueExit()

	for i := 0; i < 4; i++ {
		entry, err := ring.GetSQE()
		NoError(t, err)
		entry.PrepareNop()
		entry.UserData = uint64(i)
	}
	Equal(t, uint32(4), ring.SQReady())

	submitted, err := ring.SubmitAndWait(4)
	NoError(t, err)
	Equal(t, uint(4), submitted)
	Equal(t, uint32(4), ring.CQReady())
	Equal(t, uint32(8), ring.SQSpaceLeft())

	ring.CQAdvance(4)
}

func TestGetSQEOverflow(t *testing.T) {
	ring, err := iouring.CreateRing(2)
	NoError(t, err)
	defer ring.QueueExit()

	for i := 0; i < 2; i++ {
		_, err = ring.GetSQE()
		NoError(t, err)
	}
	Equal(t, uint32(0), ring.SQSpaceLeft())

	_, err = ring.GetSQE()
	ErrorIs(t, err, iouring.ErrSQEOverflow)
}

func TestQueueExitIsIdempotent(t *testing.T) {
	ring, err := iouring.CreateRing(1)
	NoError(t, err)

	NoError(t, ring.QueueExit())
	NoError(t, ring.QueueExit())
}
