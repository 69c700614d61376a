package iouring_test

import (
	"testing"

	"github.com/pawelgaczynski/uringcat/iouring"
	"github.com/stretchr/testify/assert"
	. "github.com/stretchr/testify/require"
)

func queueNOPs(t *testing.T, ring *iouring.Ring, number int, offset int) error {
	t.Helper()

	for i := 0; i < number; i++ {
		entry, err := ring.GetSQE()
		if err != nil {
			return err
		}

		entry.PrepareNop()
		entry.UserData = uint64(i + offset)
	}
	submitted, err := ring.Submit()
	Equal(t, number, int(submitted))
	return err
}

func TestPeekBatchCQE(t *testing.T) {
	ring, err := iouring.CreateRing(16)
	NoError(t, err)
	defer ring.QueueExit()

	cqeBuff := make([]*iouring.CompletionQueueEvent, 16)

	cnt := ring.PeekBatchCQE(cqeBuff)
	Equal(t, 0, cnt)

	NoError(t, queueNOPs(t, ring, 4, 0))
	_, err = ring.WaitCQENr(4)
	NoError(t, err)

	cnt = ring.PeekBatchCQE(cqeBuff)
	Equal(t, 4, cnt)
	for i := 0; i < 4; i++ {
		assert.Equal(t, uint64(i), cqeBuff[i].UserData())
	}

	NoError(t, queueNOPs(t, ring, 4, 4))

	ring.CQAdvance(uint32(4))
	_, err = ring.WaitCQENr(4)
	NoError(t, err)

	cnt = ring.PeekBatchCQE(cqeBuff)
	Equal(t, 4, cnt)
	for i := 0; i < 4; i++ {
		Equal(t, uint64(i+4), cqeBuff[i].UserData())
	}

	ring.CQAdvance(uint32(4))
	Equal(t, uint32(0), ring.CQReady())
}

func TestWaitCQEEchoesUserData(t *testing.T) {
	ring, err := iouring.CreateRing(4)
	NoError(t, err)
	defer ring.QueueExit()

	NoError(t, queueNOPs(t, ring, 1, 42))

	cqe, err := ring.WaitCQE()
	NoError(t, err)
	Equal(t, uint64(42), cqe.UserData())
	Equal(t, int32(0), cqe.Res())
	ring.CQESeen(cqe)

	_, err = ring.PeekCQE()
	ErrorIs(t, err, iouring.ErrAgain)
}

func TestFlagsString(t *testing.T) {
	cqe := &iouring.CompletionQueueEvent{}
	Equal(t, "", cqe.FlagsString())
}
