package iouring

import (
	"math"
	"strings"
	"sync/atomic"
	"syscall"
	"unsafe"
)

const (
	CQEFBuffer uint32 = 1 << iota
	CQEFMore
	CQEFSockNonempty
	CQEFNotif
)

type CompletionQueueEvent struct {
	userData uint64
	res      int32
	flags    uint32
}

// UserData returns the correlation tag copied from the submission entry.
func (c *CompletionQueueEvent) UserData() uint64 {
	return c.userData
}

// Res returns the operation result: a byte count, or a negated errno.
func (c *CompletionQueueEvent) Res() int32 {
	return c.res
}

func (c *CompletionQueueEvent) Flags() uint32 {
	return c.flags
}

func (c *CompletionQueueEvent) FlagsString() string {
	flagsStrings := make([]string, 0)
	if c.flags&CQEFBuffer > 0 {
		flagsStrings = append(flagsStrings, "CQEFBuffer")
	}
	if c.flags&CQEFMore > 0 {
		flagsStrings = append(flagsStrings, "CQEFMore")
	}
	if c.flags&CQEFSockNonempty > 0 {
		flagsStrings = append(flagsStrings, "CQEFSockNonempty")
	}
	if c.flags&CQEFNotif > 0 {
		flagsStrings = append(flagsStrings, "CQEFNotif")
	}
	return strings.Join(flagsStrings, " | ")
}

func (ring *Ring) cqeAt(index uint32) *CompletionQueueEvent {
	return (*CompletionQueueEvent)(
		unsafe.Add(unsafe.Pointer(ring.cqRing.cqeBuff), uintptr(index)*unsafe.Sizeof(CompletionQueueEvent{})),
	)
}

func (ring *Ring) peekBatchCQEInternal(cqes []*CompletionQueueEvent) int {
	head := atomic.LoadUint32(ring.cqRing.head)
	ready := atomic.LoadUint32(ring.cqRing.tail) - head
	count := min(len(cqes), int(ready))
	mask := *ring.cqRing.ringMask
	for i := 0; i < count; i++ {
		cqes[i] = ring.cqeAt((head + uint32(i)) & mask)
	}
	return count
}

// PeekBatchCQE fills cqes with ready completions without blocking and
// returns how many were filled. The caller releases them with CQAdvance.
func (ring *Ring) PeekBatchCQE(cqes []*CompletionQueueEvent) int {
	numberOfCQEs := ring.peekBatchCQEInternal(cqes)
	if numberOfCQEs == 0 && ring.cqRingNeedsFlush() {
		flags := EnterGetEvents
		if ring.intFlags&IntFlagRegRing > 0 {
			flags |= EnterRegisteredRing
		}
		_, _ = ring.enter(0, 0, flags, nil)
		numberOfCQEs = ring.peekBatchCQEInternal(cqes)
	}
	return numberOfCQEs
}

type getData struct {
	submit, waitNr uint32
	flags          uint32
	arg            unsafe.Pointer
	sz             int
}

func (ring *Ring) getCQEAndEnter(data *getData) (*CompletionQueueEvent, error) {
	var looped bool
	for {
		var (
			needEnter bool
			flags     uint32
		)

		available, event, err := ring.peekCQE()
		if err != nil {
			return nil, err
		}

		if event == nil && data.waitNr == 0 && data.submit == 0 {
			if looped || !ring.cqRingNeedsEnter() {
				return nil, ErrAgain
			}
			needEnter = true
		}
		if data.waitNr > available || needEnter {
			flags = EnterGetEvents | data.flags
			needEnter = true
		}
		if data.submit != 0 && ring.sqRingNeedsEnter(&flags) {
			needEnter = true
		}
		if !needEnter {
			return event, nil
		}
		if ring.intFlags&IntFlagRegRing > 0 {
			flags |= EnterRegisteredRing
		}

		consumed, err := ring.enter2(data.submit, data.waitNr, flags, data.arg, data.sz)
		if err != nil {
			return nil, err
		}
		data.submit -= uint32(consumed)
		if event != nil {
			return event, nil
		}
		looped = true
	}
}

func (ring *Ring) getCQE(submitted, waitNr uint32) (*CompletionQueueEvent, error) {
	return ring.getCQEAndEnter(&getData{
		submit: submitted,
		waitNr: waitNr,
		sz:     nSig / szDivider,
	})
}

// WaitCQENr blocks until waitNr completions are ready and returns the first.
func (ring *Ring) WaitCQENr(waitNr uint32) (*CompletionQueueEvent, error) {
	return ring.getCQE(0, waitNr)
}

// WaitCQE blocks until a completion is ready and returns it. The event stays
// in the ring until it is released with CQESeen.
func (ring *Ring) WaitCQE() (*CompletionQueueEvent, error) {
	return ring.WaitCQENr(1)
}

// PeekCQE returns a ready completion without blocking, or ErrAgain.
func (ring *Ring) PeekCQE() (*CompletionQueueEvent, error) {
	return ring.getCQE(0, 0)
}

func (ring *Ring) CQESeen(event *CompletionQueueEvent) {
	if event != nil {
		ring.CQAdvance(1)
	}
}

// CQReady returns the number of completions waiting to be consumed.
func (ring *Ring) CQReady() uint32 {
	return atomic.LoadUint32(ring.cqRing.tail) - atomic.LoadUint32(ring.cqRing.head)
}

func (ring *Ring) cqRingNeedsFlush() bool {
	return atomic.LoadUint32(ring.sqRing.flags)&SQCQOverflow != 0
}

func (ring *Ring) cqRingNeedsEnter() bool {
	return (ring.flags&SetupIOPoll != 0) || ring.cqRingNeedsFlush()
}

func (ring *Ring) CQAdvance(nr uint32) {
	atomic.StoreUint32(ring.cqRing.head, *ring.cqRing.head+nr)
}

func (ring *Ring) peekCQE() (uint32, *CompletionQueueEvent, error) {
	mask := *ring.cqRing.ringMask
	for {
		tail := atomic.LoadUint32(ring.cqRing.tail)
		head := atomic.LoadUint32(ring.cqRing.head)
		available := tail - head
		if available == 0 {
			return 0, nil, nil
		}
		event := ring.cqeAt(head & mask)
		// Internal timeout completions of kernels without FeatExtArg.
		if ring.features&FeatExtArg == 0 && event.UserData() == math.MaxUint64 {
			res := event.Res()
			ring.CQAdvance(1)
			if res < 0 {
				return available, nil, syscall.Errno(-res)
			}
			continue
		}
		return available, event, nil
	}
}
