package iouring

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Magic offsets for the application to mmap the data it needs.
const (
	offsqRing uint64 = 0
	offcqRing uint64 = 0x8000000
	offSQEs   uint64 = 0x10000000
)

const mmapProt = unix.PROT_READ | unix.PROT_WRITE

const mmapFlags = unix.MAP_SHARED | unix.MAP_POPULATE

func fieldAt(base *byte, offset uint32) *uint32 {
	return (*uint32)(unsafe.Add(unsafe.Pointer(base), uintptr(offset)))
}

func mapRegion(fd int, offset uint64, size int) ([]byte, error) {
	data, err := unix.Mmap(fd, int64(offset), size, mmapProt, mmapFlags)
	if err != nil {
		return nil, os.NewSyscallError("mmap", err)
	}

	return data, nil
}

func (ring *Ring) mmap(fileDescriptor int) error {
	params := ring.params
	sq, cq := ring.sqRing, ring.cqRing

	sq.ringSize = uint64(params.sqOff.array) + uint64(params.sqEntries)*uint64(unsafe.Sizeof(uint32(0)))
	cq.ringSize = uint64(params.cqOff.cqes) + uint64(params.cqEntries)*uint64(unsafe.Sizeof(CompletionQueueEvent{}))

	singleMMap := params.features&FeatSingleMMap > 0
	if singleMMap {
		if cq.ringSize > sq.ringSize {
			sq.ringSize = cq.ringSize
		}
		cq.ringSize = sq.ringSize
	}

	data, err := mapRegion(fileDescriptor, offsqRing, int(sq.ringSize))
	if err != nil {
		return err
	}
	sq.buffer = data

	if singleMMap {
		cq.buffer = sq.buffer
	} else {
		data, err = mapRegion(fileDescriptor, offcqRing, int(cq.ringSize))
		if err != nil {
			_ = ring.UnmapRings()

			return err
		}
		cq.buffer = data
	}

	sqeSize := uintptr(params.sqEntries) * unsafe.Sizeof(SubmissionQueueEntry{})

	data, err = mapRegion(fileDescriptor, offSQEs, int(sqeSize))
	if err != nil {
		_ = ring.UnmapRings()

		return err
	}
	sq.sqeBuffer = data

	sqStart := &sq.buffer[0]
	sq.head = fieldAt(sqStart, params.sqOff.head)
	sq.tail = fieldAt(sqStart, params.sqOff.tail)
	sq.ringMask = fieldAt(sqStart, params.sqOff.ringMask)
	sq.ringEntries = fieldAt(sqStart, params.sqOff.ringEntries)
	sq.flags = fieldAt(sqStart, params.sqOff.flags)
	sq.dropped = fieldAt(sqStart, params.sqOff.dropped)
	sq.array = fieldAt(sqStart, params.sqOff.array)

	cqStart := &cq.buffer[0]
	cq.head = fieldAt(cqStart, params.cqOff.head)
	cq.tail = fieldAt(cqStart, params.cqOff.tail)
	cq.ringMask = fieldAt(cqStart, params.cqOff.ringMask)
	cq.ringEntries = fieldAt(cqStart, params.cqOff.ringEntries)
	cq.overflow = fieldAt(cqStart, params.cqOff.overflow)
	cq.cqeBuff = (*CompletionQueueEvent)(unsafe.Add(unsafe.Pointer(cqStart), uintptr(params.cqOff.cqes)))

	return nil
}

func (ring *Ring) munmap() error {
	if ring.sqRing.sqeBuffer == nil {
		return nil
	}

	err := unix.Munmap(ring.sqRing.sqeBuffer)
	ring.sqRing.sqeBuffer = nil

	if err != nil {
		return os.NewSyscallError("munmap", err)
	}

	return nil
}

func (ring *Ring) UnmapRings() error {
	var firstErr, secondErr error

	sq, cq := ring.sqRing, ring.cqRing
	shared := sq.buffer != nil && cq.buffer != nil && &cq.buffer[0] == &sq.buffer[0]

	if sq.buffer != nil {
		firstErr = unix.Munmap(sq.buffer)
		sq.buffer = nil
	}

	if cq.buffer != nil && !shared {
		secondErr = unix.Munmap(cq.buffer)
	}
	cq.buffer = nil

	if firstErr != nil || secondErr != nil {
		return fmt.Errorf("unmap rings: sq: %v, cq: %v", firstErr, secondErr) // nolint: errorlint
	}

	return nil
}
