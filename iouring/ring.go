// Copyright (c) 2023 Paweł Gaczyński
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package iouring is a minimal binding to the Linux io_uring interface: ring
// setup and teardown, submission entry preparation, submission and completion
// consumption.
package iouring

const (
	SQNeedWakeup uint32 = 1 << iota
	SQCQOverflow
	SQTaskrun
)

const (
	IntFlagRegRing uint8 = 1
)

// MaxEntries is the largest submission queue the kernel accepts.
const MaxEntries uint = 32768

type SubmissionQueue struct {
	buffer    []byte
	sqeBuffer []byte
	ringSize  uint64

	head        *uint32
	tail        *uint32
	ringMask    *uint32
	ringEntries *uint32
	flags       *uint32
	dropped     *uint32
	array       *uint32

	sqeTail uint32
	sqeHead uint32
}

type CompletionQueue struct {
	buffer   []byte
	ringSize uint64

	head        *uint32
	tail        *uint32
	ringMask    *uint32
	ringEntries *uint32
	overflow    *uint32

	cqeBuff *CompletionQueueEvent
}

// Ring is a submission/completion queue pair shared with the kernel.
// A Ring must not be used from more than one goroutine at a time.
type Ring struct {
	sqRing      *SubmissionQueue
	cqRing      *CompletionQueue
	flags       uint32
	fd          int
	features    uint32
	enterRingFd int
	intFlags    uint8
	params      *Params

	exited bool
}

func (ring *Ring) Fd() int {
	return ring.fd
}

// Entries returns the number of submission queue slots granted by the kernel.
func (ring *Ring) Entries() uint32 {
	return *ring.sqRing.ringEntries
}

// CQEntries returns the number of completion queue slots granted by the kernel.
func (ring *Ring) CQEntries() uint32 {
	return *ring.cqRing.ringEntries
}

func (ring *Ring) Features() uint32 {
	return ring.features
}

func newRing() *Ring {
	return &Ring{
		params: &Params{},
		sqRing: &SubmissionQueue{},
		cqRing: &CompletionQueue{},
		fd:     -1,
	}
}

// CreateRing sets up a ring with room for entries outstanding submissions.
// Requests above MaxEntries are clamped by the kernel.
func CreateRing(entries uint) (*Ring, error) {
	if entries == 0 {
		return nil, ErrorInvalidEntries(entries)
	}

	ring := newRing()

	err := ring.QueueInit(entries, SetupClamp)
	if err != nil {
		return nil, err
	}

	return ring, nil
}
