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

package iouring

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

func (entry *SubmissionQueueEntry) prepareRW(opcode uint8, fd int, addr uintptr, length uint32, offset uint64) {
	entry.OpCode = opcode
	entry.Flags = 0
	entry.IoPrio = 0
	entry.Fd = int32(fd)
	entry.Off = offset
	entry.Addr = uint64(addr)
	entry.Len = length
	entry.OpcodeFlags = 0
	entry.UserData = 0
	entry.BufIG = 0
	entry.Personality = 0
	entry.SpliceFdIn = 0
	entry._pad2[0] = 0
	entry._pad2[1] = 0
}

// PrepareReadv prepares a vectored read of fd at offset into the buffers
// described by nrVecs iovecs starting at iovecs. The iovecs and the memory they
// point to must stay alive until the completion is consumed.
func (entry *SubmissionQueueEntry) PrepareReadv(fd int, iovecs uintptr, nrVecs uint32, offset uint64) {
	entry.prepareRW(OpReadv, fd, iovecs, nrVecs, offset)
}

func (entry *SubmissionQueueEntry) PrepareReadv2(fd int, iovecs uintptr, nrVecs uint32, offset uint64, flags uint32) {
	entry.PrepareReadv(fd, iovecs, nrVecs, offset)
	entry.OpcodeFlags = flags
}

// PrepareReadvIovecs is PrepareReadv for a Go slice of iovecs. An empty slice
// prepares a zero-length read.
func (entry *SubmissionQueueEntry) PrepareReadvIovecs(fd int, iovecs []unix.Iovec, offset uint64) {
	var addr uintptr
	if len(iovecs) > 0 {
		addr = uintptr(unsafe.Pointer(&iovecs[0]))
	}
	entry.PrepareReadv(fd, addr, uint32(len(iovecs)), offset)
}

func (entry *SubmissionQueueEntry) PrepareWritev(fd int, iovecs uintptr, nrVecs uint32, offset uint64) {
	entry.prepareRW(OpWritev, fd, iovecs, nrVecs, offset)
}

func (entry *SubmissionQueueEntry) PrepareRead(fd int, buffer uintptr, nbytes uint32, offset uint64) {
	entry.prepareRW(OpRead, fd, buffer, nbytes, offset)
}

func (entry *SubmissionQueueEntry) PrepareNop() {
	entry.prepareRW(OpNop, -1, 0, 0, 0)
}

func (entry *SubmissionQueueEntry) PrepareClose(fd int) {
	entry.prepareRW(OpClose, fd, 0, 0, 0)
}
