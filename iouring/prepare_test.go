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

package iouring_test

import (
	"testing"
	"unsafe"

	"github.com/pawelgaczynski/uringcat/iouring"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestPrepareReadv(t *testing.T) {
	entry := &iouring.SubmissionQueueEntry{UserData: 99}
	entry.PrepareReadv(10, 100, 3, 200)

	assert.Equal(t, uint8(1), entry.OpCode)
	assert.Equal(t, int32(10), entry.Fd)
	assert.Equal(t, uint64(100), entry.Addr)
	assert.Equal(t, uint32(3), entry.Len)
	assert.Equal(t, uint64(200), entry.Off)
	assert.Equal(t, uint64(0), entry.UserData)
}

func TestPrepareReadv2(t *testing.T) {
	entry := &iouring.SubmissionQueueEntry{}
	entry.PrepareReadv2(10, 100, 3, 0, iouring.RWFHiPri)

	assert.Equal(t, iouring.OpReadv, entry.OpCode)
	assert.Equal(t, iouring.RWFHiPri, entry.OpcodeFlags)
}

func TestPrepareReadvIovecs(t *testing.T) {
	buf := make([]byte, 512)
	iovecs := make([]unix.Iovec, 2)
	for i := range iovecs {
		iovecs[i].Base = &buf[i*256]
		iovecs[i].SetLen(256)
	}

	entry := &iouring.SubmissionQueueEntry{}
	entry.PrepareReadvIovecs(7, iovecs, 0)

	assert.Equal(t, iouring.OpReadv, entry.OpCode)
	assert.Equal(t, uint64(uintptr(unsafe.Pointer(&iovecs[0]))), entry.Addr)
	assert.Equal(t, uint32(2), entry.Len)

	entry.PrepareReadvIovecs(7, nil, 0)
	assert.Equal(t, uint64(0), entry.Addr)
	assert.Equal(t, uint32(0), entry.Len)
}

func TestPrepareRead(t *testing.T) {
	entry := &iouring.SubmissionQueueEntry{}
	entry.PrepareRead(10, 100, 512, 1024)

	assert.Equal(t, uint8(22), entry.OpCode)
	assert.Equal(t, uint32(512), entry.Len)
	assert.Equal(t, uint64(1024), entry.Off)
}

func TestPrepareClose(t *testing.T) {
	entry := &iouring.SubmissionQueueEntry{}
	entry.PrepareClose(10)

	assert.Equal(t, uint8(19), entry.OpCode)
	assert.Equal(t, int32(10), entry.Fd)
}
