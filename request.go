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

package uringcat

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	// ChunkSize is the size of a single read buffer.
	ChunkSize = 512
	// MaxChunks is the most iovecs a single readv accepts (UIO_MAXIOV), which
	// caps a file at MaxChunks*ChunkSize bytes.
	MaxChunks = 1024
)

// ReadRequest is one file's pending vectored read: the open file, its size and
// one zeroed ChunkSize buffer per chunk.
type ReadRequest struct {
	Path   string
	Size   int64
	Chunks int

	file    *os.File
	fd      int
	data    []byte
	buffers [][]byte
	iovecs  []unix.Iovec
}

func chunkCount(size int64) int {
	return int((size + ChunkSize - 1) / ChunkSize)
}

// createBuffers carves chunks ChunkSize buffers out of one zeroed allocation
// and describes each of them with an iovec.
func createBuffers(chunks int) ([]byte, [][]byte, []unix.Iovec) {
	if chunks == 0 {
		return nil, nil, nil
	}

	data := make([]byte, chunks*ChunkSize)
	buffers := make([][]byte, chunks)
	iovecs := make([]unix.Iovec, chunks)

	for index := range buffers {
		startIndex := index * ChunkSize
		buff := data[startIndex : startIndex+ChunkSize : startIndex+ChunkSize]
		buffers[index] = buff
		iovecs[index].Base = &buff[0]
		iovecs[index].SetLen(ChunkSize)
	}

	return data, buffers, iovecs
}

func newReadRequest(path string, file *os.File) (*ReadRequest, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}

	size := info.Size()
	chunks := chunkCount(size)
	if chunks > MaxChunks {
		return nil, ErrorTooManyChunks(path, chunks)
	}

	data, buffers, iovecs := createBuffers(chunks)

	return &ReadRequest{
		Path:    path,
		Size:    size,
		Chunks:  chunks,
		file:    file,
		fd:      int(file.Fd()),
		data:    data,
		buffers: buffers,
		iovecs:  iovecs,
	}, nil
}

// OpenReadRequest opens path and sizes its buffers.
func OpenReadRequest(path string) (*ReadRequest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	request, err := newReadRequest(path, file)
	if err != nil {
		_ = file.Close()

		return nil, err
	}

	return request, nil
}

// Fd returns the descriptor the read targets.
func (r *ReadRequest) Fd() int {
	return r.fd
}

// Buffers returns the chunk buffers in file order.
func (r *ReadRequest) Buffers() [][]byte {
	return r.buffers
}

// Capacity is the total number of bytes the buffers can hold.
func (r *ReadRequest) Capacity() int {
	return r.Chunks * ChunkSize
}

// Empty reports whether there is nothing to read.
func (r *ReadRequest) Empty() bool {
	return r.Chunks == 0
}

// Bytes returns the first n bytes of the buffers, or all of them when n is
// negative or larger than the capacity.
func (r *ReadRequest) Bytes(n int) []byte {
	if n < 0 || n > len(r.data) {
		n = len(r.data)
	}

	return r.data[:n]
}

// Close closes the file and drops the buffers. It is safe to call more than
// once.
func (r *ReadRequest) Close() error {
	if r.file == nil {
		return nil
	}

	err := r.file.Close()
	r.file = nil
	r.fd = -1
	r.data, r.buffers, r.iovecs = nil, nil, nil

	return err
}

func (r *ReadRequest) closed() bool {
	return r.file == nil
}

// Requests is an ordered set of read requests.
type Requests []*ReadRequest

// Close closes every request and returns the first error.
func (rs Requests) Close() error {
	var firstErr error

	for _, request := range rs {
		if request == nil {
			continue
		}

		if err := request.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
