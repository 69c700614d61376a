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
	"errors"
	"fmt"
)

var (
	// ErrNoFiles occurs when a run is started without input paths.
	ErrNoFiles = errors.New("no input files")
	// ErrOpNotSupported occurs when the kernel ring cannot perform vectored reads.
	ErrOpNotSupported = errors.New("operation not supported by the kernel")
	// ErrTagMismatch occurs when a completion carries a tag that does not belong
	// to any outstanding read.
	ErrTagMismatch = errors.New("completion tag mismatch")
	// ErrReadFailed occurs when the kernel completes a read with an error code.
	ErrReadFailed = errors.New("read failed")
	// ErrInvalidText occurs when file contents are not valid UTF-8.
	ErrInvalidText = errors.New("invalid UTF-8 text")
	// ErrTooManyChunks occurs when a file needs more buffers than one vectored
	// read can scatter into.
	ErrTooManyChunks = errors.New("file too large for a single vectored read")
	// ErrRequestClosed occurs when a request is used after its file was closed.
	ErrRequestClosed = errors.New("request closed")
)

func ErrorOpNotSupported(opName string) error {
	return fmt.Errorf("%w: %s", ErrOpNotSupported, opName)
}

func ErrorTagMismatch(expected, got uint64) error {
	return fmt.Errorf("%w, expected: %d, got: %d", ErrTagMismatch, expected, got)
}

func ErrorReadFailed(path string, errno error) error {
	return fmt.Errorf("%w, path: %s: %w", ErrReadFailed, path, errno)
}

func ErrorInvalidText(path string, offset int) error {
	return fmt.Errorf("%w, path: %s, offset: %d", ErrInvalidText, path, offset)
}

func ErrorTooManyChunks(path string, chunks int) error {
	return fmt.Errorf("%w, path: %s, chunks: %d, limit: %d (%d bytes)",
		ErrTooManyChunks, path, chunks, MaxChunks, MaxChunks*ChunkSize)
}
