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
	"io"
	"runtime"
	"sync"
	"syscall"

	"github.com/pawelgaczynski/uringcat/iouring"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// completion is what the driver keeps of a consumed completion queue event.
type completion struct {
	tag   uint64
	res   int32
	flags uint32
}

// abandoned keeps the buffers of reads whose completion could not be consumed.
// The kernel may still write into them after the ring is gone, so they are
// never handed back to the garbage collector.
var abandoned struct {
	sync.Mutex
	buffers [][]byte
}

// Driver reads requests through an io_uring instance and writes their
// contents to out in request order. A Driver is not safe for concurrent use.
type Driver struct {
	ring   *iouring.Ring
	out    io.Writer
	config Config
	logger zerolog.Logger
}

// NewDriver sets up a ring able to hold entries outstanding reads.
func NewDriver(entries uint, out io.Writer, config Config, logger zerolog.Logger) (*Driver, error) {
	ring, err := iouring.CreateRing(entries)
	if err != nil {
		logger.Error().Err(err).Uint("entries", entries).Msg("Ring setup failed")

		return nil, errors.Wrap(err, "setting up ring")
	}

	driver := &Driver{
		ring:   ring,
		out:    out,
		config: config,
		logger: logger,
	}

	supported, err := ring.IsOpSupported(iouring.OpReadv)
	switch {
	case err != nil:
		// Probing needs a newer kernel than readv itself does.
		driver.logWarn().Err(err).Msg("Cannot probe ring opcodes")
	case !supported:
		_ = ring.QueueExit()

		return nil, ErrorOpNotSupported(iouring.OpName(iouring.OpReadv))
	}

	driver.logDebug().
		Uint32("sq entries", ring.Entries()).
		Uint32("cq entries", ring.CQEntries()).
		Str("submission", config.Submission.String()).
		Str("output mode", config.OutputMode.String()).
		Msg("Ring ready")

	return driver, nil
}

// Run reads every request and writes its contents followed by a newline.
// Each request is closed once its output has been written. The first error
// stops the run.
func (d *Driver) Run(requests Requests) error {
	if d.config.Submission == Pipelined {
		return d.runPipelined(requests)
	}

	return d.runSequential(requests)
}

// Close releases the ring.
func (d *Driver) Close() error {
	return d.ring.QueueExit()
}

func (d *Driver) runSequential(requests Requests) error {
	for index, request := range requests {
		err := d.readOne(uint64(index), request)
		if err != nil {
			return err
		}
		_ = request.Close()
	}

	return nil
}

func (d *Driver) readOne(tag uint64, request *ReadRequest) error {
	if request.closed() {
		return errors.Wrapf(ErrRequestClosed, "reading %s", request.Path)
	}

	if request.Empty() {
		return d.emit(request, 0)
	}

	err := d.prepareRead(tag, request)
	if err != nil {
		return err
	}

	err = d.submit()
	if err != nil {
		return errors.Wrapf(err, "submitting read of %s", request.Path)
	}

	var mismatch error

	for {
		result, err := d.waitCompletion()
		if err != nil {
			d.abandon(request)

			return errors.Wrapf(err, "waiting for read of %s", request.Path)
		}

		if result.tag != tag {
			// Not ours. Keep waiting so the read does not outlive the run.
			if mismatch == nil {
				mismatch = ErrorTagMismatch(tag, result.tag)
			}

			continue
		}
		runtime.KeepAlive(request)

		if mismatch != nil {
			return mismatch
		}

		return d.complete(request, result)
	}
}

// abandon retains the buffers of a read that is still in flight.
func (d *Driver) abandon(request *ReadRequest) {
	abandoned.Lock()
	abandoned.buffers = append(abandoned.buffers, request.data)
	abandoned.Unlock()

	d.logWarn().Str("path", request.Path).Int("bytes", len(request.data)).Msg("Read abandoned in flight")
}

// prepareRead queues a readv of all the request's chunk buffers at offset 0,
// tagged with the request's position.
func (d *Driver) prepareRead(tag uint64, request *ReadRequest) error {
	entry, err := d.ring.GetSQE()
	if err != nil {
		return errors.Wrapf(err, "queueing read of %s", request.Path)
	}

	entry.PrepareReadvIovecs(request.Fd(), request.iovecs, 0)
	entry.UserData = tag

	d.logDebug().
		Str("op", iouring.OpName(entry.OpCode)).
		Uint64("user data", tag).
		Str("path", request.Path).
		Int("fd", request.Fd()).
		Int("iovecs", len(request.iovecs)).
		Msg("Read prepared")

	return nil
}

func (d *Driver) submit() error {
	for {
		_, err := d.ring.Submit()
		if errors.Is(err, iouring.ErrInterruptedSyscall) || errors.Is(err, iouring.ErrAgain) {
			continue
		}

		return err
	}
}

// waitCompletion blocks until the next completion is available and consumes
// it. Signals delivered to the thread restart the wait.
func (d *Driver) waitCompletion() (completion, error) {
	for {
		cqe, err := d.ring.WaitCQE()
		if errors.Is(err, iouring.ErrInterruptedSyscall) {
			continue
		}

		if err != nil {
			d.logError(err).Msg("Waiting for completion failed")

			return completion{}, err
		}

		result := completion{
			tag:   cqe.UserData(),
			res:   cqe.Res(),
			flags: cqe.Flags(),
		}
		d.logDebug().
			Int32("res", result.res).
			Uint64("user data", result.tag).
			Str("flags", cqe.FlagsString()).
			Msg("Completion consumed")

		d.ring.CQESeen(cqe)

		return result, nil
	}
}

func (d *Driver) complete(request *ReadRequest, result completion) error {
	if result.res < 0 {
		errno := syscall.Errno(-result.res)
		d.logError(errno).
			Str("error", unix.ErrnoName(errno)).
			Uint64("user data", result.tag).
			Str("path", request.Path).
			Msg("Read returned error code")

		return ErrorReadFailed(request.Path, errno)
	}

	n := -1
	if d.config.OutputMode == Strict {
		n = int(result.res)
	}

	if int64(result.res) != request.Size {
		d.logDebug().
			Int32("res", result.res).
			Int64("size", request.Size).
			Str("path", request.Path).
			Msg("Read length differs from file size")
	}

	return d.emit(request, n)
}

func (d *Driver) emit(request *ReadRequest, n int) error {
	err := writeText(d.out, request.Path, request.Bytes(n))
	if err != nil {
		d.logError(err).Str("path", request.Path).Msg("Writing output failed")
	}

	return err
}

func (d *Driver) logDebug() *zerolog.Event {
	return d.logger.Debug().Int("ring fd", d.ring.Fd())
}

func (d *Driver) logWarn() *zerolog.Event {
	return d.logger.Warn().Int("ring fd", d.ring.Fd())
}

func (d *Driver) logError(err error) *zerolog.Event {
	return d.logger.Error().Int("ring fd", d.ring.Fd()).Err(err)
}
