package uringcat

import (
	"runtime"

	"github.com/pkg/errors"
)

// runPipelined submits as many reads as the ring has room for, drains their
// completions matching them to requests by tag, then writes the window in
// request order and moves on to the next window.
func (d *Driver) runPipelined(requests Requests) error {
	capacity := int(d.ring.Entries())

	for start := 0; start < len(requests); {
		end, inFlight, err := d.fillWindow(requests, start, capacity)
		if err != nil {
			return err
		}

		results, err := d.drainWindow(requests, start, end, inFlight)
		runtime.KeepAlive(requests)
		if err != nil {
			return err
		}

		for index := start; index < end; index++ {
			request := requests[index]
			if request.Empty() {
				err = d.emit(request, 0)
			} else {
				err = d.complete(request, results[uint64(index)])
			}
			if err != nil {
				return err
			}
			_ = request.Close()
		}

		start = end
	}

	return nil
}

// fillWindow prepares reads for requests[start:] until capacity reads are
// queued and submits them. Empty requests take no slot.
func (d *Driver) fillWindow(requests Requests, start, capacity int) (int, int, error) {
	end, inFlight := start, 0

	for ; end < len(requests) && inFlight < capacity; end++ {
		request := requests[end]
		if request.closed() {
			return 0, 0, errors.Wrapf(ErrRequestClosed, "reading %s", request.Path)
		}

		if request.Empty() {
			continue
		}

		err := d.prepareRead(uint64(end), request)
		if err != nil {
			return 0, 0, err
		}
		inFlight++
	}

	if inFlight == 0 {
		return end, 0, nil
	}

	err := d.submit()
	if err != nil {
		return 0, 0, errors.Wrapf(err, "submitting %d reads", inFlight)
	}

	d.logDebug().Int("first", start).Int("end", end).Int("in flight", inFlight).Msg("Window submitted")

	return end, inFlight, nil
}

// drainWindow waits until every read of the window has completed. Completions
// with a tag outside the window are recorded as a mismatch and do not count, so
// no read is left writing into released buffers.
func (d *Driver) drainWindow(requests Requests, start, end, inFlight int) (map[uint64]completion, error) {
	var (
		results  = make(map[uint64]completion, inFlight)
		firstErr error
	)

	for len(results) < inFlight {
		result, err := d.waitCompletion()
		if err != nil {
			for index := start; index < end; index++ {
				if _, done := results[uint64(index)]; !done && !requests[index].Empty() {
					d.abandon(requests[index])
				}
			}

			return nil, errors.Wrap(err, "waiting for reads")
		}

		_, seen := results[result.tag]
		if result.tag < uint64(start) || result.tag >= uint64(end) || seen || requests[result.tag].Empty() {
			if firstErr == nil {
				firstErr = ErrorTagMismatch(uint64(start), result.tag)
			}

			continue
		}
		results[result.tag] = result
	}

	if firstErr != nil {
		return nil, firstErr
	}

	return results, nil
}
