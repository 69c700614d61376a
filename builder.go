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
	"github.com/alitto/pond"
	"github.com/rs/zerolog"
)

// Builder turns input paths into read requests.
type Builder struct {
	workers int
	logger  zerolog.Logger
}

func NewBuilder(config Config, logger zerolog.Logger) *Builder {
	return &Builder{
		workers: config.OpenWorkers,
		logger:  logger,
	}
}

// Build opens and sizes every path and returns the requests in input order.
// Any failure aborts the whole build: files opened so far are closed and the
// error for the earliest failing path is returned.
func (b *Builder) Build(paths []string) (Requests, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	if b.workers > 1 && len(paths) > 1 {
		return b.buildParallel(paths)
	}

	return b.buildSequential(paths)
}

func (b *Builder) buildSequential(paths []string) (Requests, error) {
	requests := make(Requests, 0, len(paths))

	for _, path := range paths {
		request, err := OpenReadRequest(path)
		if err != nil {
			b.logger.Error().Err(err).Str("path", path).Msg("Building read request failed")
			_ = requests.Close()

			return nil, err
		}
		b.logRequest(request)
		requests = append(requests, request)
	}

	return requests, nil
}

func (b *Builder) buildParallel(paths []string) (Requests, error) {
	var (
		requests = make(Requests, len(paths))
		errs     = make([]error, len(paths))
		pool     = pond.New(min(b.workers, len(paths)), len(paths))
	)

	for index, path := range paths {
		index, path := index, path

		pool.Submit(func() {
			requests[index], errs[index] = OpenReadRequest(path)
		})
	}
	pool.StopAndWait()

	for index, err := range errs {
		if err != nil {
			b.logger.Error().Err(err).Str("path", paths[index]).Msg("Building read request failed")
			_ = requests.Close()

			return nil, err
		}
	}

	for _, request := range requests {
		b.logRequest(request)
	}

	return requests, nil
}

func (b *Builder) logRequest(request *ReadRequest) {
	b.logger.Debug().
		Str("path", request.Path).
		Int("fd", request.Fd()).
		Int64("size", request.Size).
		Int("chunks", request.Chunks).
		Msg("Read request built")
}
