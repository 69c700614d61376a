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
	"github.com/rs/zerolog"
)

const defaultOpenWorkers = 1

type ConfigOption func(*Config)

// OutputMode decides how much of a request's buffers is written once its read
// has completed.
type OutputMode int

const (
	// Padded writes every chunk buffer in full, zero padding included,
	// whatever byte count the kernel reported.
	Padded OutputMode = iota
	// Strict truncates the output to the byte count reported by the kernel.
	Strict
)

func (m OutputMode) String() string {
	switch m {
	case Padded:
		return "padded"
	case Strict:
		return "strict"
	}

	return "unknown"
}

// Submission selects how reads are issued to the ring.
type Submission int

const (
	// Sequential submits one read and waits for its completion before
	// submitting the next.
	Sequential Submission = iota
	// Pipelined fills the submission queue, drains the completions by tag and
	// then writes the batch in request order.
	Pipelined
)

func (s Submission) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case Pipelined:
		return "pipelined"
	}

	return "unknown"
}

type Config struct {
	// OutputMode selects padded or strict output.
	OutputMode OutputMode
	// Submission selects sequential or pipelined reads.
	Submission Submission
	// OpenWorkers is the number of goroutines opening and sizing input files.
	// Values below 2 open files one by one.
	OpenWorkers int
	// LoggerLevel is the logging level (zerolog).
	LoggerLevel zerolog.Level
	// PrettyLogger writes human readable logs instead of JSON.
	PrettyLogger bool
}

func WithOutputMode(mode OutputMode) ConfigOption {
	return func(c *Config) {
		c.OutputMode = mode
	}
}

func WithSubmission(submission Submission) ConfigOption {
	return func(c *Config) {
		c.Submission = submission
	}
}

func WithOpenWorkers(workers int) ConfigOption {
	return func(c *Config) {
		c.OpenWorkers = workers
	}
}

func WithLoggerLevel(loggerLevel zerolog.Level) ConfigOption {
	return func(c *Config) {
		c.LoggerLevel = loggerLevel
	}
}

func WithPrettyLogger(prettyLogger bool) ConfigOption {
	return func(c *Config) {
		c.PrettyLogger = prettyLogger
	}
}

func NewConfig(opts ...ConfigOption) Config {
	config := Config{
		OutputMode:   Padded,
		Submission:   Sequential,
		OpenWorkers:  defaultOpenWorkers,
		LoggerLevel:  zerolog.ErrorLevel,
		PrettyLogger: false,
	}
	for _, opt := range opts {
		opt(&config)
	}

	return config
}
