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

// Package uringcat prints files by reading them through io_uring: every file
// becomes one vectored read over 512-byte chunk buffers, submitted to a ring
// and written out in input order once its completion arrives.
package uringcat

import (
	"io"

	"github.com/pawelgaczynski/uringcat/logger"
)

// Cat writes the contents of every path to out, each followed by a newline,
// in the order given. Any failure stops the run; output already written for
// earlier files stays written.
func Cat(paths []string, out io.Writer, options ...ConfigOption) error {
	config := NewConfig(options...)

	builder := NewBuilder(config, logger.NewLogger("builder", config.LoggerLevel, config.PrettyLogger))

	requests, err := builder.Build(paths)
	if err != nil {
		return err
	}
	defer requests.Close()

	driver, err := NewDriver(
		uint(len(requests)), out, config, logger.NewLogger("driver", config.LoggerLevel, config.PrettyLogger))
	if err != nil {
		return err
	}
	defer driver.Close()

	return driver.Run(requests)
}
