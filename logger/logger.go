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

package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
	PanicLevel = zerolog.PanicLevel
	Disabled   = zerolog.Disabled
	TraceLevel = zerolog.TraceLevel
	NoLevel    = zerolog.NoLevel
)

// LevelNames lists the accepted values of ParseLevel.
var LevelNames = []string{
	"debug", "info", "warn", "error", "fatal", "panic", "disabled", "trace",
}

func ParseLevel(name string) (zerolog.Level, error) {
	switch name {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	case "panic":
		return PanicLevel, nil
	case "disabled":
		return Disabled, nil
	case "trace":
		return TraceLevel, nil
	default:
		return NoLevel, fmt.Errorf("possible values for logger level: %v", LevelNames)
	}
}

// NewLogger returns a logger tagged with component. Logs go to stderr, stdout
// is reserved for file contents.
func NewLogger(component string, level zerolog.Level, pretty bool) zerolog.Logger {
	return NewLoggerTo(os.Stderr, component, level, pretty)
}

func NewLoggerTo(out io.Writer, component string, level zerolog.Level, pretty bool) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(out).With().Timestamp().Str("component", component).Logger().Level(level)

	if pretty {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out})
	}

	return logger
}
