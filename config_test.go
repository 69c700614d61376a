package uringcat

import (
	"testing"

	"github.com/rs/zerolog"
	. "github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	config := NewConfig()

	Equal(t, Padded, config.OutputMode)
	Equal(t, Sequential, config.Submission)
	Equal(t, 1, config.OpenWorkers)
	Equal(t, zerolog.ErrorLevel, config.LoggerLevel)
	Equal(t, false, config.PrettyLogger)
}

func TestConfig(t *testing.T) {
	opts := []ConfigOption{
		WithOutputMode(Strict),
		WithSubmission(Pipelined),
		WithOpenWorkers(8),
		WithLoggerLevel(zerolog.DebugLevel),
		WithPrettyLogger(true),
	}

	config := NewConfig(opts...)

	Equal(t, Strict, config.OutputMode)
	Equal(t, Pipelined, config.Submission)
	Equal(t, 8, config.OpenWorkers)
	Equal(t, zerolog.DebugLevel, config.LoggerLevel)
	Equal(t, true, config.PrettyLogger)
}

func TestModeNames(t *testing.T) {
	Equal(t, "padded", Padded.String())
	Equal(t, "strict", Strict.String())
	Equal(t, "unknown", OutputMode(7).String())
	Equal(t, "sequential", Sequential.String())
	Equal(t, "pipelined", Pipelined.String())
	Equal(t, "unknown", Submission(7).String())
}
