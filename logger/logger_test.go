package logger

import (
	"bytes"
	"testing"

	. "github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for _, name := range LevelNames {
		level, err := ParseLevel(name)
		NoError(t, err)
		Equal(t, name, level.String())
	}

	level, err := ParseLevel("verbose")
	Error(t, err)
	Equal(t, NoLevel, level)
}

func TestNewLoggerToTagsComponent(t *testing.T) {
	var out bytes.Buffer

	log := NewLoggerTo(&out, "driver", InfoLevel, false)
	log.Debug().Msg("hidden")
	log.Info().Int("chunks", 2).Msg("visible")

	NotContains(t, out.String(), "hidden")
	Contains(t, out.String(), `"component":"driver"`)
	Contains(t, out.String(), `"chunks":2`)
}
