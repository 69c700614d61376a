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
	"unicode/utf8"

	"github.com/pkg/errors"
)

var newline = []byte{'\n'}

// writeText writes text followed by a newline. Nothing is written when text is
// not valid UTF-8. The check runs over the whole request so that a character
// split across two chunks is accepted.
func writeText(out io.Writer, path string, text []byte) error {
	if !utf8.Valid(text) {
		return ErrorInvalidText(path, invalidOffset(text))
	}

	if _, err := out.Write(text); err != nil {
		return errors.Wrap(err, "writing output")
	}

	if _, err := out.Write(newline); err != nil {
		return errors.Wrap(err, "writing output")
	}

	return nil
}

// invalidOffset returns the offset of the first byte that does not start a
// valid UTF-8 sequence, or -1.
func invalidOffset(text []byte) int {
	for offset := 0; offset < len(text); {
		r, size := utf8.DecodeRune(text[offset:])
		if r == utf8.RuneError && size <= 1 {
			return offset
		}
		offset += size
	}

	return -1
}
