// Copyright (c) 2025 Netskope, Inc. All rights reserved.

package domo

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// decodeText guesses the encoding of raw and returns it decoded to UTF-8
// along with the name of the guessed encoding. The guess is best-effort:
// BOM sniffing first, then a UTF-8 validity check (which also covers plain
// ASCII), then a Windows-1252 fallback for byte sequences that are not valid
// UTF-8. Anything indeterminate degrades to UTF-8 rather than failing.
func decodeText(raw []byte) ([]byte, string) {
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return raw[3:], "utf-8"
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}), bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, err := dec.Bytes(raw)
		if err != nil {
			return raw, "utf-8"
		}
		return out, "utf-16"
	case utf8.Valid(raw):
		return raw, "utf-8"
	}

	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return raw, "utf-8"
	}
	return out, "windows-1252"
}
