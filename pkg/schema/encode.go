package schema

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Marshal renders v as two-space indented JSON without HTML escaping and
// without a trailing newline, matching JSON.stringify(v, null, 2).
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Rem returns a rem LengthValue for n.
func Rem(n float64) LengthValue {
	return length(n, "rem")
}

// Px returns a pixel LengthValue for n.
func Px(n float64) LengthValue {
	return length(n, "px")
}

func length(n float64, unit string) LengthValue {
	if n == 0 {
		n = 0 // drop the sign of -0
	}
	return LengthValue{Number: n, Unit: unit, Style: FormatNumber(n) + unit}
}

// FormatNumber formats n in its shortest round-trip decimal form, the way
// JavaScript prints numbers in template strings.
func FormatNumber(n float64) string {
	if n == 0 {
		return "0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
