package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const opaqueBlack = "#000000FF"

var digitRuns = regexp.MustCompile(`\d+`)

// RGBToHex converts a browser color string such as "rgb(93, 67, 150)" or
// "rgba(0, 0, 0, 0)" to #rrggbbaa. The first three digit runs are the red,
// green and blue channels and a fourth run, when present, is the alpha
// channel; alpha defaults to ff.
//
// The result is lowercase except for the opaque-black fallback returned for
// empty input or input without digits. Callers uppercase it.
//
// Fractional alpha values are not interpreted: "rgba(0, 0, 0, 0.5)" has the
// digit runs 0 0 0 0 5 and yields alpha 00.
func RGBToHex(rgb string) string {
	if rgb == "" {
		return opaqueBlack
	}

	runs := digitRuns.FindAllString(rgb, -1)
	if len(runs) == 0 {
		return opaqueBlack
	}

	channels := [4]uint64{0, 0, 0, 255}
	for i := 0; i < len(runs) && i < 4; i++ {
		channels[i] = parseChannel(runs[i])
	}

	var sb strings.Builder
	sb.WriteByte('#')
	for _, c := range channels {
		h := strconv.FormatUint(c, 16)
		if len(h) < 2 {
			sb.WriteByte('0')
		}
		sb.WriteString(h)
	}
	return sb.String()
}

func parseChannel(digits string) uint64 {
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return math.MaxUint64
	}
	return v
}
