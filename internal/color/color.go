// Package color normalises ribbon colours to lowercase #rrggbb.
//
// Accepted inputs: CSS/SVG colour names ("blue"), 3 or 6 digit hex with or
// without a leading '#', and rgb()/rgba() functional notation. Alpha is dropped.
package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var ErrInvalidColor = errors.New("Invalid color name or code")

func Normalize(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", ErrInvalidColor
	}

	if c, ok := colornames.Map[s]; ok {
		return toHex(c.R, c.G, c.B), nil
	}

	if strings.HasPrefix(s, "rgb") {
		return parseRGBFunc(s)
	}

	return parseHex(strings.TrimPrefix(s, "#"))
}

func parseHex(h string) (string, error) {
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	default:
		return "", ErrInvalidColor
	}

	if _, err := strconv.ParseUint(h, 16, 32); err != nil {
		return "", ErrInvalidColor
	}

	return "#" + h, nil
}

func parseRGBFunc(s string) (string, error) {
	var body string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		body = s[len("rgba(") : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		body = s[len("rgb(") : len(s)-1]
	default:
		return "", ErrInvalidColor
	}

	parts := strings.Split(body, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return "", ErrInvalidColor
	}

	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := channel(strings.TrimSpace(parts[i]))
		if err != nil {
			return "", err
		}
		rgb[i] = v
	}

	return toHex(rgb[0], rgb[1], rgb[2]), nil
}

// channel parses "0".."255" or "0%".."100%".
func channel(p string) (uint8, error) {
	if pct, ok := strings.CutSuffix(p, "%"); ok {
		f, err := strconv.ParseFloat(pct, 64)
		if err != nil || f < 0 || f > 100 {
			return 0, ErrInvalidColor
		}
		return uint8(f*255/100 + 0.5), nil
	}

	n, err := strconv.ParseUint(p, 10, 8)
	if err != nil {
		return 0, ErrInvalidColor
	}
	return uint8(n), nil
}

func toHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
