package renderctx

import (
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

var namedColors = map[string]gg.RGBA{
	"black":       gg.RGB(0, 0, 0),
	"white":       gg.RGB(1, 1, 1),
	"red":         gg.RGB(1, 0, 0),
	"lime":        gg.RGB(0, 1, 0),
	"green":       gg.RGB(0, 128.0/255, 0),
	"blue":        gg.RGB(0, 0, 1),
	"yellow":      gg.RGB(1, 1, 0),
	"cyan":        gg.RGB(0, 1, 1),
	"aqua":        gg.RGB(0, 1, 1),
	"magenta":     gg.RGB(1, 0, 1),
	"fuchsia":     gg.RGB(1, 0, 1),
	"gray":        gg.RGB(128.0/255, 128.0/255, 128.0/255),
	"grey":        gg.RGB(128.0/255, 128.0/255, 128.0/255),
	"silver":      gg.RGB(192.0/255, 192.0/255, 192.0/255),
	"maroon":      gg.RGB(128.0/255, 0, 0),
	"olive":       gg.RGB(128.0/255, 128.0/255, 0),
	"navy":        gg.RGB(0, 0, 128.0/255),
	"purple":      gg.RGB(128.0/255, 0, 128.0/255),
	"teal":        gg.RGB(0, 128.0/255, 128.0/255),
	"orange":      gg.RGB(1, 165.0/255, 0),
	"transparent": gg.RGBA2(0, 0, 0, 0),
}

// ParseColor parses the CSS colour forms paint code commonly uses: hex
// (#rgb, #rgba, #rrggbb, #rrggbbaa), rgb()/rgba() and basic keywords.
func ParseColor(s string) (gg.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return gg.RGBA{}, false
	}
	if col, ok := namedColors[s]; ok {
		return col, true
	}
	if strings.HasPrefix(s, "#") {
		switch len(s) - 1 {
		case 3, 4, 6, 8:
		default:
			return gg.RGBA{}, false
		}
		if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
			return gg.RGBA{}, false
		}
		return gg.Hex(s), true
	}
	if args, ok := functionArgs(s, "rgba"); ok {
		return parseRGBArgs(args)
	}
	if args, ok := functionArgs(s, "rgb"); ok {
		return parseRGBArgs(args)
	}
	return gg.RGBA{}, false
}

func functionArgs(s, name string) ([]string, bool) {
	if !strings.HasPrefix(s, name+"(") || !strings.HasSuffix(s, ")") {
		return nil, false
	}
	inner := s[len(name)+1 : len(s)-1]
	inner = strings.ReplaceAll(inner, "/", " ")
	inner = strings.ReplaceAll(inner, ",", " ")
	return strings.Fields(inner), true
}

func parseRGBArgs(args []string) (gg.RGBA, bool) {
	if len(args) != 3 && len(args) != 4 {
		return gg.RGBA{}, false
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		v, ok := parseComponent(args[i], 255)
		if !ok {
			return gg.RGBA{}, false
		}
		ch[i] = v
	}
	a := 1.0
	if len(args) == 4 {
		v, ok := parseComponent(args[3], 1)
		if !ok {
			return gg.RGBA{}, false
		}
		a = v
	}
	return gg.RGBA2(ch[0], ch[1], ch[2], a), true
}

// parseComponent parses a number or percentage and normalises it to [0, 1]
// against scale.
func parseComponent(s string, scale float64) (float64, bool) {
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if pct {
		v /= 100
	} else {
		v /= scale
	}
	return min(max(v, 0), 1), true
}
