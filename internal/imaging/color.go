package imaging

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/faces-detector/internal/detection"
)

// ParseColor parses a hex color ("#RRGGBB" or "#RGB", "#" optional) into an
// opaque RGBA color.
func ParseColor(hex string) (color.RGBA, error) {
	if hex == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #RGB or #RRGGBB", hex)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}

	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// FormatColor returns c as "#rrggbb". Alpha is dropped.
func FormatColor(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// ParseColorConfig turns a region-kind to hex-color mapping, as found in
// configuration files and tool arguments, into a detection.ColorConfig.
//
// Keys must be "faces", "eyes" or "smiles". Empty values are skipped so the
// detector default applies.
func ParseColorConfig(hexColors map[string]string) (detection.ColorConfig, error) {
	colors := make(detection.ColorConfig, len(hexColors))
	for name, hex := range hexColors {
		if hex == "" {
			continue
		}
		kind, err := detection.ParseRegionKind(name)
		if err != nil {
			return nil, err
		}
		c, err := ParseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("color for %s: %w", kind, err)
		}
		colors[kind] = c
	}
	return colors, nil
}

// FormatColorConfig is the inverse of ParseColorConfig, with defaults filled in.
func FormatColorConfig(colors detection.ColorConfig) map[string]string {
	out := make(map[string]string, len(detection.Kinds))
	for _, kind := range detection.Kinds {
		out[string(kind)] = FormatColor(colors.For(kind))
	}
	return out
}
