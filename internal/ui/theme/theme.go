// Package theme holds the static visual theme catalog. Themes are chosen
// in settings and persisted by id; the tables themselves never change at
// runtime.
package theme

import "image/color"

// Theme pairs a background gradient with the breathing circle gradient.
type Theme struct {
	ID         string
	Name       string
	Background [2]color.NRGBA
	Circle     [2]color.NRGBA
}

var catalog = []Theme{
	{
		ID:         "deep-ocean",
		Name:       "Deep Ocean",
		Background: [2]color.NRGBA{rgb(0x1a2332), rgb(0x2d3f5f)},
		Circle:     [2]color.NRGBA{rgb(0x4a90e2), rgb(0x7ab8ef)},
	},
	{
		ID:         "twilight",
		Name:       "Twilight",
		Background: [2]color.NRGBA{rgb(0x1f1535), rgb(0x3d2463)},
		Circle:     [2]color.NRGBA{rgb(0x8b5cf6), rgb(0xc4b5fd)},
	},
	{
		ID:         "warm-earth",
		Name:       "Warm Earth",
		Background: [2]color.NRGBA{rgb(0x2a1810), rgb(0x4a2818)},
		Circle:     [2]color.NRGBA{rgb(0xf59e0b), rgb(0xfcd34d)},
	},
	{
		ID:         "teal-mist",
		Name:       "Teal Mist",
		Background: [2]color.NRGBA{rgb(0x0f2e2a), rgb(0x1a4d45)},
		Circle:     [2]color.NRGBA{rgb(0x14b8a6), rgb(0x5eead4)},
	},
}

// Catalog returns every available theme in display order.
func Catalog() []Theme {
	themes := make([]Theme, len(catalog))
	copy(themes, catalog)
	return themes
}

// ByID returns the theme with the given id, falling back to the first
// theme for unknown ids.
func ByID(themeID string) Theme {
	for _, entry := range catalog {
		if entry.ID == themeID {
			return entry
		}
	}
	return catalog[0]
}

func rgb(value uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 255,
	}
}
