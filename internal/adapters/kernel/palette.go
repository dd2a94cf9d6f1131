package kernel

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Palette maps byte values to tile colours.
type Palette [256]Color

const (
	paletteMin  = 16
	paletteMax  = 240
	paletteStep = 37

	// Tolerance is the per-channel distance still accepted as a match.
	// It stays below half the level spacing so matches are unambiguous.
	Tolerance = 18
)

// DefaultPalette returns the encoder's palette: every combination of the
// levels 16, 53, ..., 238 in R-major order, the first 255 of them, with
// value 255 pinned to near-white (240,240,240).
func DefaultPalette() Palette {
	var levels []uint8
	for v := paletteMin; v < paletteMax; v += paletteStep {
		levels = append(levels, uint8(v))
	}

	var p Palette
	i := 0
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				if i == 255 {
					p[255] = Color{paletteMax, paletteMax, paletteMax}
					return p
				}
				p[i] = Color{r, g, b}
				i++
			}
		}
	}
	p[255] = Color{paletteMax, paletteMax, paletteMax}
	return p
}

// Lookup returns the value whose colour is within Tolerance of c on every
// channel. Samples that are dark on all channels decode as 0.
func (p *Palette) Lookup(c Color) (uint8, bool) {
	if c.R <= Tolerance && c.G <= Tolerance && c.B <= Tolerance {
		return 0, true
	}
	for i := range p {
		if near(p[i], c) {
			return uint8(i), true
		}
	}
	return 0, false
}

func near(a, b Color) bool {
	return absDiff(a.R, b.R) <= Tolerance &&
		absDiff(a.G, b.G) <= Tolerance &&
		absDiff(a.B, b.B) <= Tolerance
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
