package layout

// SpaceConfig computes whitespace widths. Justified lines spread extra
// pixels over their spaces: each of the first extra spaces is one pixel
// wider. Width only looks; Consume also uses up the extra pixels.
type SpaceConfig struct {
	width int
	extra int
}

// NewSpaceConfig returns a configuration with fixed space width.
func NewSpaceConfig(spaceWidth int) SpaceConfig { return SpaceConfig{width: spaceWidth} }

// NewJustifiedSpaceConfig returns a configuration that hands out extra
// pixels, one per space, on top of spaceWidth.
func NewJustifiedSpaceConfig(spaceWidth, extra int) SpaceConfig {
	if extra < 0 {
		extra = 0
	}
	return SpaceConfig{width: spaceWidth, extra: extra}
}

// SpaceWidth returns the width of a single space without extra pixels.
func (s SpaceConfig) SpaceWidth() int { return s.width }

// Width returns the width of n spaces.
func (s SpaceConfig) Width(n int) int {
	if n <= 0 {
		return 0
	}
	return n*s.width + min(n, s.extra)
}

// Consume returns the width of n spaces and uses up their extra pixels.
func (s *SpaceConfig) Consume(n int) int {
	w := s.Width(n)
	if n > 0 {
		s.extra -= min(n, s.extra)
	}
	return w
}

// Fit returns how many of n spaces fit into available pixels.
func (s SpaceConfig) Fit(n, available int) int {
	k := 0
	for k < n && s.Width(k+1) <= available {
		k++
	}
	return k
}
