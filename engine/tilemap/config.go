package tilemap

type UVMode int

const (
	// UVExact samples the raw pixel aligned tile box.
	UVExact UVMode = iota
	// UVEdgeCorrect insets every edge by half a texel so neighbouring atlas cells never bleed in.
	UVEdgeCorrect
)

func (m UVMode) String() string {
	switch m {
	case UVExact:
		return "exact"
	case UVEdgeCorrect:
		return "edge-correct"
	}
	return "unknown"
}

type Config struct {
	UVMode UVMode
	// ContentScaleFactor converts tile sizes in points into atlas pixels.
	ContentScaleFactor float32
	// OpacityModifiesRGB premultiplies the display color with the opacity (premultiplied alpha atlases).
	OpacityModifiesRGB bool
}

// DefaultConfig uses the UV mode selected at build time (tag fix_artifacts) and a scale of 1.
func DefaultConfig() Config {
	return Config{
		UVMode:             DefaultUVMode,
		ContentScaleFactor: 1,
	}
}

func (c Config) scale() float32 {
	if c.ContentScaleFactor <= 0 {
		return 1
	}
	return c.ContentScaleFactor
}
