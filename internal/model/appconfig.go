package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new packing runs
	DefaultSize  string `toml:"default_size" json:"default_size"` // "automatic" or "WxH"
	DefaultOrder string `toml:"default_order" json:"default_order"`
	DefaultSeed  int64  `toml:"default_seed" json:"default_seed"`

	// Output preferences
	Palette        []string `toml:"palette" json:"palette"` // Fill colors indexed by block type
	ShowRegions    bool     `toml:"show_regions" json:"show_regions"`
	OutputFormats  []string `toml:"output_formats" json:"output_formats"`
	RecentProjects []string `toml:"recent_projects" json:"recent_projects"`
}

// DefaultPalette is the block fill palette, indexed by block type modulo its length.
var DefaultPalette = []string{"#E5E059", "#5AE681", "#925AE6"}

// DefaultAppConfig returns an AppConfig populated with defaults matching
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultSize:    defaults.Size.String(),
		DefaultOrder:   defaults.Order,
		DefaultSeed:    defaults.Seed,
		Palette:        append([]string(nil), DefaultPalette...),
		ShowRegions:    true,
		OutputFormats:  []string{"svg"},
		RecentProjects: []string{},
	}
}

// ApplyToSettings copies the configured defaults into s. An unparsable
// DefaultSize leaves s.Size untouched.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	if size, err := ParseContainerSize(c.DefaultSize); err == nil {
		s.Size = size
	}
	if c.DefaultOrder != "" {
		s.Order = c.DefaultOrder
	}
	s.Seed = c.DefaultSeed
}

// Color returns the palette color for a block type.
func (c AppConfig) Color(blockType int) string {
	return PaletteColor(c.Palette, blockType)
}

// PaletteColor picks palette[t mod len], falling back to DefaultPalette when
// palette is empty. Negative types wrap around from the end of the palette.
func PaletteColor(palette []string, t int) string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	n := len(palette)
	return palette[((t%n)+n)%n]
}
