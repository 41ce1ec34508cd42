package loaders

import (
	"fmt"
	"os"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// FontInfo describes a font file that is safe to hand to the renderer.
type FontInfo struct {
	Path   string
	Family string
	Glyphs int
}

// InspectFont parses a TrueType/OpenType file so a broken overlay font is
// reported before the window opens.
func InspectFont(path string) (*FontInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}

	var buf sfnt.Buffer
	family, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		family = ""
	}
	return &FontInfo{
		Path:   path,
		Family: family,
		Glyphs: f.NumGlyphs(),
	}, nil
}
