package render

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/config"
)

var (
	builtinMu    sync.Mutex
	builtinCache = map[string]*Font{}
)

func builtinFonter(name string) (tinyfont.Fonter, error) {
	switch name {
	case config.FontProggy:
		return &proggy.TinySZ8pt7b, nil
	case config.FontOrg01:
		return &tinyfont.Org01, nil
	case config.FontTomThumb:
		return &tinyfont.TomThumb, nil
	case config.FontPicopixel:
		return &tinyfont.Picopixel, nil
	default:
		return nil, fmt.Errorf("unknown builtin font %q", name)
	}
}

// BuiltinFont returns a packaged bitmap font by name, capturing its glyph
// table on first use.
func BuiltinFont(name string) (*Font, error) {
	builtinMu.Lock()
	defer builtinMu.Unlock()
	if f, ok := builtinCache[name]; ok {
		return f, nil
	}
	fonter, err := builtinFonter(name)
	if err != nil {
		return nil, err
	}
	f := NewBitmap(NewBitmapFromFonter(fonter))
	builtinCache[name] = f
	return f, nil
}

// DefaultFont is the last-resort face used when every configured font
// fails to load and by the glyph renderer's failure fallback.
func DefaultFont() *Font {
	return NewVector(basicfont.Face7x13)
}

func loadTTF(path string, size float64) (*Font, error) {
	if size <= 0 {
		size = 8
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build face %s: %w", path, err)
	}
	return NewVector(face), nil
}

// ResolveFont walks the configured font's fallback chain and returns the
// first face that loads: TTF path, then builtin bitmap font, then the
// default face. It never fails; a broken config costs fidelity, not frames.
func ResolveFont(cfg config.FontConfig, log *slog.Logger) *Font {
	if log == nil {
		log = slog.Default()
	}

	if cfg.Path != "" {
		f, err := loadTTF(cfg.Path, cfg.Size)
		if err == nil {
			return f
		}
		log.Warn("ttf font unavailable, falling back",
			slog.String("path", cfg.Path),
			slog.String("error", err.Error()))
	}

	if cfg.Builtin != "" {
		f, err := BuiltinFont(cfg.Builtin)
		if err == nil {
			return f
		}
		log.Warn("builtin font unavailable, falling back",
			slog.String("name", cfg.Builtin),
			slog.String("error", err.Error()))
	}

	return DefaultFont()
}
