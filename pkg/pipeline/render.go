package pipeline

import (
	"github.com/matzehuels/timeruler/pkg/errors"
	"github.com/matzehuels/timeruler/pkg/ruler/layout"
	"github.com/matzehuels/timeruler/pkg/ruler/sink"
)

// Render produces every requested format from a computed layout.
func Render(l layout.Layout, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(l, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat produces a single output format.
func RenderFormat(l layout.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, svgOptions(opts)...), nil
	case FormatJSON:
		return sink.RenderJSON(l)
	case FormatText:
		width := opts.TextWidth
		if width == 0 {
			width = DefaultTextWidth
		}
		return sink.RenderText(l, width), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
}

func svgOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.IndexLabels {
		out = append(out, sink.WithIndexLabels())
	}
	if opts.Tooltips {
		out = append(out, sink.WithTooltips())
	}
	return out
}
