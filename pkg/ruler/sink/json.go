package sink

import (
	"encoding/json"

	"github.com/matzehuels/timeruler/pkg/ruler/layout"
)

// RenderJSON exports the layout as indented JSON.
func RenderJSON(l layout.Layout) ([]byte, error) {
	if l.Bars == nil {
		l.Bars = []layout.Bar{}
	}
	if l.Years == nil {
		l.Years = []layout.YearMarker{}
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ParseJSON reads a layout produced by [RenderJSON].
func ParseJSON(data []byte) (layout.Layout, error) {
	var l layout.Layout
	err := json.Unmarshal(data, &l)
	return l, err
}
