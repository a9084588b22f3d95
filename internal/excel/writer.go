package excel

import (
	"context"
	"fmt"

	"github.com/wxyzh/excel-style-ranges/internal/stylerange"
)

// StyleWriter applies finalized style ranges to a worksheet.
type StyleWriter struct {
	registry *StyleRegistry
	dst      Worksheet
	written  int
}

func NewStyleWriter(registry *StyleRegistry, dst Worksheet) *StyleWriter {
	return &StyleWriter{registry: registry, dst: dst}
}

// AssignStyleToRange writes the style named style to r. The sheet of r is
// ignored; every range lands on the destination worksheet.
func (w *StyleWriter) AssignStyleToRange(ctx context.Context, r stylerange.Range, style string, _ stylerange.Category, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cellStyle, ok := w.registry.Style(style)
	if !ok {
		return fmt.Errorf("style not registered: %s", style)
	}
	ref, err := r.A1()
	if err != nil {
		return err
	}
	if err := w.dst.SetRangeStyle(ref, style, cellStyle); err != nil {
		return err
	}
	w.written++
	return nil
}

// Written returns the number of ranges applied so far.
func (w *StyleWriter) Written() int {
	return w.written
}
