package stylerange

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultStyleName is the style used for cells that neither carry a style
// nor have a column default.
const DefaultStyleName = "Default"

// Sink receives the finalized ranges.
type Sink interface {
	AssignStyleToRange(ctx context.Context, r Range, style string, category Category, currency string) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, r Range, style string, category Category, currency string) error

func (f SinkFunc) AssignStyleToRange(ctx context.Context, r Range, style string, category Category, currency string) error {
	return f(ctx, r, style, category, currency)
}

type attributes struct {
	style    Handle
	category Category
	currency string
}

// Stats summarizes the work done by a Coalescer.
type Stats struct {
	Cells       int `json:"cells" yaml:"cells"`
	Ranges      int `json:"ranges" yaml:"ranges"`
	Diagnostics int `json:"diagnostics" yaml:"diagnostics"`
}

// Coalescer merges a row-major stream of cell style assignments into
// rectangular ranges per (style, category, currency).
//
// A Coalescer is not safe for concurrent use.
type Coalescer struct {
	logger zerolog.Logger

	styles  *StyleTable
	buckets []bucket // indexed by Handle

	columnDefaults []Handle
	rowDefault     Handle

	pending      Range
	pendingAttrs attributes
	hasPending   bool

	stats Stats
}

// NewCoalescer returns an empty coalescer logging diagnostics to logger.
func NewCoalescer(logger zerolog.Logger) *Coalescer {
	return &Coalescer{
		logger:     logger,
		styles:     NewStyleTable(),
		rowDefault: NoHandle,
	}
}

// Stats returns the counters accumulated since the coalescer was created.
func (c *Coalescer) Stats() Stats {
	return c.stats
}

func (c *Coalescer) intern(name string) Handle {
	h := c.styles.Intern(name)
	for len(c.buckets) <= int(h) {
		c.buckets = append(c.buckets, bucket{})
	}
	return h
}

func (c *Coalescer) diagnose(r Range, msg string) {
	c.stats.Diagnostics++
	c.logger.Warn().
		Int("sheet", r.Sheet).
		Str("range", r.String()).
		Msg(msg)
}

// AddColumnStyle declares the default style of columns
// [column, column+repeat). Columns are expected in order.
func (c *Coalescer) AddColumnStyle(name string, column, repeat int) {
	if column != len(c.columnDefaults) {
		c.diagnose(Range{StartCol: column, EndCol: column}, fmt.Sprintf("column default declared out of order (have %d columns)", len(c.columnDefaults)))
	}
	h := c.intern(name)
	c.columnDefaults = slices.Grow(c.columnDefaults, repeat)
	for i := 0; i < repeat; i++ {
		c.columnDefaults = append(c.columnDefaults, h)
	}
}

// ColumnDefault returns the style handle of column, or NoHandle.
func (c *Coalescer) ColumnDefault(column int) Handle {
	if column < 0 || column >= len(c.columnDefaults) {
		return NoHandle
	}
	return c.columnDefaults[column]
}

// SetRowStyle sets the default style of the rows submitted next.
// An empty name clears the row default.
func (c *Coalescer) SetRowStyle(name string) {
	if name == "" {
		c.rowDefault = NoHandle
		return
	}
	c.rowDefault = c.intern(name)
}

// Submit adds a styled range. Ranges must arrive in row-major order.
// An empty style is resolved through the row and column defaults.
func (c *Coalescer) Submit(r Range, style string, category Category, currency string) {
	if style == "" {
		c.SubmitDefault(r, category, currency)
		return
	}
	if !category.Valid() {
		c.diagnose(r, fmt.Sprintf("unknown category %d, using undefined", int(category)))
		category = CategoryUndefined
	}
	if category != CategoryCurrency {
		currency = ""
	}
	c.submit(r, attributes{style: c.intern(style), category: category, currency: currency})
}

// SubmitCell is Submit for a single cell.
func (c *Coalescer) SubmitCell(sheet, row, col int, style string, category Category, currency string) {
	c.Submit(CellRange(sheet, row, col), style, category, currency)
}

// SubmitDefault adds a range whose cells carry no explicit style. The row
// default wins when set, otherwise the range is split wherever the column
// default changes.
func (c *Coalescer) SubmitDefault(r Range, category Category, currency string) {
	if c.rowDefault != NoHandle && c.styles.Name(c.rowDefault) != "" {
		c.Submit(r, c.styles.Name(c.rowDefault), category, currency)
		return
	}
	if r.EndCol >= len(c.columnDefaults) {
		c.diagnose(r, fmt.Sprintf("range exceeds %d declared column defaults", len(c.columnDefaults)))
	}
	start := r.StartCol
	prev := c.columnStyle(start)
	for col := start + 1; col <= r.EndCol; col++ {
		next := c.columnStyle(col)
		if next == prev {
			continue
		}
		sub := r
		sub.StartCol = start
		sub.EndCol = col - 1
		c.Submit(sub, c.styles.Name(prev), category, currency)
		start = col
		prev = next
	}
	sub := r
	sub.StartCol = start
	c.Submit(sub, c.styles.Name(prev), category, currency)
}

func (c *Coalescer) columnStyle(col int) Handle {
	if h := c.ColumnDefault(col); h != NoHandle && c.styles.Name(h) != "" {
		return h
	}
	return c.intern(DefaultStyleName)
}

func (c *Coalescer) submit(r Range, attrs attributes) {
	c.stats.Cells += r.Cells()
	if !c.hasPending {
		c.start(r, attrs)
		return
	}
	if attrs != c.pendingAttrs || r.Sheet != c.pending.Sheet {
		c.flush()
		c.start(r, attrs)
		return
	}
	p := &c.pending
	switch {
	case r.StartRow == p.StartRow && r.EndRow == p.EndRow:
		if r.StartCol != p.EndCol+1 {
			c.diagnose(r, fmt.Sprintf("range does not continue pending range %s along the row", p))
			break
		}
		p.EndCol = r.EndCol
		return
	case r.StartCol == p.StartCol && r.EndCol == p.EndCol:
		if r.StartRow != p.EndRow+1 {
			c.diagnose(r, fmt.Sprintf("range does not continue pending range %s along the column", p))
			break
		}
		p.EndRow = r.EndRow
		return
	}
	c.flush()
	c.start(r, attrs)
}

func (c *Coalescer) start(r Range, attrs attributes) {
	c.pending = r
	c.pendingAttrs = attrs
	c.hasPending = true
}

func (c *Coalescer) flush() {
	if !c.hasPending {
		return
	}
	c.buckets[c.pendingAttrs.style].add(c.pending, c.pendingAttrs.category, c.pendingAttrs.currency)
	c.stats.Ranges++
	c.hasPending = false
}

// EndTable closes the pending range.
func (c *Coalescer) EndTable() {
	c.flush()
}

// InsertCol shifts the collected ranges of sheet for a column inserted at
// col. The pending range is closed first.
func (c *Coalescer) InsertCol(col, sheet int) {
	c.flush()
	for i := range c.buckets {
		c.buckets[i].insertCol(col, sheet)
	}
}

// Finalize closes the pending range and hands every collected range to
// sink, styles in name order. Buckets, column defaults and the row default
// are cleared afterwards, also when sink fails.
func (c *Coalescer) Finalize(ctx context.Context, sink Sink) error {
	c.flush()
	defer c.reset()

	order := make([]Handle, 0, len(c.buckets))
	for h := range c.buckets {
		if c.buckets[h].len() > 0 {
			order = append(order, Handle(h))
		}
	}
	slices.SortFunc(order, func(a, b Handle) int {
		return strings.Compare(c.styles.Name(a), c.styles.Name(b))
	})
	for _, h := range order {
		name := c.styles.Name(h)
		if err := c.buckets[h].emit(ctx, name, sink); err != nil {
			return fmt.Errorf("failed to assign style %s: %w", name, err)
		}
	}
	c.logger.Debug().
		Int("styles", len(order)).
		Int("ranges", c.stats.Ranges).
		Int("cells", c.stats.Cells).
		Msg("style ranges finalized")
	return nil
}

func (c *Coalescer) reset() {
	c.buckets = make([]bucket, c.styles.Len())
	c.columnDefaults = nil
	c.rowDefault = NoHandle
}
