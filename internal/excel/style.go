package excel

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellStyle is the part of an xf record that decides whether two cells
// look the same. Field order is the YAML rendering order.
type CellStyle struct {
	Font      *FontStyle      `yaml:"font,omitempty"`
	Fill      *FillStyle      `yaml:"fill,omitempty"`
	Border    []Border        `yaml:"border,omitempty"`
	Alignment *AlignmentStyle `yaml:"alignment,omitempty"`
	NumFmt    int             `yaml:"numFmt,omitempty"`
	CustomFmt string          `yaml:"customNumFmt,omitempty"`
}

type FontStyle struct {
	Family    string  `yaml:"family,omitempty"`
	Size      float64 `yaml:"size,omitempty"`
	Bold      bool    `yaml:"bold,omitempty"`
	Italic    bool    `yaml:"italic,omitempty"`
	Strike    bool    `yaml:"strike,omitempty"`
	Underline string  `yaml:"underline,omitempty"`
	Color     string  `yaml:"color,omitempty"`
}

type FillStyle struct {
	Type    string   `yaml:"type,omitempty"`
	Pattern int      `yaml:"pattern,omitempty"`
	Color   []string `yaml:"color,omitempty"`
}

type Border struct {
	Type  string `yaml:"type"`
	Style int    `yaml:"style,omitempty"`
	Color string `yaml:"color,omitempty"`
}

type AlignmentStyle struct {
	Horizontal string `yaml:"horizontal,omitempty"`
	Vertical   string `yaml:"vertical,omitempty"`
	WrapText   bool   `yaml:"wrapText,omitempty"`
	Indent     int    `yaml:"indent,omitempty"`
}

// IsEmpty reports whether the style carries nothing beyond the workbook default.
func (s *CellStyle) IsEmpty() bool {
	if s == nil {
		return true
	}
	return s.Font == nil && s.Fill == nil && len(s.Border) == 0 &&
		s.Alignment == nil && s.NumFmt == 0 && s.CustomFmt == ""
}

func normalizeColor(color string) string {
	if color == "" {
		return ""
	}
	return "#" + strings.ToUpper(strings.TrimPrefix(color, "#"))
}

func convertExcelizeStyleToCellStyle(style *excelize.Style) *CellStyle {
	result := &CellStyle{NumFmt: style.NumFmt}
	if style.CustomNumFmt != nil {
		result.CustomFmt = *style.CustomNumFmt
	}

	if f := style.Font; f != nil {
		font := FontStyle{
			Family:    f.Family,
			Size:      f.Size,
			Bold:      f.Bold,
			Italic:    f.Italic,
			Strike:    f.Strike,
			Underline: f.Underline,
			Color:     normalizeColor(f.Color),
		}
		if font != (FontStyle{}) {
			result.Font = &font
		}
	}

	if style.Fill.Type != "" || style.Fill.Pattern != 0 || len(style.Fill.Color) > 0 {
		fill := &FillStyle{Type: style.Fill.Type, Pattern: style.Fill.Pattern}
		for _, color := range style.Fill.Color {
			if color != "" {
				fill.Color = append(fill.Color, normalizeColor(color))
			}
		}
		result.Fill = fill
	}

	for _, b := range style.Border {
		result.Border = append(result.Border, Border{
			Type:  b.Type,
			Style: b.Style,
			Color: normalizeColor(b.Color),
		})
	}

	if a := style.Alignment; a != nil {
		alignment := AlignmentStyle{
			Horizontal: a.Horizontal,
			Vertical:   a.Vertical,
			WrapText:   a.WrapText,
			Indent:     a.Indent,
		}
		if alignment != (AlignmentStyle{}) {
			result.Alignment = &alignment
		}
	}
	return result
}

func convertCellStyleToExcelizeStyle(style *CellStyle) *excelize.Style {
	result := &excelize.Style{NumFmt: style.NumFmt}
	if style.CustomFmt != "" {
		customFmt := style.CustomFmt
		result.CustomNumFmt = &customFmt
	}
	if f := style.Font; f != nil {
		result.Font = &excelize.Font{
			Family:    f.Family,
			Size:      f.Size,
			Bold:      f.Bold,
			Italic:    f.Italic,
			Strike:    f.Strike,
			Underline: f.Underline,
			Color:     strings.TrimPrefix(f.Color, "#"),
		}
	}
	if f := style.Fill; f != nil {
		fill := excelize.Fill{Type: f.Type, Pattern: f.Pattern}
		for _, color := range f.Color {
			fill.Color = append(fill.Color, strings.TrimPrefix(color, "#"))
		}
		result.Fill = fill
	}
	for _, b := range style.Border {
		result.Border = append(result.Border, excelize.Border{
			Type:  b.Type,
			Style: b.Style,
			Color: strings.TrimPrefix(b.Color, "#"),
		})
	}
	if a := style.Alignment; a != nil {
		result.Alignment = &excelize.Alignment{
			Horizontal: a.Horizontal,
			Vertical:   a.Vertical,
			WrapText:   a.WrapText,
			Indent:     a.Indent,
		}
	}
	return result
}
