package excel

import (
	"crypto/md5"
	"fmt"
	"html"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/wxyzh/excel-style-ranges/internal/stylerange"
)

// StyleRegistry names cell styles by content: styles rendering to the same
// YAML share one name.
type StyleRegistry struct {
	styles   map[string]*CellStyle // styleName -> CellStyle
	hashToID map[string]string     // styleHash -> styleName
	counter  int

	// NumberFormats keeps the number format id of every registered style.
	NumberFormats *stylerange.StyleNumberFormats
}

func NewStyleRegistry() *StyleRegistry {
	return &StyleRegistry{
		styles:        make(map[string]*CellStyle),
		hashToID:      make(map[string]string),
		NumberFormats: stylerange.NewStyleNumberFormats(),
	}
}

// RegisterStyle returns the name of cellStyle, registering it if needed.
// Empty styles are named stylerange.DefaultStyleName.
func (sr *StyleRegistry) RegisterStyle(cellStyle *CellStyle) string {
	if cellStyle.IsEmpty() {
		return sr.RegisterNamed(stylerange.DefaultStyleName, &CellStyle{})
	}

	styleHash := sr.calculateStyleHash(cellStyle)
	if existingID, exists := sr.hashToID[styleHash]; exists {
		return existingID
	}

	sr.counter++
	styleID := fmt.Sprintf("s%d", sr.counter)
	sr.add(styleID, cellStyle)
	sr.hashToID[styleHash] = styleID
	return styleID
}

// RegisterNamed registers a style under a name given by the backend, as
// OLE automation does with named cell styles.
func (sr *StyleRegistry) RegisterNamed(name string, cellStyle *CellStyle) string {
	if _, exists := sr.styles[name]; !exists {
		if cellStyle == nil {
			cellStyle = &CellStyle{}
		}
		sr.add(name, cellStyle)
	}
	return name
}

func (sr *StyleRegistry) add(name string, cellStyle *CellStyle) {
	sr.styles[name] = cellStyle
	sr.NumberFormats.Add(name, cellStyle.NumFmt)
}

// Style returns the style registered as name.
func (sr *StyleRegistry) Style(name string) (*CellStyle, bool) {
	style, ok := sr.styles[name]
	return style, ok
}
func (sr *StyleRegistry) calculateStyleHash(cellStyle *CellStyle) string {
	yamlBytes, err := yaml.MarshalWithOptions(cellStyle, yaml.Flow(true), yaml.OmitEmpty())
	if err != nil {
		return ""
	}

	hash := md5.Sum(yamlBytes)
	return fmt.Sprintf("%x", hash)[:8]
}

// GenerateStyleDefinitions renders the styles in names as YAML flow blocks.
func (sr *StyleRegistry) GenerateStyleDefinitions(names []string) string {
	if len(names) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString("<h2>Style Definitions</h2>\n")
	result.WriteString("<div class=\"style-definitions\">\n")
	for _, name := range names {
		cellStyle, ok := sr.styles[name]
		if !ok {
			continue
		}
		yamlStr := convertCellStyleToYAMLFlow(cellStyle)
		result.WriteString(fmt.Sprintf("<code class=\"style language-yaml\" id=\"%s\">%s</code>\n", html.EscapeString(name), html.EscapeString(yamlStr)))
	}
	result.WriteString("</div>\n\n")
	return result.String()
}

func convertCellStyleToYAMLFlow(cellStyle *CellStyle) string {
	if cellStyle.IsEmpty() {
		return "{}"
	}
	yamlBytes, err := yaml.MarshalWithOptions(cellStyle, yaml.Flow(true), yaml.OmitEmpty())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(string(yamlBytes), "\"", ""))
}
