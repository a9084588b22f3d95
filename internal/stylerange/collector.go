package stylerange

import "context"

// Assignment is one finalized range with its style attributes.
type Assignment struct {
	Range    Range    `json:"-" yaml:"-"`
	Ref      string   `json:"range" yaml:"range"`
	Style    string   `json:"style" yaml:"style"`
	Category Category `json:"category" yaml:"category"`
	Currency string   `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// Collector is a Sink keeping every assignment in emission order.
type Collector struct {
	Assignments []Assignment
}

func (c *Collector) AssignStyleToRange(ctx context.Context, r Range, style string, category Category, currency string) error {
	c.Assignments = append(c.Assignments, Assignment{
		Range:    r,
		Ref:      r.String(),
		Style:    style,
		Category: category,
		Currency: currency,
	})
	return nil
}

// Styles returns the distinct style names in emission order.
func (c *Collector) Styles() []string {
	seen := make(map[string]bool)
	var styles []string
	for _, a := range c.Assignments {
		if !seen[a.Style] {
			seen[a.Style] = true
			styles = append(styles, a.Style)
		}
	}
	return styles
}

// Tee forwards every assignment to all sinks, stopping at the first error.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, r Range, style string, category Category, currency string) error {
		for _, s := range sinks {
			if err := s.AssignStyleToRange(ctx, r, style, category, currency); err != nil {
				return err
			}
		}
		return nil
	})
}
