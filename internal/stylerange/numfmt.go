package stylerange

// StyleNumberFormats maps style names to the number format key they carry.
type StyleNumberFormats struct {
	formats map[string]int
}

func NewStyleNumberFormats() *StyleNumberFormats {
	return &StyleNumberFormats{formats: make(map[string]int)}
}

// Add records the number format of style. The first registration wins.
func (s *StyleNumberFormats) Add(style string, numberFormat int) {
	if _, exists := s.formats[style]; exists {
		return
	}
	s.formats[style] = numberFormat
}

// Get returns the number format of style, or -1 when none was recorded.
func (s *StyleNumberFormats) Get(style string) int {
	if f, ok := s.formats[style]; ok {
		return f
	}
	return -1
}
