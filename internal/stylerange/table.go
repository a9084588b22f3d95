package stylerange

// Handle identifies a style name interned in a StyleTable.
type Handle int

// NoHandle marks an unset style reference.
const NoHandle Handle = -1

// StyleTable interns style names. It is append-only: a handle stays valid
// for the lifetime of the table.
type StyleTable struct {
	names   []string
	handles map[string]Handle
}

func NewStyleTable() *StyleTable {
	return &StyleTable{
		handles: make(map[string]Handle),
	}
}

// Intern returns the handle of name, appending it if needed.
func (t *StyleTable) Intern(name string) Handle {
	if h, ok := t.handles[name]; ok {
		return h
	}
	h := Handle(len(t.names))
	t.names = append(t.names, name)
	t.handles[name] = h
	return h
}

// Name returns the style name of h, or "" for an unknown handle.
func (t *StyleTable) Name(h Handle) string {
	if h < 0 || int(h) >= len(t.names) {
		return ""
	}
	return t.names[h]
}

func (t *StyleTable) Len() int {
	return len(t.names)
}
