package stylerange

import "fmt"

// Category is the value classification of a cell. It decides which
// range list of a style bucket a range goes to.
type Category int

// Declaration order is the order ranges are emitted by Finalize.
// CategoryCurrency is emitted last, grouped by currency symbol.
const (
	CategoryNumeric Category = iota
	CategoryText
	CategoryTime
	CategoryDateTime
	CategoryPercent
	CategoryLogical
	CategoryUndefined
	CategoryCurrency
)

// number of categories kept as plain range lists (everything but currency)
const plainCategories = int(CategoryCurrency)

var categoryNames = [...]string{
	CategoryNumeric:   "numeric",
	CategoryText:      "text",
	CategoryTime:      "time",
	CategoryDateTime:  "dateTime",
	CategoryPercent:   "percent",
	CategoryLogical:   "logical",
	CategoryUndefined: "undefined",
	CategoryCurrency:  "currency",
}

func (c Category) Valid() bool {
	return c >= CategoryNumeric && c <= CategoryCurrency
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory returns the category named name.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category: %s", name)
}
