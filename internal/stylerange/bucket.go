package stylerange

import (
	"context"
	"slices"
)

// bucket holds the finalized ranges of one style, split by category.
// Currency ranges are further keyed by currency symbol.
type bucket struct {
	lists    [plainCategories]RangeList
	currency map[string]*RangeList
}

func (b *bucket) add(r Range, category Category, currency string) {
	if category != CategoryCurrency {
		b.lists[category].Add(r)
		return
	}
	if b.currency == nil {
		b.currency = make(map[string]*RangeList)
	}
	list, ok := b.currency[currency]
	if !ok {
		list = &RangeList{}
		b.currency[currency] = list
	}
	list.Add(r)
}

func (b *bucket) insertCol(col, sheet int) {
	for i := range b.lists {
		b.lists[i].InsertCol(col, sheet)
	}
	for _, list := range b.currency {
		list.InsertCol(col, sheet)
	}
}

func (b *bucket) len() int {
	n := 0
	for i := range b.lists {
		n += b.lists[i].Len()
	}
	for _, list := range b.currency {
		n += list.Len()
	}
	return n
}

// emit hands every range to sink: plain categories in declaration order,
// then currency lists by ascending symbol.
func (b *bucket) emit(ctx context.Context, style string, sink Sink) error {
	for i := range b.lists {
		for _, r := range b.lists[i].Ranges() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := sink.AssignStyleToRange(ctx, r, style, Category(i), ""); err != nil {
				return err
			}
		}
	}
	symbols := make([]string, 0, len(b.currency))
	for symbol := range b.currency {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)
	for _, symbol := range symbols {
		for _, r := range b.currency[symbol].Ranges() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := sink.AssignStyleToRange(ctx, r, style, CategoryCurrency, symbol); err != nil {
				return err
			}
		}
	}
	return nil
}
