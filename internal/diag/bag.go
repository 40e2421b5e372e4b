package diag

import (
	"cmp"
	"slices"

	"fortio.org/safecast"
)

// Bag collects diagnostics for one file up to a fixed limit.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag creates a bag holding at most maxItems entries (clamped to uint16).
func NewBag(maxItems int) *Bag {
	limit, err := safecast.Conv[uint16](maxItems)
	if err != nil {
		limit = ^uint16(0)
	}
	return &Bag{items: make([]Diagnostic, 0, min(int(limit), 64)), max: limit}
}

// Add stores d unless the bag is full and reports whether it did.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Extend raises the limit by n so entries that must not be lost, such as
// timing reports, still fit into a full bag.
func (b *Bag) Extend(n int) {
	limit, err := safecast.Conv[uint16](int(b.max) + n)
	if err != nil {
		limit = ^uint16(0)
	}
	b.max = limit
}

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

func (b *Bag) Len() int { return len(b.items) }

// Items возвращает внутренний срез, не копию: не изменять.
func (b *Bag) Items() []Diagnostic { return b.items }

// Sort orders by file and span, errors before warnings at the same span,
// then by code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
