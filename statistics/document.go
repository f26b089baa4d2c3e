// Package statistics maintains the cumulative counter document tracking
// per-book and per-person borrow/return/lateness totals. The document is
// a second, independently persisted ledger: counters are maintained
// incrementally via full read-modify-write cycles against an injected
// store, not derived by replay from the inventory. A missed update leaves
// the document stale relative to the inventory; that asymmetric durability
// is an accepted trade-off and should be documented to operators.
package statistics

// BookCounters accumulates circulation totals for one catalog title.
// Title, author, category and quantity mirror the Book at the time of the
// last recorded event; only the counters carry history.
type BookCounters struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
	Borrowed int    `json:"borrowed"`
	Returned int    `json:"returned"`
	Late     int    `json:"late"`
}

// StudentCounters accumulates circulation totals for one person. Name and
// Surname keep the display casing of the input that created the entry;
// the map key is the folded canonical form.
type StudentCounters struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Borrowed int    `json:"borrowed"`
	Returned int    `json:"returned"`
	Late     int    `json:"late"`
}

// Document is the whole statistics ledger as persisted: book counters
// keyed by the Book's stable identifier and person counters keyed by the
// normalized "first last" name key.
type Document struct {
	Books    map[string]BookCounters    `json:"books"`
	Students map[string]StudentCounters `json:"students"`
}

// NewDocument returns an empty Document with initialized maps.
func NewDocument() Document {
	return Document{
		Books:    make(map[string]BookCounters),
		Students: make(map[string]StudentCounters),
	}
}

// Clone returns a deep copy of the document. Stores hand out clones so a
// caller's read-modify-write cycle never aliases persisted state.
func (d Document) Clone() Document {
	clone := Document{
		Books:    make(map[string]BookCounters, len(d.Books)),
		Students: make(map[string]StudentCounters, len(d.Students)),
	}

	for key, counters := range d.Books {
		clone.Books[key] = counters
	}

	for key, counters := range d.Students {
		clone.Students[key] = counters
	}

	return clone
}
