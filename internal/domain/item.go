package domain

// ItemDescriptor describes one convertible item. Values are immutable once
// the catalog has been loaded.
type ItemDescriptor struct {
	Key                string
	DisplayName        string
	Unit               string // e.g. "ounce", "barrel"
	SupportsHistorical bool
}

// Category groups items for display. Catalog order is the server order.
type Category struct {
	Name  string
	Items []ItemDescriptor
}
