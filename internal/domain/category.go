package domain

// Category groups transactions. Type is optional on categories coming from the
// remote store; when set, only transactions of the same type may reference it.
type Category struct {
	ID   string          `json:"id,omitempty"`
	Name string          `json:"name"`
	Type TransactionType `json:"type,omitempty"`
}

// Accepts reports whether a transaction of type t may reference the category
func (c Category) Accepts(t TransactionType) bool {
	return c.Type == "" || c.Type == t
}
