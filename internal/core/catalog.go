package core

// Category is read-only reference data used to validate and display
// transactions and budgets.
type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Icon  string          `json:"icon"`
	Color string          `json:"color"`
	Type  TransactionType `json:"type"`
}

type Catalog []Category

// DefaultCategories is the built-in catalog.
var DefaultCategories = Catalog{
	{ID: "1", Name: "Food & Dining", Icon: "🍽️", Color: "#FF6B6B", Type: Expense},
	{ID: "2", Name: "Transportation", Icon: "🚗", Color: "#4ECDC4", Type: Expense},
	{ID: "3", Name: "Shopping", Icon: "🛍️", Color: "#45B7D1", Type: Expense},
	{ID: "4", Name: "Entertainment", Icon: "🎬", Color: "#96CEB4", Type: Expense},
	{ID: "5", Name: "Bills & Utilities", Icon: "💡", Color: "#FFEAA7", Type: Expense},
	{ID: "6", Name: "Healthcare", Icon: "🏥", Color: "#DDA0DD", Type: Expense},
	{ID: "7", Name: "Education", Icon: "📚", Color: "#98D8C8", Type: Expense},
	{ID: "8", Name: "Other", Icon: "📦", Color: "#A8A8A8", Type: Expense},

	{ID: "9", Name: "Salary", Icon: "💰", Color: "#00B894", Type: Income},
	{ID: "10", Name: "Freelance", Icon: "💻", Color: "#00A085", Type: Income},
	{ID: "11", Name: "Investment", Icon: "📈", Color: "#00B894", Type: Income},
	{ID: "12", Name: "Gift", Icon: "🎁", Color: "#55A3FF", Type: Income},
	{ID: "13", Name: "Other Income", Icon: "💎", Color: "#6C5CE7", Type: Income},
}

// Lookup finds a category by its display name.
func (c Catalog) Lookup(name string) (Category, bool) {
	for _, cat := range c {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// OfType returns the categories usable for the given transaction type, in catalog order.
func (c Catalog) OfType(t TransactionType) []Category {
	out := make([]Category, 0, len(c))
	for _, cat := range c {
		if cat.Type == t {
			out = append(out, cat)
		}
	}
	return out
}

func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, cat := range c {
		names[i] = cat.Name
	}
	return names
}
