package core

// Category is an expense category. Only the values listed in the catalog are valid.
type Category string

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Shopping      Category = "Shopping"
	Bills         Category = "Bills"
	Entertainment Category = "Entertainment"
	Health        Category = "Health"
	Other         Category = "Other"
)

// DefaultCategory is preselected on a fresh expense draft.
const DefaultCategory = Other

var catalog = []Category{Food, Transport, Shopping, Bills, Entertainment, Health, Other}

var colors = map[Category]string{
	Food:          "#10B981",
	Transport:     "#3B82F6",
	Shopping:      "#8B5CF6",
	Bills:         "#F59E0B",
	Entertainment: "#EF4444",
	Health:        "#EC4899",
	Other:         "#64748B",
}

// Categories returns the catalog in display order. The slice is a copy.
func Categories() []Category {
	return append([]Category(nil), catalog...)
}

// CategoryNames returns the catalog labels as plain strings.
func CategoryNames() []string {
	names := make([]string, len(catalog))
	for i, c := range catalog {
		names[i] = string(c)
	}
	return names
}

// ParseCategory matches s exactly (case-sensitive) against the catalog.
func ParseCategory(s string) (Category, bool) {
	for _, c := range catalog {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c belongs to the catalog.
func (c Category) Valid() bool {
	return c.Index() >= 0
}

// Index returns the catalog position of c, or -1.
func (c Category) Index() int {
	for i, v := range catalog {
		if v == c {
			return i
		}
	}
	return -1
}

// Color is the chart color hint for c.
func (c Category) Color() string {
	return colors[c]
}

func (c Category) String() string {
	return string(c)
}
