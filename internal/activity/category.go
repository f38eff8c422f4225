package activity

import "fmt"

// Category is a productivity label assigned to a session.
type Category string

const (
	CategoryProductive    Category = "productive"
	CategoryCommunication Category = "communication"
	CategoryEntertainment Category = "entertainment"
	CategorySocial        Category = "social"
	CategoryBrowsing      Category = "browsing"
	CategoryOther         Category = "other"
)

// AllCategories lists every valid category in display order.
var AllCategories = []Category{
	CategoryProductive,
	CategoryCommunication,
	CategoryEntertainment,
	CategorySocial,
	CategoryBrowsing,
	CategoryOther,
}

// Valid reports whether c is one of the closed set of labels.
func (c Category) Valid() bool {
	switch c {
	case CategoryProductive, CategoryCommunication, CategoryEntertainment,
		CategorySocial, CategoryBrowsing, CategoryOther:
		return true
	}
	return false
}

// IsProductive reports whether time in c counts as productive.
func (c Category) IsProductive() bool {
	return c == CategoryProductive
}

// ParseCategory converts a stored label back into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
