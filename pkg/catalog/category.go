// Package catalog holds the fixed item category vocabulary shared by
// retrieval and parameter extraction.
package catalog

import "strings"

const (
	Electronics = "electronics"
	Apparel     = "apparel"
	Books       = "books"
	Home        = "home"
)

// Category pairs a category name with the keywords that identify it.
type Category struct {
	Name     string
	Keywords []string
}

// Categories is ordered by detection priority. The first match wins.
var Categories = []Category{
	{Name: Electronics, Keywords: []string{"phone", "laptop", "headphone", "headphones", "tablet", "computer", "electronics", "electronic"}},
	{Name: Apparel, Keywords: []string{"shirt", "jacket", "dress", "shoes", "clothes", "apparel", "clothing"}},
	{Name: Books, Keywords: []string{"book", "dvd", "cd", "media"}},
	{Name: Home, Keywords: []string{"blender", "kitchen", "appliance", "furniture", "home"}},
}

// Detect returns the first category whose keyword occurs anywhere in text
// (case-insensitive substring match) or "" when none does.
func Detect(text string) string {
	lower := strings.ToLower(text)
	for _, c := range Categories {
		if ContainsAny(lower, c.Keywords) {
			return c.Name
		}
	}
	return ""
}

// Names lists the category names in priority order.
func Names() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = c.Name
	}
	return names
}

// ContainsAny reports whether s contains any of the substrings.
func ContainsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
