package dashboard

import (
	"strings"

	"github.com/sakif/codevault/internal/catalog"
	"github.com/sakif/codevault/internal/model"
)

// Criteria is the dashboard's active filter.
type Criteria struct {
	Category string // catalog.AllCategories or "" matches every category
	Query    string // empty matches everything
}

// Matches reports whether s passes both the category and the search filter.
//
// The search is a case-insensitive substring match against the title, the
// description, and each tag. Code is not searched.
func (c Criteria) Matches(s model.Snippet) bool {
	return c.matchesCategory(s) && c.matchesQuery(s)
}

func (c Criteria) matchesCategory(s model.Snippet) bool {
	return c.Category == "" || c.Category == catalog.AllCategories || c.Category == s.Category
}

func (c Criteria) matchesQuery(s model.Snippet) bool {
	if c.Query == "" {
		return true
	}
	q := strings.ToLower(c.Query)
	if strings.Contains(strings.ToLower(s.Title), q) ||
		strings.Contains(strings.ToLower(s.Description), q) {
		return true
	}
	for _, tag := range s.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Filter returns the snippets that pass c, in their original order.
// It never returns nil.
func Filter(snippets []model.Snippet, c Criteria) []model.Snippet {
	out := make([]model.Snippet, 0, len(snippets))
	for _, s := range snippets {
		if c.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}
