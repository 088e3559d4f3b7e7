// Package catalog holds the fixed lists the UI offers: languages, editor
// categories, and the sidebar entries.
package catalog

import "strings"

const (
	// AllCategories is the sidebar entry that disables category filtering.
	AllCategories = "all"

	DefaultLanguage = "JavaScript"
	DefaultCategory = "JavaScript"
)

// Languages offered by the editor's language picker.
var Languages = []string{
	"JavaScript", "TypeScript", "Python", "Java", "C++", "C#", "PHP", "Ruby",
	"Go", "Rust", "Swift", "Kotlin", "HTML", "CSS", "SQL", "Shell", "Other",
}

// Categories offered by the editor's category picker.
var Categories = []string{
	"JavaScript", "React", "Vue", "Angular", "Node.js", "Python", "Java",
	"CSS", "HTML", "SQL", "DevOps", "Algorithms", "Utils", "Other",
}

// SidebarCategory is one entry of the dashboard sidebar.
//
// Count is a display value only. It is not derived from the collection.
type SidebarCategory struct {
	ID    string
	Name  string
	Icon  string
	Count int
}

// SidebarCategories is the static sidebar list.
var SidebarCategories = []SidebarCategory{
	{ID: AllCategories, Name: "All Snippets", Icon: "code", Count: 42},
	{ID: "JavaScript", Name: "JavaScript", Icon: "globe", Count: 15},
	{ID: "React", Name: "React", Icon: "smartphone", Count: 12},
	{ID: "CSS", Name: "CSS", Icon: "palette", Count: 8},
	{ID: "Node.js", Name: "Node.js", Icon: "server", Count: 5},
	{ID: "SQL", Name: "SQL", Icon: "database", Count: 2},
}

var languageColors = map[string]string{
	"javascript": "yellow",
	"typescript": "blue",
	"python":     "green",
	"css":        "pink",
	"html":       "orange",
	"react":      "cyan",
	"node":       "green-dark",
	"sql":        "purple",
}

// LanguageColor returns the badge colour for a language, matched
// case-insensitively. Unknown languages are gray.
func LanguageColor(language string) string {
	if c, ok := languageColors[strings.ToLower(language)]; ok {
		return c
	}
	return "gray"
}

// IsSidebarCategory reports whether id is one of the sidebar entries.
func IsSidebarCategory(id string) bool {
	for _, c := range SidebarCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}
