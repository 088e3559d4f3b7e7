// Package editor models the snippet editor panel: which of its three faces
// is showing, and the form behind the create/edit face.
package editor

import (
	"strings"

	"github.com/sakif/codevault/internal/catalog"
	"github.com/sakif/codevault/internal/model"
)

// Mode is what the editor panel shows.
type Mode int

const (
	// ModeEmpty: nothing selected and not editing.
	ModeEmpty Mode = iota
	// ModeDetail: a snippet is selected, read-only.
	ModeDetail
	// ModeForm: creating or editing.
	ModeForm
)

func (m Mode) String() string {
	switch m {
	case ModeDetail:
		return "detail"
	case ModeForm:
		return "form"
	default:
		return "empty"
	}
}

// ModeFor derives the mode from the dashboard's selection and editing flag.
func ModeFor(selected *model.Snippet, editing bool) Mode {
	switch {
	case editing:
		return ModeForm
	case selected != nil:
		return ModeDetail
	default:
		return ModeEmpty
	}
}

// Heading is the title of the form face.
func Heading(selected *model.Snippet) string {
	if selected != nil {
		return "Edit Snippet"
	}
	return "New Snippet"
}

// Form is the editor's form. Tags is the raw comma-separated text the user
// types; it becomes a slice only on save.
type Form struct {
	Title       string
	Description string
	Code        string
	Language    string
	Category    string
	Tags        string
}

// BlankForm is the form for a new snippet.
func BlankForm() Form {
	return Form{
		Language: catalog.DefaultLanguage,
		Category: catalog.DefaultCategory,
	}
}

// FormFor initialises the form from an existing snippet.
func FormFor(s model.Snippet) Form {
	return Form{
		Title:       s.Title,
		Description: s.Description,
		Code:        s.Code,
		Language:    s.Language,
		Category:    s.Category,
		Tags:        strings.Join(s.Tags, ", "),
	}
}

// FormForMode returns the form to show when entering form mode with the
// given selection (nil for a new snippet).
func FormForMode(selected *model.Snippet) Form {
	if selected != nil {
		return FormFor(*selected)
	}
	return BlankForm()
}

// CanSave reports whether the save button is enabled.
func (f Form) CanSave() bool {
	return f.Title != "" && f.Code != ""
}

// Input converts the form into a snippet payload.
func (f Form) Input() model.SnippetInput {
	return model.SnippetInput{
		Title:       f.Title,
		Description: f.Description,
		Code:        f.Code,
		Language:    f.Language,
		Category:    f.Category,
		Tags:        ParseTags(f.Tags),
	}
}

// Apply overlays the form onto an existing snippet and returns the result.
// The id and timestamps come from s.
func (f Form) Apply(s model.Snippet) model.Snippet {
	out := s.Clone()
	out.Apply(f.Input())
	return out
}

// ParseTags splits comma-separated tags, trimming each one and dropping
// empty segments. Order is kept and duplicates are not removed.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
