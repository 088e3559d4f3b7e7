// Package model defines the data structures shared across CodeVault.
package model

import "time"

// Snippet is a stored code fragment with its descriptive metadata.
//
// ID is unique within one collection. CreatedAt is fixed when the snippet is
// created; UpdatedAt moves forward on every edit.
type Snippet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SnippetInput is the payload for creating a snippet: everything except the
// id and the timestamps, which the repository assigns.
type SnippetInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Language    string   `json:"language"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// Clone returns a deep copy, so the tags slice is not shared.
func (s Snippet) Clone() Snippet {
	if s.Tags != nil {
		s.Tags = append([]string(nil), s.Tags...)
	}
	return s
}

// Apply overwrites the editable fields of s with the values in in.
// ID and the timestamps are left alone. Tags is never nil afterwards, so it
// encodes as [] rather than null.
func (s *Snippet) Apply(in SnippetInput) {
	s.Title = in.Title
	s.Description = in.Description
	s.Code = in.Code
	s.Language = in.Language
	s.Category = in.Category
	s.Tags = append([]string{}, in.Tags...)
}

// Input returns the editable fields of s as a SnippetInput.
func (s Snippet) Input() SnippetInput {
	return SnippetInput{
		Title:       s.Title,
		Description: s.Description,
		Code:        s.Code,
		Language:    s.Language,
		Category:    s.Category,
		Tags:        append([]string(nil), s.Tags...),
	}
}
