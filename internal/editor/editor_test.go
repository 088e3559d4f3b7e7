package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/codevault/internal/model"
)

func TestModeFor(t *testing.T) {
	sn := &model.Snippet{ID: "1"}

	assert.Equal(t, ModeEmpty, ModeFor(nil, false))
	assert.Equal(t, ModeDetail, ModeFor(sn, false))
	assert.Equal(t, ModeForm, ModeFor(sn, true))
	assert.Equal(t, ModeForm, ModeFor(nil, true))
	assert.Equal(t, "detail", ModeDetail.String())
}

func TestHeading(t *testing.T) {
	assert.Equal(t, "New Snippet", Heading(nil))
	assert.Equal(t, "Edit Snippet", Heading(&model.Snippet{}))
}

func TestBlankFormDefaults(t *testing.T) {
	f := BlankForm()

	assert.Equal(t, "JavaScript", f.Language)
	assert.Equal(t, "JavaScript", f.Category)
	assert.Empty(t, f.Title)
	assert.Empty(t, f.Code)
	assert.Empty(t, f.Tags)
	assert.False(t, f.CanSave())
}

func TestFormForSnippet(t *testing.T) {
	sn := model.Snippet{
		ID: "9", Title: "T", Description: "D", Code: "C",
		Language: "css", Category: "CSS", Tags: []string{"a", "b"},
	}

	f := FormForMode(&sn)

	assert.Equal(t, Form{Title: "T", Description: "D", Code: "C", Language: "css", Category: "CSS", Tags: "a, b"}, f)
}

func TestCanSave(t *testing.T) {
	tests := []struct {
		title, code string
		want        bool
	}{
		{"", "", false},
		{"t", "", false},
		{"", "c", false},
		{"t", "c", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Form{Title: tt.title, Code: tt.code}.CanSave(), "title=%q code=%q", tt.title, tt.code)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{}},
		{"react", []string{"react"}},
		{"react, hooks,state", []string{"react", "hooks", "state"}},
		{" a ,, ,b,", []string{"a", "b"}},
		{"dup, dup", []string{"dup", "dup"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.raw))
		})
	}
}

func TestApplyKeepsIdentity(t *testing.T) {
	sn := model.Snippet{ID: "1", Title: "old", Tags: []string{"x"}}
	f := FormFor(sn)
	f.Title = "new"
	f.Tags = "y, z"

	out := f.Apply(sn)

	assert.Equal(t, "1", out.ID)
	assert.Equal(t, "new", out.Title)
	assert.Equal(t, []string{"y", "z"}, out.Tags)
	assert.Equal(t, []string{"x"}, sn.Tags)
}
