package craftlist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/craftlist/craft-list/pkg/craftlist"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Getting Started", "getting-started"},
		{"already a slug", "getting-started", "getting-started"},
		{"punctuation collapses", "Redstone: Tips & Tricks!", "redstone-tips-tricks"},
		{"surrounding whitespace", "  Hello World  ", "hello-world"},
		{"digits survive", "Top 10 Servers", "top-10-servers"},
		{"repeated separators", "a -- b", "a-b"},
		{"only punctuation", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, craftlist.Slugify(tt.input))
		})
	}
}

func TestValidSlug(t *testing.T) {
	assert.True(t, craftlist.ValidSlug("my-page"))
	assert.True(t, craftlist.ValidSlug("page2"))
	assert.False(t, craftlist.ValidSlug(""))
	assert.False(t, craftlist.ValidSlug("My Page"))
	assert.False(t, craftlist.ValidSlug("page_one"))
	assert.False(t, craftlist.ValidSlug("-leading"))
	assert.False(t, craftlist.ValidSlug("trailing-"))
}
