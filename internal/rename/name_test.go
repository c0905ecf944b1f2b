// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rename

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/pdf-rename/pkg/types"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		md   types.Metadata
		want string
	}{
		{
			"full record",
			types.Metadata{Title: "Attention Is All You Need", Authors: []string{"Ashish Vaswani", "Noam Shazeer"}, Year: 2017},
			"2017 - A. Vaswani - Attention Is All You Need.pdf",
		},
		{
			"family-comma-given author",
			types.Metadata{Title: "A Paper", Authors: []string{"Vaswani, Ashish"}, Year: 2017},
			"2017 - A. Vaswani - A Paper.pdf",
		},
		{
			"no year",
			types.Metadata{Title: "A Paper", Authors: []string{"Jane Doe"}},
			"J. Doe - A Paper.pdf",
		},
		{
			"no author",
			types.Metadata{Title: "A Paper", Year: 2020},
			"2020 - A Paper.pdf",
		},
		{
			"title only",
			types.Metadata{Title: "A Paper"},
			"A Paper.pdf",
		},
		{
			"single-word author",
			types.Metadata{Title: "A Paper", Authors: []string{"plato"}, Year: 350},
			"350 - Plato - A Paper.pdf",
		},
		{
			"middle names collapse to first and last",
			types.Metadata{Title: "A Paper", Authors: []string{"John Ronald Reuel Tolkien"}, Year: 1954},
			"1954 - J. Tolkien - A Paper.pdf",
		},
		{
			"hostile runes in title",
			types.Metadata{Title: `Maps: A "Survey" of A/B <Testing>`, Authors: []string{"Jane Doe"}, Year: 2021},
			"2021 - J. Doe - Maps A Survey of A B Testing.pdf",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.md))
		})
	}
}

func TestFilenameDeterministic(t *testing.T) {
	md := types.Metadata{Title: "Stable Title", Authors: []string{"Jane Doe"}, Year: 2022}
	assert.Equal(t, Filename(md), Filename(md))
}

func TestFilenameTruncatesLongTitles(t *testing.T) {
	md := types.Metadata{Title: strings.Repeat("word ", 100), Year: 2020}
	name := Filename(md)
	assert.LessOrEqual(t, len([]rune(name)), maxTitleRunes+len("2020 - .pdf"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.False(t, strings.Contains(name, "  "))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain title", "plain title"},
		{"with/slash\\and:colon", "with slash and colon"},
		{"  padded   spaces  ", "padded spaces"},
		{"trailing dots...", "trailing dots"},
		{"tabs\tand\nnewlines", "tabs and newlines"},
		{`quoted "title" here`, "quoted title here"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), "Sanitize(%q)", tt.in)
	}
}
