package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	r := newResolver([]string{
		"expenses.md",
		"X/expenses.md",
		"X/c.md",
		"Finanzas/budget.md",
		"Deep/Nested/budget.md",
		"attachments/receipt.png",
		"notes.v2.md",
	})

	tests := []struct {
		name     string
		linkpath string
		source   string
		want     string
	}{
		{name: "basename adds md", linkpath: "expenses", source: "a.md", want: "expenses.md"},
		{name: "exact path wins over same folder", linkpath: "expenses", source: "X/c.md", want: "expenses.md"},
		{name: "explicit extension", linkpath: "expenses.md", source: "a.md", want: "expenses.md"},
		{name: "leading slash", linkpath: "/Finanzas/budget.md", source: "a.md", want: "Finanzas/budget.md"},
		{name: "shortest basename match", linkpath: "budget", source: "a.md", want: "Finanzas/budget.md"},
		{name: "relative to source folder", linkpath: "budget", source: "Deep/Nested/x.md", want: "Deep/Nested/budget.md"},
		{name: "parent relative", linkpath: "../expenses", source: "X/c.md", want: "expenses.md"},
		{name: "partial path suffix", linkpath: "Nested/budget", source: "a.md", want: "Deep/Nested/budget.md"},
		{name: "case insensitive name", linkpath: "EXPENSES", source: "a.md", want: "expenses.md"},
		{name: "note in subfolder", linkpath: "c", source: "a.md", want: "X/c.md"},
		{name: "attachment by name", linkpath: "receipt.png", source: "a.md", want: "attachments/receipt.png"},
		{name: "dotted note name", linkpath: "notes.v2", source: "a.md", want: "notes.v2.md"},
		{name: "escaping link", linkpath: "../../expenses", source: "X/c.md", want: ""},
		{name: "unknown", linkpath: "missing", source: "a.md", want: ""},
		{name: "empty", linkpath: "  ", source: "a.md", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.resolve(tt.linkpath, tt.source))
		})
	}
}

func TestClosest(t *testing.T) {
	candidates := func() []string { return []string{"Z/c.md", "AA/c.md", "Y/c.md"} }

	assert.Equal(t, "Z/c.md", closest(candidates(), "Z"), "same folder first")
	assert.Equal(t, "Y/c.md", closest(candidates(), ""), "then shortest, then lexical")
	assert.Equal(t, "", closest(nil, ""))
}
