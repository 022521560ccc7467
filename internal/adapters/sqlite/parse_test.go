package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLinks(t *testing.T) {
	src := "# Note\n" +
		"See [[expenses]] and [[Finanzas/budget#Q1|the budget]].\n" +
		"Embed: ![[receipt.png]]\n" +
		"Self: [[#Heading]]\n" +
		"Inline `[[not a link]]` code.\n" +
		"```go\n" +
		"[[in fence]]\n" +
		"[fenced](fenced.md)\n" +
		"```\n" +
		"Markdown: [report](reports/2024%20Q1.md#Totals) and [site](https://example.com) " +
		"and [mail](mailto:me@example.com) and ![img](attachments/pic.png) and [anchor](#local).\n"

	got := parseLinks([]byte(src))

	assert.Equal(t, []rawLink{
		{text: "[[expenses]]", linkpath: "expenses"},
		{text: "[[Finanzas/budget#Q1|the budget]]", linkpath: "Finanzas/budget"},
		{text: "[[receipt.png]]", linkpath: "receipt.png"},
		{text: "reports/2024%20Q1.md#Totals", linkpath: "reports/2024 Q1.md"},
		{text: "attachments/pic.png", linkpath: "attachments/pic.png"},
	}, got)
}

func TestParseWikiLinks_RepeatedLinksAreKept(t *testing.T) {
	got := parseWikiLinks("[[expenses]] twice [[expenses|again]]\n[[expenses]]")
	assert.Len(t, got, 3)
}

func TestParseWikiLinks_Unterminated(t *testing.T) {
	assert.Empty(t, parseWikiLinks("broken [[expenses and more"))
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com":    true,
		"mailto:me@example.com":  true,
		"obsidian://open?x=1":    true,
		"expenses.md":            false,
		"Finanzas/a.md":          false,
		"../up/expenses.md":      false,
		`C:\notes\expenses.md`:   false,
		"reports/2024%20Q1.md":   false,
	}
	for in, want := range tests {
		assert.Equal(t, want, isURL(in), "isURL(%q)", in)
	}
}

func TestSplitHelpers(t *testing.T) {
	assert.Equal(t, "expenses", splitAlias("expenses|Gastos"))
	assert.Equal(t, "expenses", splitSubpath("expenses#^block"))
	assert.Equal(t, "", splitSubpath("#Heading"))
	assert.Equal(t, "a  c", stripInlineCode("a `b` c"))
}
