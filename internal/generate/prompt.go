package generate

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write Python routines that extract transaction tables from bank statement PDFs.

Reply with a single Python script and nothing else. The script must define:

    def parse(pdf_path: str):

parse must return the extracted table as one of: a dict mapping column name
to a list of cell values, a pandas DataFrame, or a list of row dicts. Use
None for missing cells. Amounts must be numbers, not formatted strings.
Dates must be ISO formatted (YYYY-MM-DD) strings.

The script runs in an isolated workspace with no network access. Do not read
or write any file other than the PDF it is given.`

// BuildPrompt renders the user prompt for one generation call: the reference
// schema, any layout hints, and the critique from the previous attempt.
func BuildPrompt(req *Request) string {
	var b strings.Builder
	plan := req.Plan

	fmt.Fprintf(&b, "Write a parser for the bank statement %q.\n\n", plan.Document)
	b.WriteString("The returned table must have exactly these columns:\n")
	for _, name := range plan.ColumnNames {
		fmt.Fprintf(&b, "  - %s (%s)\n", name, plan.ColumnTypes[name])
	}

	if len(plan.LayoutHints) > 0 {
		b.WriteString("\nLayout notes:\n")
		for _, hint := range plan.LayoutHints {
			fmt.Fprintf(&b, "  - %s\n", hint)
		}
	}

	if req.Critique != "" {
		b.WriteString("\nYour previous attempt was rejected. Fix the problems described below and return a corrected script.\n\n")
		b.WriteString(req.Critique)
		b.WriteString("\n")
	}

	return b.String()
}

// ExtractSource strips a markdown code fence from a model reply, if present.
// Models routinely wrap scripts in fences despite instructions not to.
func ExtractSource(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	// Drop the opening fence (with optional language tag) and any closing fence.
	lines := strings.Split(trimmed, "\n")[1:]
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "```" {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
