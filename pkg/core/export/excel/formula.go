package excel

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

type Script int

const (
	Baseline Script = iota
	Subscript
	Superscript
)

type Run struct {
	Text   string
	Script Script
}

// ParseFormula splits chemical formula markup into runs. "_x" and "_{xy}" are
// subscript, "^x" and "^{xy}" superscript. Markup that does not close is kept
// as literal text.
func ParseFormula(s string) []Run {
	runs := make([]Run, 0)
	push := func(text string, script Script) {
		if text == "" {
			return
		}
		if n := len(runs); n > 0 && runs[n-1].Script == script {
			runs[n-1].Text += text
			return
		}
		runs = append(runs, Run{Text: text, Script: script})
	}

	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		if (c != '_' && c != '^') || i+1 >= len(rs) {
			push(string(c), Baseline)
			continue
		}
		script := Subscript
		if c == '^' {
			script = Superscript
		}
		if rs[i+1] != '{' {
			push(string(rs[i+1]), script)
			i++
			continue
		}
		end := -1
		for j := i + 2; j < len(rs); j++ {
			if rs[j] == '}' {
				end = j
				break
			}
		}
		if end <= i+2 {
			push(string(c), Baseline)
			continue
		}
		push(string(rs[i+2:end]), script)
		i = end
	}
	return runs
}

// PlainFormula drops the markup.
func PlainFormula(s string) string {
	var b strings.Builder
	for _, r := range ParseFormula(s) {
		b.WriteString(r.Text)
	}
	return b.String()
}

func hasScript(runs []Run) bool {
	for _, r := range runs {
		if r.Script != Baseline {
			return true
		}
	}
	return false
}

func richText(runs []Run) []excelize.RichTextRun {
	out := make([]excelize.RichTextRun, 0, len(runs))
	for _, r := range runs {
		font := &excelize.Font{Family: "Calibri", Size: 11}
		switch r.Script {
		case Subscript:
			font.VertAlign = "subscript"
		case Superscript:
			font.VertAlign = "superscript"
		}
		out = append(out, excelize.RichTextRun{Text: r.Text, Font: font})
	}
	return out
}
