package patch

import (
	"regexp"
	"strings"
)

type line struct {
	text string
	eol  string
}

// Lines is an editable line buffer that keeps each line's terminator, so
// untouched lines are written back byte for byte.
type Lines struct {
	items []line
	eol   string
}

// SplitLines splits content on "\n" and "\r\n".
func SplitLines(content string) *Lines {
	l := &Lines{eol: "\n"}
	for content != "" {
		i := strings.IndexByte(content, '\n')
		if i < 0 {
			l.items = append(l.items, line{text: content})
			break
		}
		text, eol := content[:i], "\n"
		if strings.HasSuffix(text, "\r") {
			text, eol = text[:len(text)-1], "\r\n"
			l.eol = eol
		}
		l.items = append(l.items, line{text: text, eol: eol})
		content = content[i+1:]
	}
	return l
}

// Len returns the number of lines.
func (l *Lines) Len() int { return len(l.items) }

// Line returns the text of line i without its terminator.
func (l *Lines) Line(i int) string { return l.items[i].text }

// String joins the lines back with their original terminators.
func (l *Lines) String() string {
	var b strings.Builder
	for _, it := range l.items {
		b.WriteString(it.text)
		b.WriteString(it.eol)
	}
	return b.String()
}

// anchored builds a case-insensitive pattern that must cover a whole line,
// surrounding whitespace aside. The leading whitespace is captured.
func anchored(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(\s*)(?:` + pattern + `)\s*$`)
}

// PatchIfPresent replaces every line matched by re (built with anchored)
// with replacement, keeping the line's indentation. It returns the number
// of replaced lines.
func (l *Lines) PatchIfPresent(re *regexp.Regexp, replacement string) int {
	n := 0
	for i, it := range l.items {
		m := re.FindStringSubmatch(it.text)
		if m == nil {
			continue
		}
		l.items[i].text = m[1] + replacement
		n++
	}
	return n
}

// AppendOrUpdate patches matching lines, or appends replacement as a new
// last line when none match.
func (l *Lines) AppendOrUpdate(re *regexp.Regexp, replacement string) {
	if l.PatchIfPresent(re, replacement) > 0 {
		return
	}
	if n := len(l.items); n > 0 && l.items[n-1].eol == "" {
		l.items[n-1].eol = l.eol
	}
	l.items = append(l.items, line{text: replacement, eol: l.eol})
}

// InsertOrUpdate patches matching lines, or inserts replacement as the new
// first line when none match.
func (l *Lines) InsertOrUpdate(re *regexp.Regexp, replacement string) {
	if l.PatchIfPresent(re, replacement) > 0 {
		return
	}
	l.items = append([]line{{text: replacement, eol: l.eol}}, l.items...)
}
