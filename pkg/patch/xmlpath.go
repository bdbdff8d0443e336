package patch

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/beevik/etree"
)

// span locates an element in the source text. The start tag covers
// [start, open) and the end tag [close, end). A self-closing element has
// open == close == end.
type span struct {
	start, open, close, end int
}

func (s span) selfClosing() bool { return s.open == s.end }

// xmlDoc is an etree document that remembers where each parsed element sits
// in the source text. Edits are made on the tree and spliced back into the
// source, so everything outside the edited elements is kept byte for byte.
type xmlDoc struct {
	src     string
	tree    *etree.Document
	spans   map[*etree.Element]span
	added   map[etree.Token]bool
	changed []*etree.Element
}

// The caller already decoded the bytes, so a declared encoding is ignored.
func passCharset(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}

// parseXML reads already decoded XML text.
func parseXML(content string) (*xmlDoc, error) {
	tree := etree.NewDocument()
	tree.ReadSettings.CharsetReader = passCharset
	if err := tree.ReadFromString(content); err != nil {
		return nil, err
	}
	spans, err := elementSpans(content)
	if err != nil {
		return nil, err
	}

	var elements []*etree.Element
	collectElements(&tree.Element, &elements)
	if len(elements) != len(spans) {
		return nil, fmt.Errorf("found %d elements but located %d", len(elements), len(spans))
	}

	d := &xmlDoc{
		src:   content,
		tree:  tree,
		spans: make(map[*etree.Element]span, len(spans)),
		added: map[etree.Token]bool{},
	}
	for i, el := range elements {
		d.spans[el] = spans[i]
	}
	return d, nil
}

// elementSpans lists the span of every element in document order.
func elementSpans(content string) ([]span, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.CharsetReader = passCharset

	var (
		spans []span
		open  []int
	)
	for {
		before := int(dec.InputOffset())
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		after := int(dec.InputOffset())

		switch tok.(type) {
		case xml.StartElement:
			open = append(open, len(spans))
			spans = append(spans, span{start: before, open: after})
		case xml.EndElement:
			if len(open) == 0 {
				return nil, errors.New("unexpected end element")
			}
			i := open[len(open)-1]
			open = open[:len(open)-1]
			spans[i].close, spans[i].end = before, after
		}
	}
	if len(open) > 0 {
		return nil, errors.New("unclosed element")
	}
	return spans, nil
}

func collectElements(el *etree.Element, out *[]*etree.Element) {
	for _, c := range el.ChildElements() {
		*out = append(*out, c)
		collectElements(c, out)
	}
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func childrenNamed(el *etree.Element, name string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if strings.EqualFold(c.Tag, name) {
			out = append(out, c)
		}
	}
	return out
}

// pick chooses among same-named siblings the first one holding a child
// named next, or the first sibling when none does.
func pick(candidates []*etree.Element, next string) *etree.Element {
	for _, c := range candidates {
		if len(childrenNamed(c, next)) > 0 {
			return c
		}
	}
	return candidates[0]
}

// find resolves a slash separated element path with case-insensitive
// names. With create set, missing elements are appended to their parent.
// It returns nil when the path does not exist and create is false.
func (d *xmlDoc) find(path string, create bool) (*etree.Element, error) {
	segments := splitPath(path)
	node := &d.tree.Element
	for i, name := range segments {
		candidates := childrenNamed(node, name)
		switch {
		case len(candidates) == 0 && !create:
			return nil, nil
		case len(candidates) == 0 && i == 0:
			return nil, fmt.Errorf("root element %q not found", name)
		case len(candidates) == 0:
			node = d.appendElement(node, name)
		case len(candidates) == 1 || i == len(segments)-1:
			node = candidates[0]
		default:
			node = pick(candidates, segments[i+1])
		}
	}
	return node, nil
}

// appendElement adds a child after the last child element of parent, in
// parent's namespace, copying the indentation of that last child.
func (d *xmlDoc) appendElement(parent *etree.Element, name string) *etree.Element {
	child := etree.NewElement(name)
	child.Space = parent.Space
	d.added[child] = true

	children := parent.ChildElements()
	if len(children) == 0 {
		parent.AddChild(child)
		return child
	}

	last := children[len(children)-1]
	at := indexOf(parent, last)
	indent := ""
	if at > 0 {
		if cd, ok := parent.Child[at-1].(*etree.CharData); ok && strings.TrimSpace(cd.Data) == "" {
			indent = cd.Data
		}
	}
	at++
	if indent != "" {
		text := etree.NewText(indent)
		d.added[text] = true
		parent.InsertChildAt(at, text)
		at++
	}
	parent.InsertChildAt(at, child)
	return child
}

func indexOf(parent *etree.Element, el *etree.Element) int {
	for i, tok := range parent.Child {
		if e, ok := tok.(*etree.Element); ok && e == el {
			return i
		}
	}
	return -1
}

// setText writes value into the element at path. It reports whether the
// element existed or was created.
func (d *xmlDoc) setText(path, value string, create bool) (bool, error) {
	el, err := d.find(path, create)
	if err != nil || el == nil {
		return false, err
	}
	for len(el.Child) > 0 {
		el.RemoveChildAt(0)
	}
	el.SetText(value)
	if _, ok := d.spans[el]; ok && !slices.Contains(d.changed, el) {
		d.changed = append(d.changed, el)
	}
	return true, nil
}

type splice struct {
	from, to int
	text string
}

// String returns the source text with every edit applied. Inserted markup
// follows the source's line ends.
func (d *xmlDoc) String() string {
	var edits []splice
	for _, el := range d.changed {
		s := d.spans[el]
		if s.selfClosing() {
			edits = append(edits, splice{s.start, s.end, serialize(el)})
			continue
		}
		edits = append(edits, splice{s.open, s.close, escapeText(el.Text())})
	}
	for el, s := range d.spans {
		if e, ok := d.insertion(el, s); ok {
			edits = append(edits, e)
		}
	}
	if len(edits) == 0 {
		return d.src
	}
	slices.SortFunc(edits, func(a, b splice) int {
		if a.from != b.from {
			return a.from - b.from
		}
		return a.to - b.to
	})

	crlf := strings.Contains(d.src, "\r\n")
	var b strings.Builder
	cursor := 0
	for _, e := range edits {
		if e.from < cursor {
			continue
		}
		b.WriteString(d.src[cursor:e.from])
		text := e.text
		if crlf {
			text = strings.ReplaceAll(text, "\n", "\r\n")
		}
		b.WriteString(text)
		cursor = e.to
	}
	b.WriteString(d.src[cursor:])
	return b.String()
}

// insertion renders the children appended to el. They sit together right
// after el's last parsed child element, or at the end of el when it had
// none.
func (d *xmlDoc) insertion(el *etree.Element, s span) (splice, bool) {
	first, last := -1, -1
	for i, tok := range el.Child {
		if d.added[tok] {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return splice{}, false
	}

	at := -1
	for i := first - 1; i >= 0; i-- {
		if prev, ok := el.Child[i].(*etree.Element); ok {
			if ps, ok := d.spans[prev]; ok {
				at = ps.end
			}
			break
		}
	}
	if at < 0 {
		if s.selfClosing() {
			return splice{s.start, s.end, serialize(el)}, true
		}
		at = s.close
	}

	var b strings.Builder
	for _, tok := range el.Child[first : last+1] {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			b.WriteString(serialize(t))
		}
	}
	return splice{at, at, b.String()}, true
}

// serialize writes el and its subtree on its own.
func serialize(el *etree.Element) string {
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
	doc.SetRoot(el.Copy())
	out, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return out
}

func escapeText(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
