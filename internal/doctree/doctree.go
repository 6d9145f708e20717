package doctree

import "strings"

// Number and title of the synthetic node every parse starts from.
const (
	RootNumber = "0"
	RootTitle  = "root"
)

// SectionNode is one numbered section of a document.
type SectionNode struct {
	Number   string         // Dotted section number, e.g. "2.1.3" ("0" for the root)
	Title    string         // Full header line including the number; the JSON key
	Children []*SectionNode // Subsections in document order

	body strings.Builder
}

// New creates a section with an empty body and no children.
func New(number, title string) *SectionNode {
	return &SectionNode{Number: number, Title: title}
}

// NewRoot creates the synthetic root section.
func NewRoot() *SectionNode {
	return New(RootNumber, RootTitle)
}

// AppendLine adds a line of prose to the section body, newline-separated.
// The line is stored as given.
func (n *SectionNode) AppendLine(line string) {
	if n.body.Len() > 0 {
		n.body.WriteByte('\n')
	}
	n.body.WriteString(line)
}

// AddChild appends a subsection.
func (n *SectionNode) AddChild(child *SectionNode) {
	n.Children = append(n.Children, child)
}

// Body returns the accumulated prose of this section.
func (n *SectionNode) Body() string {
	return n.body.String()
}

func (n *SectionNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// ToTree converts the section into its JSON-compatible value. A leaf becomes
// its body; a section with children becomes a mapping of child titles to their
// values, and its own body is not part of the result.
func (n *SectionNode) ToTree() Value {
	if n.IsLeaf() {
		return Leaf(n.Body())
	}

	m := newMapping(len(n.Children))
	for _, child := range n.Children {
		m.set(child.Title, child.ToTree())
	}
	return m
}

// Walk visits the section and its descendants in pre-order. The root is at
// depth 0. Returning false from fn skips that node's children.
func (n *SectionNode) Walk(fn func(node *SectionNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *SectionNode) walk(fn func(*SectionNode, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// TreeStats summarizes the shape of a parsed document.
type TreeStats struct {
	Sections int `json:"sections"`  // Header-created nodes (root excluded)
	Leaves   int `json:"leaves"`    // Sections with no children
	MaxDepth int `json:"max_depth"` // Deepest nesting below the root
}

// Stats computes TreeStats for the tree rooted at root.
func Stats(root *SectionNode) TreeStats {
	var st TreeStats
	root.Walk(func(node *SectionNode, depth int) bool {
		if depth == 0 {
			return true
		}
		st.Sections++
		if node.IsLeaf() {
			st.Leaves++
		}
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		return true
	})
	return st
}
