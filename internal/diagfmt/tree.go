package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"algotex/internal/pyast"
	"algotex/internal/source"
)

// TreeNodeOutput is the JSON shape of one AST node.
type TreeNodeOutput struct {
	Type     string            `json:"type"`
	Role     string            `json:"role,omitempty"`
	Span     source.Span       `json:"span"`
	Line     uint32            `json:"line,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Children []TreeNodeOutput  `json:"children,omitempty"`
}

func nodeLabel(tree *pyast.Tree, n pyast.Node) string {
	label := tree.Label(n)
	attrs := tree.Attrs(n)
	if len(attrs) == 0 {
		return label
	}
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.Name+"="+a.Value)
	}
	return label + "(" + strings.Join(parts, ", ") + ")"
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil && fs.Get(span.File) != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

// FormatTreePretty печатает дерево с отступами ├─ / └─.
func FormatTreePretty(w io.Writer, tree *pyast.Tree, fs *source.FileSet) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	header := "Module"
	if fs != nil {
		if f := fs.Get(tree.Module.File); f != nil {
			header = f.FormatPath("auto", fs.BaseDir())
		}
	}
	fmt.Fprintf(w, "%s (span: %s)\n", header, formatSpan(tree.Module.Span, fs))
	for i, id := range tree.Module.Body {
		last := i == len(tree.Module.Body)-1
		writePrettyNode(w, tree, pyast.StmtNode(id), fs, "", "", last)
	}
	return nil
}

func writePrettyNode(w io.Writer, tree *pyast.Tree, n pyast.Node, fs *source.FileSet, prefix, role string, last bool) {
	branch, next := "├─ ", "│  "
	if last {
		branch, next = "└─ ", "   "
	}
	if role != "" {
		role += ": "
	}
	fmt.Fprintf(w, "%s%s%s%s (span: %s)\n", prefix, branch, role, nodeLabel(tree, n), formatSpan(tree.Span(n), fs))

	type child struct {
		role string
		node pyast.Node
	}
	var children []child
	for _, s := range tree.Slots(n) {
		for _, c := range s.Nodes {
			if c.IsValid() {
				children = append(children, child{role: s.Role, node: c})
			}
		}
	}
	for i, c := range children {
		writePrettyNode(w, tree, c.node, fs, prefix+next, c.role, i == len(children)-1)
	}
}

// FormatTreeDiagram рисует дерево модуля сверху вниз.
func FormatTreeDiagram(w io.Writer, tree *pyast.Tree) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	root := &treeNode{label: "Module"}
	for _, id := range tree.Module.Body {
		root.children = append(root.children, buildTreeNode(tree, pyast.StmtNode(id)))
	}
	for _, line := range layoutTree(root) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func buildTreeNode(tree *pyast.Tree, n pyast.Node) *treeNode {
	node := &treeNode{label: nodeLabel(tree, n)}
	for _, s := range tree.Slots(n) {
		for _, c := range s.Nodes {
			if c.IsValid() {
				node.children = append(node.children, buildTreeNode(tree, c))
			}
		}
	}
	return node
}

// FormatTreeJSON выводит дерево модуля в JSON.
func FormatTreeJSON(w io.Writer, tree *pyast.Tree) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	out := TreeNodeOutput{Type: "Module", Span: tree.Module.Span}
	for _, id := range tree.Module.Body {
		out.Children = append(out.Children, buildTreeJSON(tree, pyast.StmtNode(id), ""))
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func buildTreeJSON(tree *pyast.Tree, n pyast.Node, role string) TreeNodeOutput {
	out := TreeNodeOutput{
		Type: tree.Label(n),
		Role: role,
		Span: tree.Span(n),
		Line: tree.Line(n),
	}
	if attrs := tree.Attrs(n); len(attrs) > 0 {
		out.Fields = make(map[string]string, len(attrs))
		for _, a := range attrs {
			out.Fields[a.Name] = a.Value
		}
	}
	for _, s := range tree.Slots(n) {
		for _, c := range s.Nodes {
			if c.IsValid() {
				out.Children = append(out.Children, buildTreeJSON(tree, c, s.Role))
			}
		}
	}
	return out
}
