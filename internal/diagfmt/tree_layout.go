package diagfmt

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type treeNode struct {
	label    string
	children []*treeNode
	width    int // columns reserved for the subtree, set by measure
}

const treeGap = 3

// cellWidth counts terminal columns; zero-width runes still take a cell so a
// label never collapses onto its neighbour.
func cellWidth(s string) int {
	w := 0
	for _, r := range s {
		w += max(runewidth.RuneWidth(r), 1)
	}
	return w
}

func (n *treeNode) measure() int {
	kids := 0
	for i, c := range n.children {
		if i > 0 {
			kids += treeGap
		}
		kids += c.measure()
	}
	n.width = max(cellWidth(n.label), kids)
	return n.width
}

// canvas is a grid of cells; a wide rune fills its first cell and leaves
// empty strings behind it.
type canvas struct {
	rows [][]string
}

func (c *canvas) set(row, col int, cell string) {
	for len(c.rows) <= row {
		c.rows = append(c.rows, nil)
	}
	for len(c.rows[row]) <= col {
		c.rows[row] = append(c.rows[row], " ")
	}
	c.rows[row][col] = cell
}

func (c *canvas) text(row, col int, s string) {
	for _, r := range s {
		w := max(runewidth.RuneWidth(r), 1)
		c.set(row, col, string(r))
		for k := 1; k < w; k++ {
			c.set(row, col+k, "")
		}
		col += w
	}
}

func (c *canvas) lines() []string {
	out := make([]string, len(c.rows))
	for i, row := range c.rows {
		out[i] = strings.TrimRight(strings.Join(row, ""), " ")
	}
	return out
}

// place draws n inside columns [x, x+n.width) at the given depth and returns
// the column of its label's centre. Each depth takes two rows: labels, then
// the / | \ connectors down to the children.
func (c *canvas) place(n *treeNode, x, depth int) int {
	lw := cellWidth(n.label)
	row := depth * 2
	if len(n.children) == 0 {
		start := x + (n.width-lw)/2
		c.text(row, start, n.label)
		return start + (lw-1)/2
	}

	kids := -treeGap
	for _, ch := range n.children {
		kids += ch.width + treeGap
	}
	cx := x + (n.width-kids)/2
	centers := make([]int, len(n.children))
	for i, ch := range n.children {
		centers[i] = c.place(ch, cx, depth+1)
		cx += ch.width + treeGap
	}

	start := (centers[0]+centers[len(centers)-1])/2 - (lw-1)/2
	start = min(max(start, x), x+n.width-lw)
	c.text(row, start, n.label)
	mid := start + (lw-1)/2

	c.set(row+1, mid, "|")
	for _, at := range centers {
		switch {
		case at < mid:
			c.set(row+1, at, "/")
		case at > mid:
			c.set(row+1, at, `\`)
		default:
			c.set(row+1, at, "|")
		}
	}
	return mid
}

// layoutTree returns the diagram lines for root, label above children.
func layoutTree(root *treeNode) []string {
	root.measure()
	var c canvas
	c.place(root, 0, 0)
	return c.lines()
}
