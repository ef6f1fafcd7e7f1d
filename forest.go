package kaiseki

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fractalqb/kaiseki/splice"
)

// Block is a run of ordinary lines from one source between two anchors.
type Block struct {
	Source string
	// 1-based line number of the first line in Block
	Line  int
	Lines []string
}

// knot is either a block or, if block is nil, a reference to an anchor
// node in the forest's arena.
type knot struct {
	block  *Block
	anchor int
}

type knots = splice.List[knot]

type anchorNode struct {
	label string
	// Column of the anchor's label directive
	indent int
	knots  knots
}

// Forest is the result of reading sources with an Engine. It holds the
// top level sequence of blocks and anchors together with all anchor
// nodes. Assemble consumes the forest.
type Forest struct {
	root  knots
	nodes []*anchorNode
	index map[string]int
}

// Options control how a forest is assembled into output lines.
type Options struct {
	// If not empty, each block placed through an anchor is preceded by a
	// comment line "<Comment> '<source>', line <n>".
	Comment string
}

// Labels returns the labels of all anchors not yet assembled in
// lexical order.
func (f *Forest) Labels() []string {
	res := make([]string, 0, len(f.index))
	for l := range f.index {
		res = append(res, l)
	}
	sort.Strings(res)
	return res
}

func (f *Forest) HasAnchor(label string) bool {
	_, ok := f.index[label]
	return ok
}

func (f *Forest) newAnchor(label string, indent int) int {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	idx := len(f.nodes)
	f.nodes = append(f.nodes, &anchorNode{label: label, indent: indent})
	f.index[label] = idx
	return idx
}

func (f *Forest) anchor(label string) *anchorNode {
	idx, ok := f.index[label]
	if !ok {
		panic(fmt.Sprintf("invariant violated: anchor %s does not exist", label))
	}
	return f.nodes[idx]
}

// take removes the anchor node idx from the forest
func (f *Forest) take(idx int) *anchorNode {
	n := f.nodes[idx]
	if n == nil {
		panic(fmt.Sprintf("invariant violated: anchor #%d assembled twice", idx))
	}
	f.nodes[idx] = nil
	delete(f.index, n.label)
	return n
}

// Assemble walks the forest depth first and returns the output lines.
// The content of each anchor is indented by the sum of the indentations
// of all enclosing anchors. Afterwards the forest is empty.
func (f *Forest) Assemble(opts Options) []string {
	var lines []string
	f.assemble(&f.root, 0, false, &opts, &lines)
	return lines
}

func (f *Forest) assemble(ks *knots, indent int, inAnchor bool, opts *Options, out *[]string) {
	pad := strings.Repeat(" ", indent)
	for k := range ks.Drain() {
		if k.block == nil {
			n := f.take(k.anchor)
			f.assemble(&n.knots, indent+n.indent, true, opts, out)
			continue
		}
		if inAnchor && opts.Comment != "" {
			*out = append(*out, pad+blockHeader(opts.Comment, k.block))
		}
		for _, l := range k.block.Lines {
			*out = append(*out, pad+l)
		}
	}
}

func blockHeader(comment string, b *Block) string {
	return fmt.Sprintf("%s '%s', line %d", comment, b.Source, b.Line)
}
