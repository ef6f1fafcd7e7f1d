package kaiseki

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Engine reads sources one after the other and sorts their lines into a
// Forest according to the anchors found in the text. A zero Engine is
// ready to use. It must not be used concurrently.
type Engine struct {
	// OnProblem, if not nil, is called for each problem when it is found.
	OnProblem func(*Problem)

	forest   Forest
	problems []*Problem
}

// Problems returns all problems found so far in the order they were
// found.
func (e *Engine) Problems() []*Problem { return e.problems }

// Forest returns the forest built from all sources read so far.
func (e *Engine) Forest() *Forest { return &e.forest }

// Assemble is a shortcut for e.Forest().Assemble(opts).
func (e *Engine) Assemble(opts Options) []string {
	return e.forest.Assemble(opts)
}

// target is where the lines of the current section go. The zero value is
// OpInsert which appends to the top level of the forest.
type target struct {
	op    Op
	label string
}

type stream struct {
	name    string
	target  target
	block   *Block
	section knots
}

// Read processes all lines from r. Each source starts with lines being
// inserted at the top level. Problems in the text do not stop reading,
// they are collected. Only errors from r are returned.
func (e *Engine) Read(name string, r io.Reader) error {
	s := stream{name: name}
	rd := bufio.NewReader(r)
	for lno := 1; ; lno++ {
		line, err := rd.ReadString('\n')
		switch {
		case errors.Is(err, io.EOF):
			if line != "" {
				e.line(&s, lno, trimEOL(line))
			}
			s.endBlock()
			e.flush(&s)
			return nil
		case err != nil:
			s.endBlock()
			e.flush(&s)
			return fmt.Errorf("%s:%d: %w", name, lno, err)
		}
		e.line(&s, lno, trimEOL(line))
	}
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

func (e *Engine) line(s *stream, lno int, line string) {
	if !utf8.ValidString(line) {
		e.problem(ErrNotText, s.name, lno, "")
		return
	}
	text, ok := MightBeAnchor(line)
	if !ok {
		s.addLine(lno, line)
		return
	}
	anchor, err := ParseAnchor(text)
	if err != nil {
		e.problem(ErrMalformedAnchor, s.name, lno, text)
		s.addLine(lno, line)
		return
	}
	s.endBlock()
	switch anchor.Op {
	case OpInsert:
		e.flush(s)
		s.target = target{}
	case OpBefore, OpAfter:
		e.flush(s)
		if e.forest.HasAnchor(anchor.Label) {
			s.target = target{op: anchor.Op, label: anchor.Label}
		} else {
			e.problem(ErrMissingTag, s.name, lno, anchor.Label)
			s.target = target{}
		}
	case OpLabel:
		if e.forest.HasAnchor(anchor.Label) {
			e.problem(ErrDuplicateAnchor, s.name, lno, anchor.Label)
		} else {
			idx := e.forest.newAnchor(anchor.Label, indentation(line))
			s.section.PushBack(knot{anchor: idx})
		}
		e.flush(s)
		s.target = target{}
	default:
		panic(fmt.Sprintf("unknown anchor operation %s", anchor.Op))
	}
}

// flush moves the current section of s to its target
func (e *Engine) flush(s *stream) {
	if s.section.Empty() {
		return
	}
	switch s.target.op {
	case OpBefore:
		e.forest.anchor(s.target.label).knots.AppendFront(&s.section)
	case OpAfter:
		e.forest.anchor(s.target.label).knots.AppendBack(&s.section)
	default:
		e.forest.root.AppendBack(&s.section)
	}
}

func (e *Engine) problem(kind error, src string, lno int, anchor string) {
	p := &Problem{Kind: kind, Source: src, Line: lno, Anchor: anchor}
	e.problems = append(e.problems, p)
	if e.OnProblem != nil {
		e.OnProblem(p)
	}
}

func (s *stream) addLine(lno int, line string) {
	if s.block == nil {
		s.block = &Block{Source: s.name, Line: lno}
	}
	s.block.Lines = append(s.block.Lines, line)
}

func (s *stream) endBlock() {
	if s.block != nil {
		s.section.PushBack(knot{block: s.block})
		s.block = nil
	}
}

// indentation is the column of the first non-space rune in line
func indentation(line string) int {
	i := strings.IndexFunc(line, func(r rune) bool { return !unicode.IsSpace(r) })
	if i < 0 {
		return 0
	}
	return utf8.RuneCountInString(line[:i])
}
