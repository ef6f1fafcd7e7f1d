package kaiseki

import (
	"errors"
	"fmt"
	"regexp"
)

// Op is the operation of an anchor directive.
type Op int

const (
	// Lines following the anchor go to the current insertion point.
	OpInsert Op = iota
	// Lines following the anchor are put in front of the labeled anchor.
	OpBefore
	// Lines following the anchor are put at the end of the labeled anchor.
	OpAfter
	// Declares a named insertion point.
	OpLabel
)

func (op Op) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpBefore:
		return "before"
	case OpAfter:
		return "after"
	case OpLabel:
		return "label"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Anchor is a parsed anchor directive. For all operations except
// OpInsert Label is not empty. The label includes the parentheses of the
// argument, i.e. "##[label(foo)]" has the label "(foo)".
type Anchor struct {
	Op    Op
	Label string
}

// String returns the directive text of the anchor.
func (a Anchor) String() string {
	if a.Op == OpInsert {
		return "##[insert]"
	}
	return "##[" + a.Op.String() + a.Label + "]"
}

// ErrAnchorSyntax is returned by ParseAnchor for text that is not a
// well-formed anchor.
var ErrAnchorSyntax = errors.New("anchor syntax error")

var anchorCandidate = regexp.MustCompile(`##\[[^\]]+\]`)

// MightBeAnchor returns the first part of line that looks like an anchor.
// It does not check whether that part is well-formed.
func MightBeAnchor(line string) (string, bool) {
	loc := anchorCandidate.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	return line[loc[0]:loc[1]], true
}

type tokenType int

const (
	tokStart tokenType = iota
	tokEnd
	tokOp
	tokArg
)

type token struct {
	typ  tokenType
	op   Op
	text string
}

// All patterns must match at the start of the input only.
var lexRules = []struct {
	rgx *regexp.Regexp
	typ tokenType
	op  Op
}{
	{regexp.MustCompile(`^##\[`), tokStart, 0},
	{regexp.MustCompile(`^\]`), tokEnd, 0},
	{regexp.MustCompile(`^before`), tokOp, OpBefore},
	{regexp.MustCompile(`^after`), tokOp, OpAfter},
	{regexp.MustCompile(`^insert`), tokOp, OpInsert},
	{regexp.MustCompile(`^label`), tokOp, OpLabel},
	// Letters, digits and spaces of any script, not only ASCII
	{regexp.MustCompile(`^\([\p{L}\p{M}\p{N}\p{Pc}\p{Z}\s\x{85}\-]+\)`), tokArg, 0},
}

// lex splits text into tokens. At each position the longest match of all
// rules wins, on ties the first rule.
func lex(text string) ([]token, error) {
	var toks []token
	for pos := 0; pos < len(text); {
		rest := text[pos:]
		best, bestLen := -1, 0
		for i, r := range lexRules {
			if loc := r.rgx.FindStringIndex(rest); loc != nil && loc[1] > bestLen {
				best, bestLen = i, loc[1]
			}
		}
		if best < 0 {
			return nil, fmt.Errorf("%w: unexpected input at %d", ErrAnchorSyntax, pos)
		}
		r := &lexRules[best]
		toks = append(toks, token{typ: r.typ, op: r.op, text: rest[:bestLen]})
		pos += bestLen
	}
	return toks, nil
}

// ParseAnchor parses text, e.g. as returned from MightBeAnchor, as an
// anchor directive. The complete text must be one directive.
func ParseAnchor(text string) (Anchor, error) {
	toks, err := lex(text)
	if err != nil {
		return Anchor{}, err
	}
	return parseTokens(toks)
}

func parseTokens(toks []token) (a Anchor, err error) {
	next := func(typ tokenType) (token, bool) {
		if len(toks) == 0 || toks[0].typ != typ {
			return token{}, false
		}
		t := toks[0]
		toks = toks[1:]
		return t, true
	}
	if _, ok := next(tokStart); !ok {
		return a, fmt.Errorf("%w: missing anchor start", ErrAnchorSyntax)
	}
	op, ok := next(tokOp)
	if !ok {
		return a, fmt.Errorf("%w: missing anchor operation", ErrAnchorSyntax)
	}
	a.Op = op.op
	if a.Op != OpInsert {
		arg, ok := next(tokArg)
		if !ok {
			return Anchor{}, fmt.Errorf("%w: %s needs an argument", ErrAnchorSyntax, a.Op)
		}
		a.Label = arg.text
	}
	if _, ok := next(tokEnd); !ok || len(toks) > 0 {
		return Anchor{}, fmt.Errorf("%w: missing anchor end", ErrAnchorSyntax)
	}
	return a, nil
}
