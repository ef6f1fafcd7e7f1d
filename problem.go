package kaiseki

import (
	"errors"
	"fmt"
)

// Kinds of problems reported while tangling. Use errors.Is to test a
// *Problem for its kind.
var (
	ErrNotText         = errors.New("line is not valid UTF-8")
	ErrMalformedAnchor = errors.New("could not parse anchor tag")
	ErrDuplicateAnchor = errors.New("found a duplicate anchor tag")
	ErrMissingTag      = errors.New("nonexistent tag name")
)

// Problem is a non-fatal issue found in the input. Tangling always
// continues after a problem.
type Problem struct {
	Kind error
	// Name of the source the problem was found in
	Source string
	// 1-based line number within Source
	Line int
	// Anchor text or label, empty for ErrNotText
	Anchor string
}

// Warning reports whether the problem only leads to input being ignored
// or reinterpreted. Only undecodable lines, which are lost, are errors.
func (p *Problem) Warning() bool {
	return p.Kind != ErrNotText
}

func (p *Problem) Error() string {
	level := "error"
	if p.Warning() {
		level = "warn"
	}
	switch p.Kind {
	case ErrNotText:
		return fmt.Sprintf("%s: '%s', line %d: not valid UTF-8", level, p.Source, p.Line)
	case ErrMalformedAnchor:
		return fmt.Sprintf("%s: '%s', line %d: ignoring malformed anchor: '%s'",
			level, p.Source, p.Line, p.Anchor)
	case ErrDuplicateAnchor:
		return fmt.Sprintf("%s: '%s', line %d: ignoring duplicate anchor tag: '%s'",
			level, p.Source, p.Line, p.Anchor)
	case ErrMissingTag:
		return fmt.Sprintf("%s: '%s', line %d: nonexistent tag name: '%s'",
			level, p.Source, p.Line, p.Anchor)
	}
	return fmt.Sprintf("%s: '%s', line %d: %s", level, p.Source, p.Line, p.Kind)
}

func (p *Problem) Unwrap() error { return p.Kind }
