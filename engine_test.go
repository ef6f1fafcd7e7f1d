package kaiseki

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"testing/iotest"
)

func ExampleTangle() {
	lines, problems, err := Tangle(Options{},
		NewSourceString("A", "x\n##[label(Body)]\ny"),
		NewSourceString("B", "##[before(Body)]\nz\n##[insert]\nw"),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, l := range lines {
		fmt.Println(l)
	}
	fmt.Println(len(problems), "problems")
	// Output:
	// x
	// z
	// y
	// w
	// 0 problems
}

// tangleTexts tangles texts as sources named A, B, …
func tangleTexts(t *testing.T, opts Options, texts ...string) ([]string, []*Problem) {
	t.Helper()
	srcs := make([]Source, len(texts))
	for i, txt := range texts {
		srcs[i] = NewSourceString(string(rune('A'+i)), txt)
	}
	lines, problems, err := Tangle(opts, srcs...)
	if err != nil {
		t.Fatal(err)
	}
	return lines, problems
}

func expectLines(t *testing.T, lines []string, expect ...string) {
	t.Helper()
	if !slices.Equal(lines, expect) {
		t.Errorf("wrong output:\n%s\nexpected:\n%s",
			strings.Join(lines, "\n"),
			strings.Join(expect, "\n"),
		)
	}
}

func expectProblems(t *testing.T, problems []*Problem, kinds ...error) {
	t.Helper()
	if len(problems) != len(kinds) {
		t.Fatalf("%d problems %v, expected %d", len(problems), problems, len(kinds))
	}
	for i, p := range problems {
		if !errors.Is(p, kinds[i]) {
			t.Errorf("problem %d: %s, expected kind '%s'", i, p, kinds[i])
		}
	}
}

func TestTangle_noAnchors(t *testing.T) {
	lines, problems := tangleTexts(t, Options{Comment: "//"},
		"line 1\n  line 2\n",
		"\nline 4\r\nline 5",
	)
	expectProblems(t, problems)
	expectLines(t, lines, "line 1", "  line 2", "", "line 4", "line 5")
}

func TestTangle_insertTransparent(t *testing.T) {
	plain, _ := tangleTexts(t, Options{}, "a\nb\n", "c\nd")
	with, problems := tangleTexts(t, Options{},
		"a\n##[insert]\nb\n##[insert]\n",
		"##[insert]\nc\n// ##[insert]\nd",
	)
	expectProblems(t, problems)
	expectLines(t, with, plain...)
}

func TestTangle_roundTrip(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		lines, problems := tangleTexts(t, Options{},
			"x\n##[label(Body)]\ny",
			"##[before(Body)]\nz\n##[insert]\nw",
		)
		expectProblems(t, problems)
		expectLines(t, lines, "x", "z", "y", "w")
	})
	t.Run("comments", func(t *testing.T) {
		lines, problems := tangleTexts(t, Options{Comment: "//"},
			"x\n##[label(Body)]\ny",
			"##[before(Body)]\nz\n##[insert]\nw",
		)
		expectProblems(t, problems)
		expectLines(t, lines, "x", "// 'B', line 2", "z", "y", "w")
	})
}

func TestTangle_before(t *testing.T) {
	lines, problems := tangleTexts(t, Options{},
		"start\n##[label(L)]\nend",
		"##[before(L)]\na\n##[before(L)]\nb",
		"##[before(L)]\nc",
	)
	expectProblems(t, problems)
	expectLines(t, lines, "start", "c", "b", "a", "end")
}

func TestTangle_after(t *testing.T) {
	lines, problems := tangleTexts(t, Options{},
		"start\n##[label(L)]\nend",
		"##[after(L)]\na\n##[after(L)]\nb",
		"##[after(L)]\nc",
	)
	expectProblems(t, problems)
	expectLines(t, lines, "start", "a", "b", "c", "end")
}

func TestTangle_beforeAndAfter(t *testing.T) {
	lines, problems := tangleTexts(t, Options{},
		"##[label(L)]\n##[after(L)]\nafter 1\n##[before(L)]\nbefore 1",
		"##[after(L)]\nafter 2\n##[before(L)]\nbefore 2",
	)
	expectProblems(t, problems)
	expectLines(t, lines, "before 2", "before 1", "after 1", "after 2")
}

func TestTangle_sectionStaysTogether(t *testing.T) {
	lines, problems := tangleTexts(t, Options{},
		"##[label(X)]\n##[before(X)]\nx",
		"##[before(X)]\na1\n// ##[oops]\na2\n##[label(Y)]\nb\n##[after(Y)]\ny",
	)
	expectProblems(t, problems, ErrMalformedAnchor)
	expectLines(t, lines, "a1", "// ##[oops]", "a2", "y", "x", "b")
}

func TestTangle_missingTag(t *testing.T) {
	lines, problems := tangleTexts(t, Options{},
		"x\n##[before(Nope)]\ny\n##[after(Nope)]\nz",
	)
	expectProblems(t, problems, ErrMissingTag, ErrMissingTag)
	expectLines(t, lines, "x", "y", "z")
	if p := problems[0]; p.Source != "A" || p.Line != 2 || p.Anchor != "(Nope)" {
		t.Errorf("wrong problem %+v", p)
	}
}

func TestTangle_forwardReference(t *testing.T) {
	lines, problems := tangleTexts(t, Options{},
		"##[after(Later)]\nx",
		"##[label(Later)]\ny",
	)
	expectProblems(t, problems, ErrMissingTag)
	expectLines(t, lines, "x", "y")
}

func TestTangle_duplicateLabel(t *testing.T) {
	lines, problems := tangleTexts(t, Options{},
		"a\n##[label(L)]\nb\n  ##[label(L)]\nc\n##[after(L)]\nin L",
	)
	expectProblems(t, problems, ErrDuplicateAnchor)
	expectLines(t, lines, "a", "in L", "b", "c")
	if p := problems[0]; p.Line != 4 || p.Anchor != "(L)" {
		t.Errorf("wrong problem %+v", p)
	}
}

func TestTangle_labelsMatchVerbatim(t *testing.T) {
	lines, problems := tangleTexts(t, Options{},
		"##[label(foo)]\n##[after(foo )]\nx",
	)
	expectProblems(t, problems, ErrMissingTag)
	expectLines(t, lines, "x")
}

func TestTangle_nestedIndent(t *testing.T) {
	const text = `top
  ##[label(Outer)]
##[after(Outer)]
outer line
    ##[label(Inner)]
##[after(Inner)]
inner line`
	t.Run("plain", func(t *testing.T) {
		lines, problems := tangleTexts(t, Options{}, text)
		expectProblems(t, problems)
		expectLines(t, lines, "top", "  outer line", "      inner line")
	})
	t.Run("comments", func(t *testing.T) {
		lines, problems := tangleTexts(t, Options{Comment: "#"}, text)
		expectProblems(t, problems)
		expectLines(t, lines,
			"top",
			"  # 'A', line 4",
			"  outer line",
			"      # 'A', line 7",
			"      inner line",
		)
	})
	t.Run("tab", func(t *testing.T) {
		lines, problems := tangleTexts(t, Options{},
			"\t\t##[label(T)]\n##[after(T)]\nin tab",
		)
		expectProblems(t, problems)
		expectLines(t, lines, "  in tab")
	})
	t.Run("unicode space", func(t *testing.T) {
		lines, problems := tangleTexts(t, Options{},
			"\u00a0\u3000 ##[label(N)]\n##[after(N)]\nin nbsp",
		)
		expectProblems(t, problems)
		expectLines(t, lines, "   in nbsp")
	})
}

func TestTangle_unicodeLabels(t *testing.T) {
	lines, problems := tangleTexts(t, Options{},
		"##[label(Größe)]\n##[label(日本)]",
		"##[after(日本)]\nnihon\n##[before(Größe)]\ngröße",
	)
	expectProblems(t, problems)
	expectLines(t, lines, "größe", "nihon")
}

func TestTangle_statePerSource(t *testing.T) {
	lines, problems := tangleTexts(t, Options{},
		"##[label(L)]\nroot\n##[after(L)]\na",
		"b",
	)
	expectProblems(t, problems)
	expectLines(t, lines, "a", "root", "b")
}

func TestTangle_malformedAnchor(t *testing.T) {
	lines, problems := tangleTexts(t, Options{},
		"a\n  // ##[label(a.b)]\nb",
	)
	expectProblems(t, problems, ErrMalformedAnchor)
	expectLines(t, lines, "a", "  // ##[label(a.b)]", "b")
	if p := problems[0]; p.Line != 2 || p.Anchor != "##[label(a.b)]" {
		t.Errorf("wrong problem %+v", p)
	}
}

func TestTangle_notText(t *testing.T) {
	lines, problems := tangleTexts(t, Options{},
		"a\n\xff\xfe\nb",
	)
	expectProblems(t, problems, ErrNotText)
	expectLines(t, lines, "a", "b")
	if p := problems[0]; p.Source != "A" || p.Line != 2 {
		t.Errorf("wrong problem %+v", p)
	}
}

func TestEngine_blockLines(t *testing.T) {
	var eng Engine
	err := eng.Read("src", strings.NewReader("##[label(L)]\n##[after(L)]\n\xff\nfirst\nsecond"))
	if err != nil {
		t.Fatal(err)
	}
	n := eng.Forest().anchor("(L)")
	if l := n.knots.Len(); l != 1 {
		t.Fatalf("anchor has %d knots", l)
	}
	k, _ := n.knots.Front()
	if k.block == nil {
		t.Fatal("anchor knot is not a block")
	}
	if k.block.Line != 4 {
		t.Errorf("block starts at line %d", k.block.Line)
	}
	if !slices.Equal(k.block.Lines, []string{"first", "second"}) {
		t.Errorf("block lines %v", k.block.Lines)
	}
}

func TestEngine_onProblem(t *testing.T) {
	var seen []string
	eng := Engine{OnProblem: func(p *Problem) {
		seen = append(seen, p.Error())
	}}
	if err := eng.Read("f", strings.NewReader("##[before(x)]\n##[label(y)]\n##[label(y)]")); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(seen, []string{
		"warn: 'f', line 1: nonexistent tag name: '(x)'",
		"warn: 'f', line 3: ignoring duplicate anchor tag: '(y)'",
	}) {
		t.Errorf("seen: %v", seen)
	}
	if len(eng.Problems()) != 2 {
		t.Errorf("problems: %v", eng.Problems())
	}
}

func TestEngine_readError(t *testing.T) {
	boom := errors.New("boom")
	var eng Engine
	err := eng.Read("broken", iotest.ErrReader(boom))
	if !errors.Is(err, boom) {
		t.Fatalf("unexpected error %v", err)
	}
	if !strings.HasPrefix(err.Error(), "broken:1:") {
		t.Errorf("error without position: %s", err)
	}
	_, _, err = Tangle(Options{}, Source{Name: "broken", Reader: iotest.ErrReader(boom)})
	if !errors.Is(err, boom) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestProblem_Error(t *testing.T) {
	for _, tc := range []struct {
		p      Problem
		expect string
	}{
		{Problem{ErrNotText, "a.go", 3, ""}, "error: 'a.go', line 3: not valid UTF-8"},
		{Problem{ErrMalformedAnchor, "a.go", 4, "##[x]"}, "warn: 'a.go', line 4: ignoring malformed anchor: '##[x]'"},
		{Problem{ErrDuplicateAnchor, "a.go", 5, "(x)"}, "warn: 'a.go', line 5: ignoring duplicate anchor tag: '(x)'"},
		{Problem{ErrMissingTag, "a.go", 6, "(y)"}, "warn: 'a.go', line 6: nonexistent tag name: '(y)'"},
	} {
		if s := tc.p.Error(); s != tc.expect {
			t.Errorf("'%s' instead of '%s'", s, tc.expect)
		}
	}
}
