// Package kaisekitest supports testing tangled output against golden
// files in your Go tests.
//
// Example tangles all files in testdata/program and compares the result
// with testdata/TestProgram.golden:
//
//	func TestProgram(t *testing.T) {
//		lines, _ := kaisekitest.TangleDir(t, "testdata/program", kaiseki.Options{})
//		kaisekitest.Fatal(t, "", lines)
//	}
package kaisekitest

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fractalqb/kaiseki"
)

// When this environment variable is set to a regexp and the name of the current
// test matches calls to Error or Fatal will record the lines as new golden
// file instead of comparing them. E.g.
//
//	KAISEKI_RECORD=TestProgram go test .
const RecordEnv = "KAISEKI_RECORD"

// GoTestdataDir is the name of Go's default directory for testdata (see go help
// test).
const GoTestdataDir = "testdata"

// TangleDir tangles the files in dir as kaiseki.OpenSources does. Read
// errors fail the test, problems are returned.
func TangleDir(t testing.TB, dir string, opts kaiseki.Options) ([]string, []*kaiseki.Problem) {
	t.Helper()
	srcs, err := kaiseki.OpenSources([]string{dir}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		for _, s := range srcs {
			s.Close()
		}
	}()
	lines, problems, err := kaiseki.Tangle(opts, srcs...)
	if err != nil {
		t.Fatal(err)
	}
	return lines, problems
}

func Error(t testing.TB, hint string, lines []string) error {
	t.Helper()
	return defaultConfig.Error(t, hint, lines)
}

func Fatal(t testing.TB, hint string, lines []string) {
	t.Helper()
	defaultConfig.Fatal(t, hint, lines)
}

func Record(t testing.TB, hint string, lines []string) {
	t.Helper()
	defaultConfig.Record(t, hint, lines)
}

type GoldenRepo struct {
	Dir    string
	Suffix string
}

const (
	StdSuffix = ".golden"
	NoSuffix  = "\x00"
)

func (gr GoldenRepo) Filename(t testing.TB, hint string) string {
	suffix := gr.Suffix
	switch suffix {
	case "":
		suffix = StdSuffix
	case NoSuffix:
		suffix = ""
	}
	if hint == "" {
		return filepath.Join(gr.Dir, t.Name()+suffix)
	}
	if suffix == "" || strings.HasSuffix(hint, suffix) {
		return filepath.Join(gr.Dir, t.Name(), hint)
	}
	return filepath.Join(gr.Dir, t.Name(), hint+suffix)
}

type Config struct {
	GoldenFileName  func(t testing.TB, hint string) string
	MismatchLimit   int
	RecordOverwrite bool
}

var defaultConfig = Config{
	GoldenFileName:  GoldenRepo{Dir: GoTestdataDir}.Filename,
	MismatchLimit:   5,
	RecordOverwrite: false,
}

type MismatchCount int

func (mc MismatchCount) Error() string {
	return fmt.Sprintf("%d mismatches", mc)
}

func (cfg Config) Error(t testing.TB, hint string, lines []string) error {
	t.Helper()
	if recordTest(t) {
		cfg.Record(t, hint, lines)
		return nil
	}
	err := cfg.compare(t, hint, lines)
	if err != nil {
		t.Error(err)
	}
	return err
}

func (cfg Config) Fatal(t testing.TB, hint string, lines []string) {
	t.Helper()
	if recordTest(t) {
		cfg.Record(t, hint, lines)
		return
	}
	if err := cfg.compare(t, hint, lines); err != nil {
		t.Fatal(err)
	}
}

func recordTest(t testing.TB) bool {
	rec := os.Getenv(RecordEnv)
	if rec == "" {
		return false
	}
	r, err := regexp.Compile(rec)
	if err != nil {
		t.Logf("kaisekitest: invalid regexp '%s' in %s, not recording: %s", rec, RecordEnv, err)
		return false
	}
	return r.MatchString(t.Name())
}

func (cfg *Config) compare(t testing.TB, hint string, lines []string) error {
	t.Helper()
	golden := cfg.GoldenFileName(t, hint)
	expect, err := readLines(golden)
	if errors.Is(err, os.ErrNotExist) {
		t.Logf("to record a golden file run '%[1]s=%[2]s go test -run %[2]s'",
			RecordEnv,
			t.Name(),
		)
		return fmt.Errorf("golden file %s does not exist", golden)
	} else if err != nil {
		return err
	}
	if hint == "" {
		hint = "output"
	}
	var misses MismatchCount
	for i := 0; i < max(len(lines), len(expect)); i++ {
		var have, want string
		switch {
		case i >= len(lines):
			want = expect[i]
			mismatch(t, hint, i+1, "<missing>", want)
		case i >= len(expect):
			have = lines[i]
			mismatch(t, hint, i+1, have, "<none>")
		default:
			have, want = lines[i], expect[i]
			if have == want {
				continue
			}
			mismatch(t, hint, i+1, have, want)
		}
		misses++
		if cfg.MismatchLimit > 0 && int(misses) >= cfg.MismatchLimit {
			break
		}
	}
	if misses > 0 {
		return misses
	}
	return nil
}

func mismatch(t testing.TB, hint string, lno int, have, want string) {
	t.Helper()
	lnstr := strconv.Itoa(lno)
	t.Errorf("%s:%s [%s]", hint, lnstr, have)
	pad := strings.Repeat(" ", utf8.RuneCountInString(hint)+len(lnstr))
	t.Logf("%s  [%s] expected", pad, want)
}

func (cfg Config) Record(t testing.TB, hint string, lines []string) {
	t.Helper()
	golden := cfg.GoldenFileName(t, hint)
	if _, err := os.Stat(golden); !os.IsNotExist(err) && !cfg.RecordOverwrite {
		t.Fatalf("Record: golden file '%s' already exists", golden)
	}
	dir := filepath.Dir(golden)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err = os.MkdirAll(dir, 0777); err != nil {
			t.Fatal(err)
		}
	}
	wr, err := os.Create(golden)
	if err != nil {
		t.Fatal(err)
	}
	defer wr.Close()
	if err = kaiseki.WriteLines(wr, lines); err != nil {
		t.Error(err)
	}
	t.Errorf("kaisekitest recorder wrote: %s", golden)
}

func readLines(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	scn := bufio.NewScanner(f)
	for scn.Scan() {
		lines = append(lines, scn.Text())
	}
	return lines, scn.Err()
}
