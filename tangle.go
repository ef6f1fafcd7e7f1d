package kaiseki

import (
	"bufio"
	"io"
)

// Version of the kaiseki module
const Version = "0.3.0"

// Tangle reads all srcs in order with a new Engine and assembles the
// result. Problems in the input are returned, not treated as errors. The
// error is only set if reading from one of the sources failed, then the
// returned lines are nil.
func Tangle(opts Options, srcs ...Source) (lines []string, problems []*Problem, err error) {
	var eng Engine
	for _, src := range srcs {
		if err = eng.Read(src.Name, src); err != nil {
			return nil, eng.Problems(), err
		}
	}
	return eng.Assemble(opts), eng.Problems(), nil
}

// WriteLines writes each line terminated by '\n' to w.
func WriteLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
