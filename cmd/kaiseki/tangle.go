package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fractalqb/kaiseki"
	"github.com/spf13/cobra"
)

func (rc *rootCmd) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file|-]...",
		Short: "Report problems in the input without writing output",
		RunE: func(cmd *cobra.Command, files []string) error {
			eng, err := rc.read(files)
			if err != nil {
				return err
			}
			n := len(eng.Problems())
			fmt.Fprintf(cmd.OutOrStdout(), "%d problems\n", n)
			if n > 0 {
				return fmt.Errorf("%w: %d", errProblems, n)
			}
			return nil
		},
	}
}

func (rc *rootCmd) tangleFiles(cmd *cobra.Command, files []string) (err error) {
	eng, err := rc.read(files)
	if err != nil {
		return err
	}
	lines := eng.Assemble(kaiseki.Options{Comment: rc.comment})
	var out io.Writer = cmd.OutOrStdout()
	if rc.output != "" {
		f, ferr := os.Create(rc.output)
		if ferr != nil {
			return ferr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}
	if err = kaiseki.WriteLines(out, lines); err != nil {
		return err
	}
	n := len(eng.Problems())
	rc.log.Debug("tangled", "lines", len(lines), "problems", n)
	if rc.strict && n > 0 {
		return fmt.Errorf("%w: %d", errProblems, n)
	}
	return nil
}

func (rc *rootCmd) read(files []string) (*kaiseki.Engine, error) {
	enc, err := kaiseki.LookupEncoding(rc.encoding)
	if err != nil {
		return nil, err
	}
	srcs, err := kaiseki.OpenSources(files, enc)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, s := range srcs {
			s.Close()
		}
	}()
	eng := &kaiseki.Engine{OnProblem: rc.logProblem}
	for _, src := range srcs {
		rc.log.Debug("reading", "source", src.Name)
		if err = eng.Read(src.Name, src); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

func (rc *rootCmd) logProblem(p *kaiseki.Problem) {
	args := []any{"source", p.Source, "line", p.Line}
	if p.Anchor != "" {
		args = append(args, "anchor", p.Anchor)
	}
	if p.Warning() {
		rc.log.Warn(p.Kind.Error(), args...)
	} else {
		rc.log.Error(p.Kind.Error(), args...)
	}
}
