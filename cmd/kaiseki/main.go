// kaiseki tangles literate programming sources into one output
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fractalqb/kaiseki"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
)

const longHelp = `Tangles together all lines of code from the given files into a single
output, which is written to stdout by default. The file name '-' reads
stdin, a directory reads all its regular files in lexical order. Without
files stdin is read.

Anchors:
   ##[insert]        Following lines go to the current position
   ##[label(NAME)]   Declares the insertion point NAME
   ##[before(NAME)]  Following lines go in front of NAME's content
   ##[after(NAME)]   Following lines go to the end of NAME's content`

// errProblems is returned in strict mode when the input had problems
var errProblems = errors.New("problems in input")

type rootCmd struct {
	cobra.Command
	comment  string
	output   string
	strict   bool
	encoding string
	logFile  string
	verbose  bool

	log      *slog.Logger
	closeLog func() error
}

func newRootCmd() *rootCmd {
	rc := &rootCmd{
		Command: cobra.Command{
			Use:           "kaiseki [flags] [file|-]...",
			Short:         "Literate programming preprocessing",
			Long:          longHelp,
			Version:       kaiseki.Version,
			SilenceUsage:  true,
			SilenceErrors: true,
		},
	}
	rc.SetVersionTemplate("kaiseki {{.Version}}\n")
	rc.PersistentPreRunE = rc.setup
	rc.RunE = rc.tangleFiles
	flags := rc.Flags()
	flags.StringVarP(&rc.comment, "comment", "c", "",
		"Add comments to output showing where lines of code came from, prefixed with COMMENT")
	flags.StringVarP(&rc.output, "output", "o", "",
		"Write output to file instead of stdout")
	pflags := rc.PersistentFlags()
	pflags.BoolVarP(&rc.strict, "strict", "s", false,
		"Exit with non-zero status when the input has problems")
	pflags.StringVarP(&rc.encoding, "encoding", "e", "",
		"Character encoding of the input files, e.g. latin1 (default UTF-8)")
	pflags.StringVar(&rc.logFile, "log-file", "",
		"Also write log records as JSON to this file")
	pflags.BoolVarP(&rc.verbose, "verbose", "v", false,
		"Log debug messages")
	rc.AddCommand(rc.checkCmd())
	return rc
}

func (rc *rootCmd) setup(cmd *cobra.Command, _ []string) (err error) {
	rc.log, rc.closeLog, err = newLogger(cmd.ErrOrStderr(), rc.logFile, rc.verbose)
	return err
}

// execute runs the command and closes the log file, also when the
// command failed. Cobra does not call post-run hooks after errors.
func (rc *rootCmd) execute() error {
	err := rc.Execute()
	if rc.closeLog != nil {
		if cerr := rc.closeLog(); err == nil {
			err = cerr
		}
		rc.closeLog = nil
	}
	return err
}

func newLogger(stderr io.Writer, logFile string, verbose bool) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if len(groups) == 0 && a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			},
		}),
	}
	closer := func() error { return nil }
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, nil, fmt.Errorf("log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f.Close
	}
	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

func main() {
	if err := newRootCmd().execute(); err != nil {
		if !errors.Is(err, errProblems) {
			fmt.Fprintln(os.Stderr, "kaiseki:", err)
		}
		os.Exit(1)
	}
}
