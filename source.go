package kaiseki

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// StdinName is the command line name for standard input.
const StdinName = "-"

// Source is a named input for an Engine.
type Source struct {
	Name string
	io.Reader
}

// NewSourceString creates a source that reads text.
func NewSourceString(name, text string) Source {
	return Source{Name: name, Reader: strings.NewReader(text)}
}

// Close closes the source's reader if it is an io.Closer. Standard input
// is never closed.
func (s Source) Close() error {
	if s.Reader == os.Stdin {
		return nil
	}
	if c, ok := s.Reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// LookupEncoding finds a character encoding by its name as used in
// HTML, e.g. "latin1", "windows-1252" or "shift_jis". The empty name and
// "utf-8" return a nil encoding, i.e. input is used as is.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("encoding '%s': %w", name, err)
	}
	if enc == unicode.UTF8 || enc == encoding.Nop {
		return nil, nil
	}
	return enc, nil
}

// OpenSources opens all named files in order. The name "-" is standard
// input, named "<stdin>". A directory is replaced by its regular files
// not starting with '.' sorted by name. With no names standard input is
// used. If enc is not nil all input is decoded from enc to UTF-8.
//
// On error all sources opened so far are closed.
func OpenSources(names []string, enc encoding.Encoding) (srcs []Source, err error) {
	if len(names) == 0 {
		names = []string{StdinName}
	}
	defer func() {
		if err != nil {
			for _, s := range srcs {
				s.Close()
			}
			srcs = nil
		}
	}()
	for _, name := range names {
		files, err := expandDir(name)
		if err != nil {
			return srcs, err
		}
		for _, f := range files {
			src, err := OpenSource(f, enc)
			if err != nil {
				return srcs, err
			}
			srcs = append(srcs, src)
		}
	}
	return srcs, nil
}

// OpenSource opens a single file or standard input for name "-".
func OpenSource(name string, enc encoding.Encoding) (Source, error) {
	var src Source
	if name == StdinName {
		src = Source{Name: "<stdin>", Reader: os.Stdin}
	} else {
		f, err := os.Open(name)
		if err != nil {
			return src, fmt.Errorf("could not open file '%s': %w", name, err)
		}
		src = Source{Name: name, Reader: f}
	}
	if enc != nil {
		src.Reader = decodingReader{
			Reader: transform.NewReader(src.Reader, enc.NewDecoder()),
			src:    src.Reader,
		}
	}
	return src, nil
}

// decodingReader keeps the underlying reader to close it
type decodingReader struct {
	io.Reader
	src io.Reader
}

func (d decodingReader) Close() error {
	if d.src == os.Stdin {
		return nil
	}
	if c, ok := d.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func expandDir(name string) ([]string, error) {
	if name == StdinName {
		return []string{name}, nil
	}
	st, err := os.Stat(name)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("could not open file '%s': %w", name, err)
	case err != nil:
		return nil, err
	case !st.IsDir():
		return []string{name}, nil
	}
	entries, err := os.ReadDir(name)
	if err != nil {
		return nil, fmt.Errorf("could not read directory '%s': %w", name, err)
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(name, e.Name()))
	}
	return files, nil
}
