package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/wippyai/reltkit/codec"
	"github.com/wippyai/reltkit/internal/sample"
	"github.com/wippyai/reltkit/relt"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	offsetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	flagsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
)

// locate returns the offset of the artifact tagged with magic: the --at flag
// if set, otherwise the last occurrence of the tag.
func locate(data, magic []byte, at int64) (int64, error) {
	if at >= 0 {
		if at > int64(len(data)) {
			return 0, errors.Errorf("offset %#x is past the end of the file (%d bytes)", at, len(data))
		}
		return at, nil
	}
	idx := bytes.LastIndex(data, magic)
	if idx < 0 {
		return 0, errors.Errorf("no %q tag found", magic)
	}
	return int64(idx), nil
}

func loadTable(fs afero.Fs, path string, opts Opts) (*relt.Table, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}
	ro := opts.options()
	ro.TableMagic = opts.tableMagic()

	off, err := locate(data, ro.TableMagic, opts.At)
	if err != nil {
		return nil, err
	}
	r := codec.NewBytesReader(data, ro.Codec)
	if _, err := r.Seek(off, codec.FromStart); err != nil {
		return nil, err
	}
	t, err := relt.ReadTable(r, ro)
	if err != nil {
		return nil, errors.Wrapf(err, "decode table at %#x", off)
	}
	return t, nil
}

// inspect decodes the tables of files concurrently and prints them in
// argument order. Each failure is reported against its file.
func inspect(fs afero.Fs, files []string, opts Opts, out io.Writer) error {
	tables := make([]*relt.Table, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		g.Go(func() error {
			tables[i], errs[i] = loadTable(fs, path, opts)
			return nil
		})
	}
	_ = g.Wait()

	color := isTerminal(out)
	failed := 0
	for i, path := range files {
		if errs[i] != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, errs[i])
			failed++
			continue
		}
		printTable(out, path, tables[i], color)
	}
	if failed > 0 {
		return errors.Errorf("%d of %d file(s) failed", failed, len(files))
	}
	return nil
}

func printTable(out io.Writer, path string, t *relt.Table, color bool) {
	style := func(s lipgloss.Style, text string) string {
		if color {
			return s.Render(text)
		}
		return text
	}

	fmt.Fprintf(out, "%s %s\n", style(headerStyle, path), fmt.Sprintf("table at %#x, %d bytes, %d section(s), %d entries",
		t.Offset, t.Length, len(t.Descriptors), len(t.Entries)))
	for i, d := range t.Descriptors {
		offsets := t.Offsets(i)
		fmt.Fprintf(out, "  section %d: entries %d..%d, %d pointer(s)\n", i, d.StartIndex, d.StartIndex+d.Count, len(offsets))
		for _, e := range t.SectionEntries(i) {
			fmt.Fprintf(out, "    %s %s", style(offsetStyle, fmt.Sprintf("%#08x", e.Base)), style(flagsStyle, fmt.Sprintf("%032b", e.Flags)))
			for _, off := range e.Offsets() {
				fmt.Fprintf(out, " %#x", off)
			}
			fmt.Fprintln(out)
		}
	}
}

func loadPool(fs afero.Fs, path string, opts Opts) ([]relt.PoolString, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}
	ro := opts.options()
	ro.PoolMagic = opts.poolMagic()

	off, err := locate(data, ro.PoolMagic, opts.At)
	if err != nil {
		return nil, err
	}
	r := codec.NewBytesReader(data, ro.Codec)
	if _, err := r.Seek(off, codec.FromStart); err != nil {
		return nil, err
	}
	strs, err := relt.ReadStringPool(r, ro)
	if err != nil {
		return nil, errors.Wrapf(err, "decode string pool at %#x", off)
	}
	return strs, nil
}

func printStrings(fs afero.Fs, path string, opts Opts, out io.Writer) error {
	strs, err := loadPool(fs, path, opts)
	if err != nil {
		return errors.Wrap(err, path)
	}
	for _, s := range strs {
		fmt.Fprintf(out, "%#08x  %q\n", s.Offset, s.Text)
	}
	return nil
}

func writeDemo(fs afero.Fs, path string, opts Opts) error {
	f, err := fs.Create(path)
	if err != nil {
		return errors.Wrap(err, "create")
	}
	if err := sample.Write(f, sample.Items(), opts.options()); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrap(f.Close(), "close")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
