package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/reltkit/codec"
	"github.com/wippyai/reltkit/relt"
)

var usage = `
Usage:
  relt command [flags] FILE...

Available Commands:
  inspect      Print the relocation table of one or more files
  strings      Print the string pool of a file
  demo         Write a sample container to FILE

Flags:
`

// Opts holds the command line flags.
type Opts struct {
	At          int64
	Magic       string
	Big         bool
	UTF16       bool
	Align       int64
	Interactive bool
	Verbose     bool
}

func main() {
	opts := Opts{}

	flag.Int64Var(&opts.At, "at", -1, "Offset of the table or pool (default: last occurrence of the magic)")
	flag.StringVar(&opts.Magic, "magic", "", "Magic tag (default RELT for inspect, \"STR \" for strings)")
	flag.BoolVar(&opts.Big, "big", false, "Big-endian data")
	flag.BoolVar(&opts.UTF16, "utf16", false, "UTF-16 text")
	flag.Int64Var(&opts.Align, "align", 2, "String pool alignment")
	flag.BoolVarP(&opts.Interactive, "interactive", "i", false, "Browse the table interactively (inspect, single file)")
	flag.BoolVarP(&opts.Verbose, "verbose", "v", false, "Debug logging")
	flag.Usage = showUsage
	flag.Parse()

	logger := newLogger(opts.Verbose)
	defer func() { _ = logger.Sync() }()
	relt.SetLogger(logger)

	fs := afero.NewOsFs()
	args := flag.Args()
	if len(args) < 2 {
		showUsage()
		os.Exit(1)
	}

	var err error
	switch command, files := args[0], args[1:]; command {
	case "inspect":
		if opts.Interactive {
			if len(files) != 1 || !term.IsTerminal(int(os.Stdout.Fd())) {
				err = fmt.Errorf("interactive mode needs a terminal and exactly one file")
				break
			}
			err = runInteractive(fs, files[0], opts)
			break
		}
		err = inspect(fs, files, opts, os.Stdout)
	case "strings":
		err = printStrings(fs, files[0], opts, os.Stdout)
	case "demo":
		err = writeDemo(fs, files[0], opts)
	default:
		showUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Debug("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Fprint(os.Stderr, usage)
	flag.PrintDefaults()
}

func newLogger(verbose bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err = cfg.Build()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// options converts the flags into writer/decoder options.
func (o Opts) options() relt.Options {
	ro := relt.DefaultOptions()
	ro.Codec.Endian = codec.Little
	if o.Big {
		ro.Codec.Endian = codec.Big
	}
	if o.UTF16 {
		ro.Codec.Encoding = codec.UTF16
	}
	if o.Align > 0 {
		ro.PoolAlignment = o.Align
	}
	return ro
}

// tableMagic and poolMagic return the tag to look for.
func (o Opts) tableMagic() []byte {
	if o.Magic != "" {
		return []byte(o.Magic)
	}
	return relt.DefaultOptions().TableMagic
}

func (o Opts) poolMagic() []byte {
	if o.Magic != "" {
		return []byte(o.Magic)
	}
	return relt.DefaultOptions().PoolMagic
}
