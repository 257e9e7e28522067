// utf8 encodes, decodes, validates and sanitizes UTF-8 from the command line.
//
//	utf8 --mode encode U+2262 0x391 65
//	utf8 E2 89 A2 CE 91
//	printf 'a\x80b' | utf8 --mode sanitize
//	utf8 -i
package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/utf8-codec/internal/config"
	"github.com/wippyai/utf8-codec/internal/memory"
	"github.com/wippyai/utf8-codec/transcoder"
)

// exitError carries a process exit status without printing anything more.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		return
	}
	var ee *exitError
	if goerrors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", ee.err)
		}
		os.Exit(ee.code)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

type options struct {
	cfg         *config.Config
	viaMemory   bool
	interactive bool
	args        []string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	var (
		configPath  string
		mode        string
		format      string
		lenient     bool
		names       bool
		chunk       int
		viaMemory   bool
		interactive bool
	)

	fs := pflag.NewFlagSet("utf8", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "config", "", "path to YAML config file (default: $"+config.EnvVar+")")
	fs.StringVar(&mode, "mode", "decode", "operation: encode, decode, validate, sanitize")
	fs.StringVar(&format, "format", "text", "output format: hex, json, cbor, text")
	fs.BoolVar(&lenient, "lenient", false, "let decoded output carry surrogates and values above U+10FFFF")
	fs.BoolVar(&names, "names", false, "print Unicode names of decoded code points")
	fs.IntVar(&chunk, "chunk", 0, "feed the decoder N bytes per call (0: all at once)")
	fs.BoolVar(&viaMemory, "via-memory", false, "lower and lift through a wazero linear memory")
	fs.BoolVarP(&interactive, "interactive", "i", false, "interactive inspector")

	if err := fs.Parse(args); err != nil {
		if goerrors.Is(err, pflag.ErrHelp) {
			return nil, &exitError{code: 0}
		}
		return nil, &exitError{code: 2, err: err}
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, &exitError{code: 2, err: err}
	}

	if fs.Changed("mode") {
		cfg.Mode = mode
	}
	if fs.Changed("format") {
		cfg.Format = format
	}
	if fs.Changed("lenient") {
		cfg.Lenient = lenient
	}
	if fs.Changed("names") {
		cfg.Names = names
	}
	if fs.Changed("chunk") {
		cfg.ChunkSize = chunk
	}
	if err := cfg.Validate(); err != nil {
		return nil, &exitError{code: 2, err: err}
	}

	return &options{
		cfg:         cfg,
		viaMemory:   viaMemory,
		interactive: interactive,
		args:        fs.Args(),
	}, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	logger, err := opts.cfg.Log.Logger()
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	defer logger.Sync()
	transcoder.SetLogger(logger.Named("transcoder"))
	memory.SetLogger(logger.Named("memory"))

	if opts.interactive {
		f, ok := stdin.(*os.File)
		if !ok || !term.IsTerminal(int(f.Fd())) {
			return &exitError{code: 2, err: fmt.Errorf("interactive mode needs a terminal on stdin")}
		}
		return runInteractive(opts.cfg)
	}

	ctx := context.Background()
	var mem *memory.Scratch
	if opts.viaMemory {
		mem, err = memory.NewScratch(ctx, scratchPages)
		if err != nil {
			return err
		}
		defer mem.Close(ctx)
	}

	logger.Debug("running",
		zap.String("mode", opts.cfg.Mode),
		zap.String("format", opts.cfg.Format),
		zap.Bool("via_memory", opts.viaMemory),
		zap.Int("args", len(opts.args)))

	c := &command{cfg: opts.cfg, mem: mem, stdout: stdout}
	switch opts.cfg.Mode {
	case "encode":
		return c.encode(opts.args)
	case "decode":
		return c.decode(opts.args, stdin)
	case "validate":
		return c.validate(opts.args, stdin)
	case "sanitize":
		return c.sanitize(stdin)
	default:
		return &exitError{code: 2, err: fmt.Errorf("unknown mode %q", opts.cfg.Mode)}
	}
}
