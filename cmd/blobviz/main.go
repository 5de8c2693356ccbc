// Command blobviz renders a raw binary blob as an image.
//
// Usage:
//
//	blobviz [flags] <blob>
//
// The blob is interpreted as records laid out as described by the
// -layout flag, such as "x:4;y:4" for records of two 4 byte floats.
// Up to three channels are mapped to red, green and blue in order.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"deedles.dev/blobviz"
	"deedles.dev/blobviz/internal/logging"
	"deedles.dev/blobviz/layout"
	"deedles.dev/blobviz/source"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type config struct {
	input      string
	output     string
	layout     string
	width      int
	height     int
	permissive bool
	strict     bool
	stats      bool
	maxSize    int64
	logLevel   logging.Level
	logFormat  logging.Format
}

func parseConfig(args []string, lookup func(string) (string, bool)) (config, error) {
	var cfg config
	var logLevel, logFormat string

	fs := flag.NewFlagSet("blobviz", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %v [flags] <blob>\n", fs.Name())
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.output, "o", envString(lookup, "BLOBVIZ_OUTPUT", ""), "output image (.png, .tif, .tiff or .bmp), defaults to <blob>.png")
	fs.StringVar(&cfg.layout, "layout", envString(lookup, "BLOBVIZ_LAYOUT", "x:4;y:4"), "record layout as name:width clauses separated by ';'")
	fs.IntVar(&cfg.width, "width", envInt(lookup, "BLOBVIZ_WIDTH", 512), "image width")
	fs.IntVar(&cfg.height, "height", envInt(lookup, "BLOBVIZ_HEIGHT", 512), "image height")
	fs.BoolVar(&cfg.permissive, "permissive", false, "skip layout clauses that don't name a known channel type")
	fs.BoolVar(&cfg.strict, "strict", false, "fail if a channel has no range to normalize over")
	fs.BoolVar(&cfg.stats, "stats", false, "log per-channel statistics")
	fs.Int64Var(&cfg.maxSize, "max-size", source.DefaultMaxSize, "maximum blob size in bytes after decompression")
	fs.StringVar(&logLevel, "log-level", envString(lookup, "BLOBVIZ_LOG_LEVEL", "info"), "log level (debug|info|warn|error)")
	fs.StringVar(&logFormat, "log-format", envString(lookup, "BLOBVIZ_LOG_FORMAT", "text"), "log format (text|json)")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return config{}, errors.New("expected exactly one blob")
	}
	cfg.input = fs.Arg(0)
	if cfg.output == "" {
		cfg.output = cfg.input + ".png"
	}

	if (cfg.width <= 0) || (cfg.height <= 0) {
		return config{}, fmt.Errorf("width or height invalid: %vx%v", cfg.width, cfg.height)
	}

	var err error
	cfg.logLevel, err = logging.ParseLevel(logLevel)
	if err != nil {
		return config{}, err
	}
	cfg.logFormat, err = logging.ParseFormat(logFormat)
	if err != nil {
		return config{}, err
	}

	return cfg, nil
}

func envInt(lookup func(string) (string, bool), key string, def int) int {
	if val, ok := lookup(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func envString(lookup func(string) (string, bool), key, def string) string {
	if val, ok := lookup(key); ok {
		return val
	}
	return def
}

type encoder func(io.Writer, image.Image) error

func encoderFor(path string) (encoder, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return png.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	case ".bmp":
		return bmp.Encode, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", ext)
	}
}

func run(cfg config, log logging.Logger) error {
	enc, err := encoderFor(cfg.output)
	if err != nil {
		return err
	}

	l, err := layout.ParseOptions{Permissive: cfg.permissive}.Parse(cfg.layout)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}
	log.Debug("parsed layout", logging.F("layout", l), logging.F("stride", l.Stride()))

	data, err := source.Options{MaxSize: cfg.maxSize}.ReadFile(cfg.input)
	if err != nil {
		return fmt.Errorf("read %q: %w", cfg.input, err)
	}

	d, err := blobviz.Decode(data, l)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	log.Info(
		"decoded blob",
		logging.F("file", cfg.input),
		logging.F("bytes", len(data)),
		logging.F("records", d.Records()),
		logging.F("ignored", len(data)%d.Stride()),
	)

	if n := cfg.width * cfg.height; n > d.Records() {
		log.Warn("image has more pixels than the blob has records", logging.F("pixels", n), logging.F("records", d.Records()))
	}

	if err := d.CheckDegenerate(); err != nil {
		if cfg.strict {
			return err
		}
		log.Warn("channel will render as 0", logging.F("err", err))
	}

	if cfg.stats {
		for _, s := range d.Stats() {
			log.Info(
				"channel stats",
				logging.F("role", s.Role),
				logging.F("name", s.Channel.Name),
				logging.F("type", s.Channel.Type),
				logging.F("count", s.Count),
				logging.F("min", s.Min),
				logging.F("max", s.Max),
				logging.F("mean", s.Mean),
				logging.F("stddev", s.StdDev),
			)
		}
	}

	img, err := d.Image(cfg.width, cfg.height)
	if err != nil {
		return err
	}

	file, err := os.Create(cfg.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer file.Close()

	err = enc(file, img)
	if err != nil {
		return fmt.Errorf("encode %q: %w", cfg.output, err)
	}
	err = file.Close()
	if err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	log.Info("wrote image", logging.F("file", cfg.output), logging.F("width", cfg.width), logging.F("height", cfg.height))
	return nil
}

func main() {
	cfg, err := parseConfig(os.Args[1:], os.LookupEnv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logging.New(cfg.logLevel, cfg.logFormat, os.Stderr)
	if err := run(cfg, log); err != nil {
		log.Error("failed", logging.F("err", err))
		os.Exit(1)
	}
}
