// Command blobgen writes a sample blob for blobviz.
//
// The blob holds width*height records of two little-endian float32
// values, the x and y coordinate of the record, in row-major order. It
// renders as a red and green gradient with
//
//	blobviz -layout "x:4;y:4" -width <width> -height <height> <blob>
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"deedles.dev/blobviz/internal/logging"
	"deedles.dev/blobviz/internal/testgen"
	"deedles.dev/blobviz/source"
)

type config struct {
	output   string
	width    int
	height   int
	compress bool
}

func parseConfig(args []string) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("blobgen", flag.ContinueOnError)
	fs.StringVar(&cfg.output, "o", "test.bin", "output file")
	fs.IntVar(&cfg.width, "width", 512, "records per row")
	fs.IntVar(&cfg.height, "height", 512, "rows")
	fs.BoolVar(&cfg.compress, "zstd", false, "compress the output with zstd")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() != 0 {
		return config{}, fmt.Errorf("unexpected arguments: %q", fs.Args())
	}
	if (cfg.width <= 0) || (cfg.height <= 0) {
		return config{}, fmt.Errorf("width or height invalid: %vx%v", cfg.width, cfg.height)
	}

	return cfg, nil
}

func run(cfg config, log logging.Logger) error {
	data := testgen.Gradient(cfg.width, cfg.height)
	err := source.Options{Compress: cfg.compress}.WriteFile(cfg.output, data)
	if err != nil {
		return err
	}

	log.Info(
		"wrote blob",
		logging.F("file", cfg.output),
		logging.F("records", cfg.width*cfg.height),
		logging.F("bytes", len(data)),
		logging.F("zstd", cfg.compress),
	)
	return nil
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logging.New(logging.Info, logging.Text, os.Stderr)
	if err := run(cfg, log); err != nil {
		log.Error("failed", logging.F("err", err))
		os.Exit(1)
	}
}
