// pdfsed composes a searchable PDF from a pdfsed script.
//
// The script places page images, imported PDF pages and invisible OCR text
// layers on the pages of a new document. File names in the script are
// relative to the directory of the script.
//
// Usage:
//
//	pdfsed [options] [script [output]]
//
// The script defaults to stdin, the PDF is written to stdout unless an
// output path is given.
//
// Options:
//
//	-debug            Draw the text layer in red with word boxes
//	-force            Import PDF pages that already carry an OCR layer
//	-layer string     Base name of the OCR layers (default "OCR Text")
//	-encoding string  Code page of the text layer font (default windows-1252)
//	-overwrite        Overwrite the output file if it exists
//	-v                Verbose logging
//
// Example script:
//
//	set title "Letter";
//	create page size 595 842;
//	draw image "page1.jpg" dpi 300;
//	draw text "page1.hocr" dpi 300;
//
// Example:
//
//	pdfsed letter.pdfsed letter.pdf
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gardar/pdfsed/pkg/pdfsed"
)

func main() {
	debug := flag.Bool("debug", false, "Draw the text layer in red with word boxes")
	force := flag.Bool("force", false, "Import PDF pages even if an OCR layer is already detected")
	layerName := flag.String("layer", pdfsed.DefaultConfig().LayerName, "Base name of the OCR layers")
	encoding := flag.String("encoding", pdfsed.DefaultConfig().Encoding, "Code page of the text layer font")
	overwriteOutput := flag.Bool("overwrite", false, "Overwrite the output PDF if it already exists")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] [script [output]]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 2 {
		flag.Usage()
		os.Exit(1)
	}
	scriptPath, outPath := flag.Arg(0), flag.Arg(1)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if outPath != "" {
		if _, err := os.Stat(outPath); err == nil && !*overwriteOutput {
			fmt.Fprintf(os.Stderr, "Output file %s already exists. Use -overwrite to overwrite.\n", outPath)
			os.Exit(1)
		}
	}

	cfg := pdfsed.DefaultConfig()
	cfg.Debug = *debug
	cfg.Force = *force
	cfg.LayerName = *layerName
	cfg.Encoding = *encoding
	cfg.Logger = logger

	var script io.Reader = os.Stdin
	if scriptPath != "" && scriptPath != "-" {
		f, err := os.Open(scriptPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		script = f
		cfg.BaseDir = filepath.Dir(scriptPath)
	}

	if outPath == "" || outPath == "-" {
		if err := pdfsed.Run(script, os.Stdout, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Run only writes once the whole document is composed
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	err = pdfsed.Run(script, out, cfg)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(outPath)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("searchable PDF created", "output", outPath)
}
