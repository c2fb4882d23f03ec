// gdocai is a command-line tool for processing documents with Google Document AI
// and turning the recognized text into page layouts and searchable PDFs.
//
// Each page of the response is written as a layout file (hOCR, djvused or
// plain text) to the output directory, along with the page images Document
// AI returned. A pdfsed script composing a searchable PDF from those files
// can be written as well, or run directly.
//
// Configuration:
//
// The tool requires a YAML configuration file with Google Document AI settings:
//
//	project_id: "your-gcp-project-id"
//	location: "us"
//	processor_id: "your-processor-id"
//	credentials_file: "/path/to/credentials.json"  # optional
//	mime_type: "application/pdf"                   # optional
//
// Usage:
//
//	gdocai -config config.yml -pdf input.pdf -out-dir pages [options]
//	gdocai -doc response.json -out-dir pages [options]
//
// Input (one required):
//
//	-pdf string       Document to send to Document AI (PDF, TIFF, PNG or JPEG)
//	-doc string       Saved Document AI response (JSON) to use instead of the API
//
// Output options:
//
//	-out-dir string   Directory for per-page layouts and images (default ".")
//	-to string        Layout format: hocr, djvused or txt (default hocr)
//	-text string      Path to save the text of all pages
//	-images           Save page images returned by Document AI
//	-script string    Path to save a pdfsed script composing the searchable PDF
//	-output string    Path to save the searchable PDF
//	-debug-api string Path to save the raw API response as JSON
//	-v                Verbose logging
//
// Authentication:
//
// The tool uses the credentials file from the config or the
// GOOGLE_APPLICATION_CREDENTIALS environment variable.
//
// Example:
//
//	gdocai -config config.yml -pdf document.pdf -out-dir pages -output document_ocr.pdf -debug-api response.json
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/pdfsed/pkg/convert"
	"github.com/gardar/pdfsed/pkg/gdocai"
	"github.com/gardar/pdfsed/pkg/layout"
	"github.com/gardar/pdfsed/pkg/pdfsed"
	"github.com/gardar/pdfsed/pkg/txt"
)

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file (required with -pdf)")
	pdfPath := flag.String("pdf", "", "Path to the document to process")
	docPath := flag.String("doc", "", "Path to a saved Document AI response to use instead of the API")

	outDir := flag.String("out-dir", ".", "Directory for per-page layouts and images")
	to := flag.String("to", "hocr", "Layout format: hocr, djvused or txt")
	textPath := flag.String("text", "", "Path to save the text of all pages")
	saveImages := flag.Bool("images", false, "Save the page images returned by Document AI")
	scriptPath := flag.String("script", "", "Path to save a pdfsed script composing the searchable PDF")
	pdfOcrPath := flag.String("output", "", "Path to save the searchable PDF")
	debugAPIPath := flag.String("debug-api", "", "Path to save API response as JSON for debugging purposes")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if (*pdfPath == "") == (*docPath == "") {
		fmt.Fprintln(os.Stderr, "Error: Either -pdf or -doc flag must be provided (but not both)")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *pdfPath != "" && *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config flag is required with -pdf")
		os.Exit(1)
	}
	format, err := convert.ParseFormat(*to)
	if err == nil && !format.CanSave() {
		err = fmt.Errorf("cannot write %s", format)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -to: %v\n", err)
		os.Exit(1)
	}
	if (*scriptPath != "" || *pdfOcrPath != "") && format == convert.FormatText {
		fmt.Fprintln(os.Stderr, "Error: -script and -output need -to hocr or -to djvused")
		os.Exit(1)
	}

	doc, err := loadDocument(context.Background(), *configPath, *pdfPath, *docPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *debugAPIPath != "" {
		apiJSON, err := gdocai.ToJSON(doc)
		if err != nil {
			fatal(logger, "Failed to convert API response to JSON", err)
		}
		if err := os.WriteFile(*debugAPIPath, []byte(apiJSON), 0644); err != nil {
			fatal(logger, "Failed to write API response JSON", err)
		}
		logger.Info("API response JSON saved", "path", *debugAPIPath)
	}

	pages := gdocai.PagesFromProto(doc)
	if len(pages) == 0 {
		fatal(logger, "Nothing to write", gdocai.ErrNoPages)
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fatal(logger, "Failed to create output directory", err)
	}

	ext := format.String()
	for _, page := range pages {
		path := filepath.Join(*outDir, layoutName(page, ext))
		if err := writeLayout(path, page, format); err != nil {
			fatal(logger, "Failed to write layout", err)
		}
		logger.Info("layout saved", "page", page.Num, "path", path, "words", page.WordCount())
	}

	// Page images are needed to compose a PDF from anything but a source PDF
	sourcePDF := ""
	if *pdfPath != "" && isPDF(*pdfPath) {
		if sourcePDF, err = filepath.Abs(*pdfPath); err != nil {
			fatal(logger, "Failed to resolve input path", err)
		}
	}
	if *saveImages || ((*scriptPath != "" || *pdfOcrPath != "") && sourcePDF == "") {
		for i, page := range pages {
			imgBytes, err := gdocai.PageImage(doc.GetPages()[i])
			if err != nil {
				logger.Warn("skipping page image", "page", page.Num, "error", err)
				continue
			}
			imagePath := filepath.Join(*outDir, page.Image)
			if err := os.WriteFile(imagePath, imgBytes, 0644); err != nil {
				fatal(logger, "Failed to write page image", err)
			}
			logger.Info("page image saved", "page", page.Num, "path", imagePath)
		}
	}

	if *textPath != "" {
		var texts []string
		for _, page := range pages {
			texts = append(texts, txt.Text(page))
		}
		if err := os.WriteFile(*textPath, []byte(strings.Join(texts, "\f")), 0644); err != nil {
			fatal(logger, "Failed to write text output", err)
		}
		logger.Info("document text saved", "path", *textPath)
	}

	if *scriptPath == "" && *pdfOcrPath == "" {
		return
	}
	input := *pdfPath
	if input == "" {
		input = *docPath
	}
	title := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if *scriptPath != "" {
		dir, err := filepath.Rel(filepath.Dir(*scriptPath), *outDir)
		if err != nil {
			dir, _ = filepath.Abs(*outDir)
		}
		var script bytes.Buffer
		if err := writeScript(&script, title, pages, dir, ext, sourcePDF); err != nil {
			fatal(logger, "Failed to build pdfsed script", err)
		}
		if err := os.WriteFile(*scriptPath, script.Bytes(), 0644); err != nil {
			fatal(logger, "Failed to write pdfsed script", err)
		}
		logger.Info("pdfsed script saved", "path", *scriptPath)
	}
	if *pdfOcrPath != "" {
		cfg := pdfsed.DefaultConfig()
		cfg.BaseDir = *outDir
		cfg.Producer = "gdocai"
		cfg.Logger = logger
		var script, out bytes.Buffer
		if err := writeScript(&script, title, pages, "", ext, sourcePDF); err != nil {
			fatal(logger, "Failed to build pdfsed script", err)
		}
		if err := pdfsed.Run(&script, &out, cfg); err != nil {
			fatal(logger, "Failed to compose searchable PDF", err)
		}
		if err := os.WriteFile(*pdfOcrPath, out.Bytes(), 0644); err != nil {
			fatal(logger, "Failed to write OCR'ed PDF", err)
		}
		logger.Info("OCR'ed PDF saved", "path", *pdfOcrPath)
	}
}

// loadDocument processes the input with Document AI or reads a saved response
func loadDocument(ctx context.Context, configPath, pdfPath, docPath string, logger *slog.Logger) (*documentaipb.Document, error) {
	if docPath != "" {
		f, err := os.Open(docPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return gdocai.LoadDocument(f)
	}

	cfg, err := gdocai.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(pdfPath))); t != "" && !isPDF(pdfPath) {
		cfg.MimeType = t
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	logger.Info("processing document", "path", pdfPath, "processor", cfg.ProcessorName(), "mime_type", cfg.MimeType)
	return gdocai.ProcessDocument(ctx, data, cfg)
}

func writeLayout(path string, page *layout.Page, format convert.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := convert.Save(page, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
