package pdfsed

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// drawPDF handles: draw pdf "file.pdf" [page N]
//
// The page is scaled to the width of the current page and aligned with
// its top edge.
func (r *runner) drawPDF(args *argReader) error {
	name, err := args.str()
	if err != nil {
		return err
	}
	pageNum := 1
	for !args.done() {
		prop, err := args.atom()
		if err != nil {
			return err
		}
		switch prop {
		case "page":
			if pageNum, err = args.integer(); err != nil {
				return err
			}
		default:
			return args.errorf("unknown pdf property %q", prop)
		}
	}
	if pageNum < 1 {
		return args.errorf("page numbers start at 1, got %d", pageNum)
	}

	path := r.resolve(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read PDF: %w", err)
	}

	check, err := CheckExistingOCRLayers(data, r.cfg.LayerName)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range check.Warnings {
		r.log.Warn(w, "file", path)
	}
	r.log.Debug("layers found", "file", path, "layers", check.Layers, "context", ocgContext(data))
	if check.HasOCRLayer {
		if !r.cfg.Force {
			return fmt.Errorf("%s: layer %q: %w", path, check.OCRLayerName, ErrExistingOCR)
		}
		r.log.Warn("importing PDF with an existing OCR layer", "file", path, "layer", check.OCRLayerName)
	}

	if err := r.importPage(data, pageNum); err != nil {
		return fmt.Errorf("failed to import page %d of %s: %w", pageNum, path, err)
	}
	r.log.Info("PDF page drawn", "file", path, "page", pageNum)
	return nil
}

// importPage places a page of a PDF on the current page. The importer
// panics on malformed input, which is turned into an error.
func (r *runner) importPage(data []byte, pageNum int) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	rs := io.ReadSeeker(bytes.NewReader(data))
	tpl := r.importer.ImportPageFromStream(r.pdf, &rs, pageNum, "/MediaBox")
	r.importer.UseImportedTemplate(r.pdf, tpl, 0, 0, r.pageW, 0)
	return nil
}
