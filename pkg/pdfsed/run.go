package pdfsed

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Run interprets a pdfsed script and writes the composed PDF to out.
// Nothing is written when the script fails or creates no page.
func Run(script io.Reader, out io.Writer, cfg Config) error {
	commands, err := Parse(script)
	if err != nil {
		return err
	}
	r, err := newRunner(cfg)
	if err != nil {
		return err
	}
	for _, cmd := range commands {
		if err := r.exec(cmd); err != nil {
			return err
		}
		if r.pdf.Err() {
			return fmt.Errorf("line %d: %w", cmd.Line, r.pdf.Error())
		}
	}
	if r.pages == 0 {
		return ErrNoPages
	}

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	r.log.Info("PDF composed", "pages", r.pages, "bytes", buf.Len())
	if _, err := out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// runner holds the document being composed
type runner struct {
	cfg      Config
	log      *slog.Logger
	pdf      *fpdf.Fpdf
	importer *gofpdi.Importer
	encoding encoding.Encoding

	pages  int
	pageW  float64
	pageH  float64
	images int
}

func newRunner(cfg Config) (*runner, error) {
	if cfg.Font.Name == "" {
		cfg.Font = DefaultFont
	}
	if cfg.LayerName == "" {
		cfg.LayerName = DefaultConfig().LayerName
	}
	if cfg.Encoding == "" {
		cfg.Encoding = DefaultConfig().Encoding
	}
	enc, err := htmlindex.Get(cfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("unknown text encoding %q: %w", cfg.Encoding, err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(true)
	if cfg.Producer != "" {
		pdf.SetProducer(cfg.Producer, true)
	}
	return &runner{
		cfg:      cfg,
		log:      logger,
		pdf:      pdf,
		importer: gofpdi.NewImporter(),
		encoding: enc,
	}, nil
}

func (r *runner) exec(cmd Command) error {
	args := cmd.reader()
	switch cmd.Name {
	case "set":
		return r.setInfo(args)
	case "create":
		obj, err := args.atom()
		if err != nil {
			return err
		}
		if obj != "page" {
			return args.errorf("unknown object %q", obj)
		}
		return r.createPage(args)
	case "draw":
		obj, err := args.atom()
		if err != nil {
			return err
		}
		if r.pages == 0 {
			return fmt.Errorf("line %d: draw %s: %w yet", cmd.Line, obj, ErrNoPages)
		}
		switch obj {
		case "image":
			return r.drawImage(args)
		case "text":
			return r.drawText(args)
		case "pdf":
			return r.drawPDF(args)
		default:
			return args.errorf("unknown object %q", obj)
		}
	default:
		r.log.Warn("unknown pdfsed command, skipping", "line", cmd.Line, "command", cmd.Name)
		return nil
	}
}

// setInfo handles: set title "…" author "…" creator "…"
func (r *runner) setInfo(args *argReader) error {
	for !args.done() {
		key, err := args.atom()
		if err != nil {
			return err
		}
		value, err := args.str()
		if err != nil {
			return err
		}
		switch key {
		case "title":
			r.pdf.SetTitle(value, true)
		case "author":
			r.pdf.SetAuthor(value, true)
		case "creator":
			r.pdf.SetCreator(value, true)
		default:
			return args.errorf("unknown document property %q", key)
		}
		r.log.Debug("document property", "key", key, "value", value)
	}
	return nil
}

// createPage handles: create page [size W H] [angle A]
func (r *runner) createPage(args *argReader) error {
	w, h := r.pageW, r.pageH
	var angle float64
	for !args.done() {
		prop, err := args.atom()
		if err != nil {
			return err
		}
		switch prop {
		case "size":
			if w, err = args.float(); err != nil {
				return err
			}
			if h, err = args.float(); err != nil {
				return err
			}
		case "angle":
			if angle, err = args.float(); err != nil {
				return err
			}
		default:
			return args.errorf("unknown page property %q", prop)
		}
	}
	if !(w > 0 && h > 0) {
		return args.errorf("page size must be positive, got %g × %g", w, h)
	}

	r.pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	r.pages++
	r.pageW, r.pageH = w, h
	r.log.Info("page created", "page", r.pages, "width", w, "height", h)
	if angle != 0 {
		r.log.Warn("page rotation is not supported, ignoring", "page", r.pages, "angle", angle)
	}
	return nil
}

// resolve makes a script file name relative to the base directory
func (r *runner) resolve(name string) string {
	if filepath.IsAbs(name) || r.cfg.BaseDir == "" {
		return name
	}
	return filepath.Join(r.cfg.BaseDir, name)
}
