package pdfsed

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/tiff"
)

const sampleDjvused = `(page 0 0 200 100
  (column 10 20 190 80
    (para 10 20 190 80
      (line 10 20 190 80
        (word 10 20 90 80
          "Hello")
        (word 110 20 190 80
          "Grüße")))))
`

func writeImage(t *testing.T, path string, img image.Image, encode func(io.Writer, image.Image) error) {
	t.Helper()
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// writeFixtures creates a scan image in PNG and TIFF, its layout and a
// mask image in dir
func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			if x > 50 && x < 150 {
				c = color.RGBA{A: 255}
			}
			img.Set(x, y, c)
		}
	}
	writeImage(t, filepath.Join(dir, "scan.png"), img, png.Encode)
	writeImage(t, filepath.Join(dir, "scan.tiff"), img, func(w io.Writer, m image.Image) error {
		return tiff.Encode(w, m, nil)
	})

	mask := image.NewGray(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			mask.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	writeImage(t, filepath.Join(dir, "mask.png"), mask, png.Encode)

	if err := os.WriteFile(filepath.Join(dir, "scan.djvused"), []byte(sampleDjvused), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func runScript(t *testing.T, dir, script string, cfg Config) ([]byte, error) {
	t.Helper()
	cfg.BaseDir = dir
	var out bytes.Buffer
	err := Run(strings.NewReader(script), &out, cfg)
	return out.Bytes(), err
}

func TestRun(t *testing.T) {
	dir := writeFixtures(t)
	tests := []struct {
		name   string
		script string
		debug  bool
	}{
		{"image and text", `create page size 200 100; draw image "scan.png"; draw text "scan.djvused";`, false},
		{"debug", `create page size 200 100; draw image "scan.png"; draw text "scan.djvused";`, true},
		{"info", `set title "Scan" author "Me" creator "pdfsed test"; create page size 100 50;`, false},
		{"tiff", `create page size 200 100; draw image "scan.tiff" dpi 144 pos 10 10;`, false},
		{"colour mask", `create page size 200 100; draw image "scan.png" mask 0xffffff;`, false},
		{"mask image", `create page size 200 100; draw image "scan.png" mask-image "mask.png";`, false},
		{"placed text", `create page size 400 200; draw text "scan.djvused" dpi 36 pos 5 5 scale 0.5;`, false},
		{"two pages", "create page size 200 100; draw text \"scan.djvused\";\ncreate page; draw image \"scan.png\";", false},
		{"unknown command", `create page size 200 100; rotate everything "now"; draw image "scan.png";`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Debug = tt.debug
			out, err := runScript(t, dir, tt.script, cfg)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if !bytes.HasPrefix(out, []byte("%PDF-")) {
				t.Errorf("output does not start with a PDF header: %q", out[:min(len(out), 16)])
			}
		})
	}
}

func TestRunTextLayer(t *testing.T) {
	dir := writeFixtures(t)
	script := "create page size 200 100; draw text \"scan.djvused\";\ncreate page; draw text \"scan.djvused\";"
	out, err := runScript(t, dir, script, DefaultConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	check, err := CheckExistingOCRLayers(out, "OCR Text")
	if err != nil {
		t.Fatalf("CheckExistingOCRLayers failed: %v", err)
	}
	if !check.HasOCRLayer {
		t.Fatalf("no OCR layer found, layers: %q", check.Layers)
	}
	want := []string{"OCR Text (Page 1)", "OCR Text (Page 2)"}
	if len(check.Layers) != len(want) {
		t.Fatalf("got layers %q, want %q", check.Layers, want)
	}
	for i := range want {
		if check.Layers[i] != want[i] {
			t.Errorf("layer %d: got %q, want %q", i, check.Layers[i], want[i])
		}
	}
}

func TestRunDrawPDF(t *testing.T) {
	dir := writeFixtures(t)
	background, err := runScript(t, dir, `create page size 200 100; draw image "scan.png";`, DefaultConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plain.pdf"), background, 0o644); err != nil {
		t.Fatal(err)
	}
	searchable, err := runScript(t, dir, `create page size 200 100; draw image "scan.png"; draw text "scan.djvused";`, DefaultConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ocr.pdf"), searchable, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runScript(t, dir, `create page size 200 100; draw pdf "plain.pdf" page 1; draw text "scan.djvused";`, DefaultConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("output does not start with a PDF header")
	}

	_, err = runScript(t, dir, `create page size 200 100; draw pdf "ocr.pdf";`, DefaultConfig())
	if !errors.Is(err, ErrExistingOCR) {
		t.Errorf("got %v, want ErrExistingOCR", err)
	}

	cfg := DefaultConfig()
	cfg.Force = true
	if _, err := runScript(t, dir, `create page size 200 100; draw pdf "ocr.pdf";`, cfg); err != nil {
		t.Errorf("forced import failed: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	dir := writeFixtures(t)
	tests := []struct {
		name    string
		script  string
		want    error
		syntax  bool
		missing bool
	}{
		{name: "no pages", script: `set title "Empty";`, want: ErrNoPages},
		{name: "draw before page", script: `draw image "scan.png";`, want: ErrNoPages},
		{name: "no size", script: `create page;`, syntax: true},
		{name: "negative size", script: `create page size -1 100;`, syntax: true},
		{name: "unknown object", script: `create circle;`, syntax: true},
		{name: "unknown property", script: `create page size 10 10; draw image "scan.png" blur 3;`, syntax: true},
		{name: "zero dpi", script: `create page size 10 10; draw text "scan.djvused" dpi 0;`, syntax: true},
		{name: "bad colour", script: `create page size 10 10; draw image "scan.png" mask white;`, syntax: true},
		{name: "bad pdf page", script: `create page size 10 10; draw pdf "x.pdf" page 0;`, syntax: true},
		{name: "missing image", script: `create page size 10 10; draw image "nope.png";`, missing: true},
		{name: "missing layout", script: `create page size 10 10; draw text "nope.djvused";`, missing: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg := DefaultConfig()
			cfg.BaseDir = dir
			err := Run(strings.NewReader(tt.script), &out, cfg)
			if err == nil {
				t.Fatal("expected an error")
			}
			if out.Len() != 0 {
				t.Errorf("got %d bytes of output on failure", out.Len())
			}
			var syntaxErr *SyntaxError
			switch {
			case tt.want != nil && !errors.Is(err, tt.want):
				t.Errorf("got %v, want %v", err, tt.want)
			case tt.syntax && !errors.As(err, &syntaxErr):
				t.Errorf("got %v, want *SyntaxError", err)
			case tt.missing && !errors.Is(err, os.ErrNotExist):
				t.Errorf("got %v, want os.ErrNotExist", err)
			}
		})
	}
}

func TestRunUnknownEncoding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Encoding = "klingon"
	err := Run(strings.NewReader("create page size 10 10;"), io.Discard, cfg)
	if err == nil {
		t.Fatal("expected an error for an unknown encoding")
	}
}

func TestTextPlacement(t *testing.T) {
	p := textPlacement{x: 10, y: 20, dpi: 144, scale: 2}
	x, y := p.point(144, 288)
	if x != 164 || y != 328 {
		t.Errorf("got (%g, %g), want (164, 328)", x, y)
	}
}

func TestEncode(t *testing.T) {
	r, err := newRunner(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	out, exact := r.encode("Grüße")
	if !exact || out != "Gr\xfc\xdfe" {
		t.Errorf("got %q, %v, want windows-1252 bytes", out, exact)
	}
	out, exact = r.encode("日本")
	if exact || out == "" {
		t.Errorf("got %q, %v, want a lossy replacement", out, exact)
	}
}
