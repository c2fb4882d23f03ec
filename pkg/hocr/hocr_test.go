package hocr

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/gardar/pdfsed/pkg/layout"
)

const sampleHOCR = `<!DOCTYPE html>
<html>
<head><title></title></head>
<body>
<div class='ocr_page' id='page_1' title='image "scan.png"; bbox 0 0 1000 2000; ppageno 3'>
 <div class='ocr_carea' title="bbox 100 100 900 300">
  <p class='ocr_par' lang='eng' title="bbox 100 100 900 300">
   <span class='ocr_line' title="bbox 100 100 900 200; baseline 0 -5">
    <span class='ocrx_word' title='bbox 100 100 400 200; x_wconf 95'>Hello</span>
    <span class='ocrx_word' title='bbox 500 100 900 200; x_wconf 91'><strong>World</strong></span>
   </span>
   <span class='ocr_line' title="bbox 100 220 900 300">
    <span class='ocrx_word' title='bbox 100 220 900 300'>   </span>
   </span>
  </p>
 </div>
 <div class='ocr_carea' title="bbox 0 0 10 10"><p class='ocr_par' title="bbox 0 0 10 10"></p></div>
</div>
</body>
</html>
`

func samplePage() *layout.Page {
	return &layout.Page{
		Num:   3,
		Image: "scan.png",
		BBox:  layout.NewBBox(0, 0, 1000, 2000),
		Columns: []*layout.Column{{
			BBox: layout.NewBBox(100, 1700, 900, 1900),
			Paragraphs: []*layout.Paragraph{{
				BBox: layout.NewBBox(100, 1700, 900, 1900),
				Lines: []*layout.Line{{
					BBox: layout.NewBBox(100, 1800, 900, 1900),
					Words: []*layout.Word{
						{BBox: layout.NewBBox(100, 1800, 400, 1900), Text: "Hello"},
						{BBox: layout.NewBBox(500, 1800, 900, 1900), Text: "World"},
					},
				}},
			}},
		}},
	}
}

func TestLoad(t *testing.T) {
	page, warnings, err := Load(strings.NewReader(sampleHOCR))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if !reflect.DeepEqual(page, samplePage()) {
		t.Errorf("Load() tree mismatch")
		layout.Walk(page, func(n layout.Node, depth int) bool {
			t.Logf("%s%s %v", strings.Repeat("  ", depth), n.Kind(), n.Bounds())
			return true
		})
	}
}

func TestLoadPrunesBlankLines(t *testing.T) {
	page, _, err := Load(strings.NewReader(sampleHOCR))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got := len(page.Columns); got != 1 {
		t.Fatalf("got %d columns, want 1", got)
	}
	if got := len(page.Columns[0].Paragraphs[0].Lines); got != 1 {
		t.Errorf("got %d lines, want 1: whitespace-only line must be dropped", got)
	}
}

func TestLoadPrunesBeforeReadingBBox(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			"line with whitespace word",
			`<div class="ocr_carea" title="bbox 0 0 10 10"><p class="ocr_par" title="bbox 0 0 10 10">
<span class="ocr_line"><span class="ocrx_word" title="bbox 0 0 5 5"> </span></span>
<span class="ocr_line" title="bbox 0 0 10 5"><span class="ocrx_word" title="bbox 0 0 5 5">a</span></span>
</p></div>`,
		},
		{
			"empty paragraph",
			`<div class="ocr_carea" title="bbox 0 0 10 10"><p class="ocr_par"></p>
<p class="ocr_par" title="bbox 0 0 10 10"><span class="ocr_line" title="bbox 0 0 10 5"><span class="ocrx_word" title="bbox 0 0 5 5">a</span></span></p>
</div>`,
		},
		{
			"empty area",
			`<div class="ocr_carea"><p class="ocr_par" title="bbox 0 0 1 2 3"></p></div>
<div class="ocr_carea" title="bbox 0 0 10 10"><p class="ocr_par" title="bbox 0 0 10 10"><span class="ocr_line" title="bbox 0 0 10 5"><span class="ocrx_word" title="bbox 0 0 5 5">a</span></span></p></div>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `<div class="ocr_page" title="bbox 0 0 10 10">` + tt.input + `</div>`
			page, _, err := Load(strings.NewReader(src))
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			if got := page.WordCount(); got != 1 {
				t.Errorf("got %d words, want 1", got)
			}
			if len(page.Columns) != 1 || len(page.Columns[0].Paragraphs) != 1 || len(page.Columns[0].Paragraphs[0].Lines) != 1 {
				t.Errorf("blank containers were not pruned")
			}
		})
	}
}

func TestLoadTesseractLineClasses(t *testing.T) {
	src := `<div class="ocr_page" title="bbox 0 0 100 100">
<div class="ocr_carea" title="bbox 0 0 100 100"><p class="ocr_par" title="bbox 0 0 100 100">
<span class="ocr_header" title="bbox 0 0 100 10"><span class="ocrx_word" title="bbox 0 0 50 10">Title</span></span>
<span class="ocr_caption" title="bbox 0 20 100 30"><span class="ocrx_word" title="bbox 0 20 50 30">Fig</span></span>
<span class="ocr_textfloat" title="bbox 0 40 100 50"><span class="ocrx_word" title="bbox 0 40 50 50">Float</span></span>
</p></div></div>`
	page, _, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	lines := page.Columns[0].Paragraphs[0].Lines
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if page.Num != DefaultPageNum || page.Image != DefaultPageImage {
		t.Errorf("defaults = %d %q", page.Num, page.Image)
	}
}

func TestLoadPageInfoWarnings(t *testing.T) {
	src := `<div class="ocr_page" title='image ""; ppageno x; bbox 0 0 10 10; scan_res 300 300'></div>`
	page, warnings, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if page.Image != DefaultPageImage {
		t.Errorf("Image = %q, want %q", page.Image, DefaultPageImage)
	}
	if page.Num != DefaultPageNum {
		t.Errorf("Num = %d, want %d", page.Num, DefaultPageNum)
	}
	if len(warnings) != 3 {
		t.Errorf("got %d warnings, want 3: %v", len(warnings), warnings)
	}
}

func TestLoadPageInfoWhitespace(t *testing.T) {
	src := "<div class=\"ocr_page\" title='image\t\"my scan.png\";ppageno\t3; bbox\t0 0 10 10'></div>"
	page, warnings, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if page.Num != 3 {
		t.Errorf("Num = %d, want 3", page.Num)
	}
	if page.Image != "my scan.png" {
		t.Errorf("Image = %q, want %q", page.Image, "my scan.png")
	}
	if page.BBox != layout.NewBBox(0, 0, 10, 10) {
		t.Errorf("BBox = %v", page.BBox)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"no page", `<html><body><p>nothing</p></body></html>`, ErrInvalidFormat},
		{"page without title", `<div class="ocr_page"></div>`, ErrMissingBBox},
		{"page without bbox", `<div class="ocr_page" title="ppageno 1"></div>`, ErrMissingBBox},
		{"short page bbox", `<div class="ocr_page" title="bbox 0 0 10"></div>`, ErrInvalidBBox},
		{"float bbox", `<div class="ocr_page" title="bbox 0 0 10.5 10"></div>`, ErrInvalidBBox},
		{
			"word without title",
			`<div class="ocr_page" title="bbox 0 0 10 10"><div class="ocr_carea" title="bbox 0 0 1 1">
<p class="ocr_par" title="bbox 0 0 1 1"><span class="ocr_line" title="bbox 0 0 1 1">
<span class="ocrx_word">x</span></span></p></div></div>`,
			ErrMissingBBox,
		},
		{
			"area with long bbox",
			`<div class="ocr_page" title="bbox 0 0 10 10"><div class="ocr_carea" title="bbox 0 0 1 1 1">
<p class="ocr_par" title="bbox 0 0 1 1"><span class="ocr_line" title="bbox 0 0 1 1">
<span class="ocrx_word" title="bbox 0 0 1 1">x</span></span></p></div></div>`,
			ErrInvalidBBox,
		},
		{
			"line without title",
			`<div class="ocr_page" title="bbox 0 0 10 10"><div class="ocr_carea" title="bbox 0 0 1 1">
<p class="ocr_par" title="bbox 0 0 1 1"><span class="ocr_line">
<span class="ocrx_word" title="bbox 0 0 1 1">x</span></span></p></div></div>`,
			ErrMissingBBox,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, _, err := Load(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if page != nil {
				t.Errorf("Load() returned a partial page")
			}
		})
	}
}

func TestLoadPages(t *testing.T) {
	src := `<body>
<div class="ocr_page" title="bbox 0 0 10 10; ppageno 0"></div>
<div class="ocr_page" title="bbox 0 0 20 20; ppageno 1"></div>
</body>`
	pages, _, err := LoadPages(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadPages() failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if pages[1].Num != 1 || pages[1].BBox.X2 != 20 {
		t.Errorf("second page = %+v", pages[1])
	}
}

func TestLoadLatin1(t *testing.T) {
	src := "<html><head><meta http-equiv=\"Content-Type\" content=\"text/html; charset=iso-8859-1\"></head><body>" +
		"<div class=\"ocr_page\" title=\"bbox 0 0 10 10\"><div class=\"ocr_carea\" title=\"bbox 0 0 5 5\">" +
		"<p class=\"ocr_par\" title=\"bbox 0 0 5 5\"><span class=\"ocr_line\" title=\"bbox 0 0 5 5\">" +
		"<span class=\"ocrx_word\" title=\"bbox 0 0 5 5\">Gr\xfc\xdfe</span></span></p></div></div></body></html>"
	page, warnings, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if got := page.Columns[0].Paragraphs[0].Lines[0].Words[0].Text; got != "Grüße" {
		t.Errorf("word = %q, want %q", got, "Grüße")
	}
}

func TestSave(t *testing.T) {
	var buf bytes.Buffer
	if err := Save(samplePage(), &buf); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>\n<html>",
		`<meta http-equiv="Content-Type" content="text/html; charset=utf-8"/>`,
		`<meta name="ocr-capabilities" content="ocr_page ocr_carea ocr_par ocr_line ocrx_word"/>`,
		`<div class="ocr_page" title="image &#34;scan.png&#34;; bbox 0 0 1000 2000; ppageno 3">`,
		`<div class="ocr_carea" title="bbox 100 100 900 300">`,
		`<span class="ocr_line" title="bbox 100 100 900 200"><span class="ocrx_word" title="bbox 100 100 400 200">Hello</span> <span`,
		"\n          <span class=\"ocr_line\"",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Save() output lacks %q\n%s", want, out)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	want := samplePage()
	want.Columns[0].Paragraphs[0].Lines[0].Words[1].Text = `<&"odd'>`

	var buf bytes.Buffer
	if err := Save(want, &buf); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	got, _, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip changed the page:\n%s", buf.String())
	}
}

func TestParseBBox(t *testing.T) {
	tests := []struct {
		chunk   string
		want    layout.BBox
		wantErr bool
	}{
		{"bbox 1 2 3 4", layout.NewBBox(1, 2, 3, 4), false},
		{"  bbox  10 20  30 40 ", layout.NewBBox(10, 20, 30, 40), false},
		{"bbox 1 2 3", layout.BBox{}, true},
		{"bbox 1 2 3 4 5", layout.BBox{}, true},
		{"box 1 2 3 4", layout.BBox{}, true},
		{"bbox 1 2 3 x", layout.BBox{}, true},
		{"", layout.BBox{}, true},
	}
	for _, tt := range tests {
		got, err := ParseBBox(tt.chunk)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBBox(%q) error = %v, wantErr %v", tt.chunk, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidBBox) {
			t.Errorf("ParseBBox(%q) error = %v, want ErrInvalidBBox", tt.chunk, err)
		}
		if got != tt.want {
			t.Errorf("ParseBBox(%q) = %v, want %v", tt.chunk, got, tt.want)
		}
	}
}

func TestFormatBBoxFlips(t *testing.T) {
	if got := FormatBBox(layout.NewBBox(10, 1700, 90, 1900), 2000); got != "bbox 10 100 90 300" {
		t.Errorf("FormatBBox() = %q", got)
	}
}

func TestParseTitle(t *testing.T) {
	got := ParseTitle("bbox 1 2 3 4; x_wconf 95;;baseline 0.1 -3")
	want := map[string][]string{
		"bbox":     {"1", "2", "3", "4"},
		"x_wconf":  {"95"},
		"baseline": {"0.1", "-3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTitle() = %v, want %v", got, want)
	}
}
