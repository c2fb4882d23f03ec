package pdfsed

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	script := "set title \"A \\\"quoted\\\"\\ttitle\";\n" +
		"create page size 595 842 ;;\n" +
		"draw image \"scan.png\"\n  dpi 300;\n" +
		"draw text \"scan.hocr\""

	commands, err := Parse(strings.NewReader(script))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []struct {
		name string
		line int
		args []string
	}{
		{"set", 1, []string{"title", "A \"quoted\"\ttitle"}},
		{"create", 2, []string{"page", "size", "595", "842"}},
		{"draw", 3, []string{"image", "scan.png", "dpi", "300"}},
		{"draw", 5, []string{"text", "scan.hocr"}},
	}
	if len(commands) != len(want) {
		t.Fatalf("got %d commands, want %d", len(commands), len(want))
	}
	for i, w := range want {
		c := commands[i]
		if c.Name != w.name || c.Line != w.line {
			t.Errorf("command %d: got %s on line %d, want %s on line %d", i, c.Name, c.Line, w.name, w.line)
		}
		if len(c.args) != len(w.args) {
			t.Errorf("command %d: got %d args, want %d", i, len(c.args), len(w.args))
			continue
		}
		for j, a := range w.args {
			if c.args[j].text != a {
				t.Errorf("command %d arg %d: got %q, want %q", i, j, c.args[j].text, a)
			}
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		line   int
	}{
		{"unterminated string", "create page;\ndraw image \"scan.png", 2},
		{"dangling escape", "draw image \"scan\\", 1},
		{"string as command", "\n\n\"draw\" image;", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.script))
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("got %v, want *SyntaxError", err)
			}
			if syntaxErr.Line != tt.line {
				t.Errorf("got line %d, want %d", syntaxErr.Line, tt.line)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	commands, err := Parse(strings.NewReader(" ;\n; "))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(commands) != 0 {
		t.Errorf("got %d commands, want none", len(commands))
	}
}

func TestQuote(t *testing.T) {
	for _, s := range []string{"plain", `C:\scans\"one".png`, "tab\tline\nend\r", ""} {
		commands, err := Parse(strings.NewReader("x " + Quote(s)))
		if err != nil {
			t.Fatalf("Parse(%s) failed: %v", Quote(s), err)
		}
		got, err := commands[0].reader().str()
		if err != nil || got != s {
			t.Errorf("got %q, %v, want %q", got, err, s)
		}
	}
}

func TestArgReader(t *testing.T) {
	commands, err := Parse(strings.NewReader(`x 12.5 -3 7 0xFF8000 "s" atom`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	args := commands[0].reader()

	f, err := args.float()
	if err != nil || f != 12.5 {
		t.Errorf("float: got %g, %v", f, err)
	}
	f, err = args.float()
	if err != nil || f != -3 {
		t.Errorf("float: got %g, %v", f, err)
	}
	n, err := args.integer()
	if err != nil || n != 7 {
		t.Errorf("integer: got %d, %v", n, err)
	}
	c, err := args.color()
	if err != nil || c != (rgb{R: 0xff, G: 0x80, B: 0x00}) {
		t.Errorf("color: got %v, %v", c, err)
	}
	if c.String() != "0xff8000" {
		t.Errorf("color string: got %s, want 0xff8000", c)
	}
	if _, err := args.atom(); err == nil {
		t.Error("atom accepted a quoted string")
	}
	if _, err := args.str(); err == nil {
		t.Error("str accepted an atom")
	}
	if !args.done() {
		t.Error("arguments left over")
	}
	if _, err := args.float(); err == nil {
		t.Error("float past the end succeeded")
	}
}

func TestArgReaderInvalid(t *testing.T) {
	tests := []struct {
		arg  string
		read func(*argReader) error
	}{
		{"abc", func(a *argReader) error { _, err := a.float(); return err }},
		{"1.5", func(a *argReader) error { _, err := a.integer(); return err }},
		{"ff8000", func(a *argReader) error { _, err := a.color(); return err }},
		{"0x1000000", func(a *argReader) error { _, err := a.color(); return err }},
		{"0xzz", func(a *argReader) error { _, err := a.color(); return err }},
		{`"12"`, func(a *argReader) error { _, err := a.float(); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			commands, err := Parse(strings.NewReader("x " + tt.arg))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			err = tt.read(commands[0].reader())
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Errorf("got %v, want *SyntaxError", err)
			}
		})
	}
}
