package pdfsed

import (
	"log/slog"
)

// Config holds user options for running a script
type Config struct {
	Debug     bool         // Draw text in red with word boxes instead of invisibly
	Force     bool         // Import PDF pages even if they already carry an OCR layer
	LayerName string       // Base name of OCR layers (page number will be appended)
	Font      FontConfig   // Font used for the text layer
	Encoding  string       // Code page of the core font, as an HTML encoding label
	BaseDir   string       // Directory relative file names are resolved against
	Producer  string       // Producer recorded in the document info
	Logger    *slog.Logger // Progress and warnings, nil discards them
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		LayerName: "OCR Text", // Will be formatted as "OCR Text (Page X)" in the final PDF
		Font:      DefaultFont,
		Encoding:  "windows-1252",
		BaseDir:   ".",
		Producer:  "pdfsed",
	}
}

// FontConfig contains font settings for OCR text rendering
type FontConfig struct {
	Name  string  // Font name (e.g., "Helvetica")
	Style string  // Font style ("", "B", "I", "BI")
	Size  float64 // Reference size words are scaled from
}

// DefaultFont sets the default font to Helvetica which is tried and tested for the OCR layer
var DefaultFont = FontConfig{
	Name:  "Helvetica",
	Style: "",
	Size:  8,
}
