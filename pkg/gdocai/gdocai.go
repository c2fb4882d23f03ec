// Package gdocai turns Google Document AI OCR results into layout pages.
//
// Document AI reports its recognized text as a flat list of blocks,
// paragraphs, lines and tokens per page, tied together by offsets into the
// document text. This package rebuilds the column > paragraph > line > word
// hierarchy from those offsets so the result can be saved with any of the
// layout codecs (djvused, hOCR, plain text) or drawn into a PDF.
//
// Key Types:
//
// - Config: processor coordinates and credentials, usually read from YAML
//
// Main Functions:
//
// - ProcessDocument: sends a document to Google Document AI for processing
// - PagesFromProto: converts a Document AI response into layout pages
// - LoadDocument, Load, LoadPages: read a response saved as JSON
// - PageImage: returns the page image Document AI sent back
// - ToJSON: serializes responses for debugging
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via a credentials file or GOOGLE_APPLICATION_CREDENTIALS
package gdocai

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMimeType is the MIME type of documents sent for processing
const DefaultMimeType = "application/pdf"

// ErrNoPages is returned when a Document AI response holds no pages
var ErrNoPages = errors.New("document has no pages")

// Config holds the Google Document AI settings
type Config struct {
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	ProcessorID     string `yaml:"processor_id"`
	CredentialsFile string `yaml:"credentials_file"`
	MimeType        string `yaml:"mime_type"`
}

// LoadConfig reads a YAML file into a Config
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML settings and checks the required fields
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.ProjectID == "" || cfg.Location == "" || cfg.ProcessorID == "" {
		return nil, fmt.Errorf("config requires project_id, location and processor_id")
	}
	if cfg.MimeType == "" {
		cfg.MimeType = DefaultMimeType
	}
	return &cfg, nil
}

// ProcessorName is the resource name of the configured processor
func (c *Config) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// Endpoint is the regional Document AI endpoint for the configured location
func (c *Config) Endpoint() string {
	return fmt.Sprintf("%s-documentai.googleapis.com:443", c.Location)
}
