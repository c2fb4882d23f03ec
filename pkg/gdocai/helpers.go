package gdocai

import (
	"encoding/json"
	"fmt"
	"io"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/gardar/pdfsed/pkg/layout"
)

// ToJSON converts various types to a pretty-printed JSON string
// It handles both protocol buffer messages and regular Go structs
func ToJSON(data any) (string, error) {
	switch v := data.(type) {
	case proto.Message:
		jsonData, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(jsonData), nil
	default:
		jsonData, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(jsonData), nil
	}
}

// LoadDocument decodes a Document AI response saved as JSON.
// Unknown fields are ignored so dumps from newer API versions still load.
func LoadDocument(r io.Reader) (*documentaipb.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read Document AI JSON: %w", err)
	}
	doc := &documentaipb.Document{}
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode Document AI JSON: %w", err)
	}
	return doc, nil
}

// LoadPages reads a saved Document AI response and converts all its pages
func LoadPages(r io.Reader) ([]*layout.Page, error) {
	doc, err := LoadDocument(r)
	if err != nil {
		return nil, err
	}
	pages := PagesFromProto(doc)
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	return pages, nil
}

// Load reads a saved Document AI response and converts its first page
func Load(r io.Reader) (*layout.Page, error) {
	pages, err := LoadPages(r)
	if err != nil {
		return nil, err
	}
	return pages[0], nil
}

// PageImage pulls out the image data Document AI returned for a page
func PageImage(page *documentaipb.Document_Page) ([]byte, error) {
	if page == nil {
		return nil, fmt.Errorf("no documentai page provided")
	}
	image := page.GetImage()
	if image == nil {
		return nil, fmt.Errorf("no image found in documentai page")
	}
	content := image.GetContent()
	if len(content) == 0 {
		return nil, fmt.Errorf("image content is empty")
	}
	return content, nil
}
