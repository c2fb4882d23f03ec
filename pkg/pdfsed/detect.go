package pdfsed

import (
	"fmt"
	"regexp"
	"strings"
)

// A PDF literal string may contain escaped parentheses, hex strings may
// contain whitespace.
const (
	literalString = `\(((?:\\.|[^\\)])*)\)`
	hexString     = `<([0-9A-Fa-f\s]*)>`
)

var ocgPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)/Type\s*/OCG\s*/Name\s*` + literalString),
	regexp.MustCompile(`(?s)/Type\s*/OCG\s*/Name\s*` + hexString),
	regexp.MustCompile(`(?s)/Name\s*` + literalString + `\s*/Type\s*/OCG`),
	regexp.MustCompile(`(?s)/Name\s*` + hexString + `\s*/Type\s*/OCG`),
}

// detectPDFLayers finds the names of optional content groups in the raw
// PDF data. Names inside compressed object streams are not found.
func detectPDFLayers(pdfData []byte) ([]string, error) {
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("empty PDF data")
	}

	var layers []string
	seen := make(map[string]bool)
	for i, regex := range ocgPatterns {
		for _, match := range regex.FindAllSubmatch(pdfData, -1) {
			var raw []byte
			if i%2 == 0 {
				raw = unescapePDFString(match[1])
			} else {
				raw = decodeHexString(match[1])
			}
			name := decodeTextString(raw)
			if !seen[name] {
				seen[name] = true
				layers = append(layers, name)
			}
		}
	}
	return layers, nil
}

// LayerCheckResult contains the results of checking for OCR layers
type LayerCheckResult struct {
	Layers       []string // All detected layers
	HasOCRLayer  bool     // True if the specified OCR layer exists
	OCRLayerName string   // Name of the detected OCR layer (if any)
	Warnings     []string // Any warnings about potential OCR layers
}

// CheckExistingOCRLayers checks for existing OCR layers in a PDF. A layer
// named ocrLayerName, with or without a " (Page N)" suffix, counts as OCR;
// other layers mentioning OCR produce a warning.
func CheckExistingOCRLayers(pdfData []byte, ocrLayerName string) (LayerCheckResult, error) {
	result := LayerCheckResult{}

	layers, err := detectPDFLayers(pdfData)
	if err != nil {
		return result, fmt.Errorf("cannot analyze layers: %w", err)
	}
	result.Layers = layers

	pageLayerPattern := regexp.MustCompile(fmt.Sprintf(`^%s\s*\(Page\s*\d+`, regexp.QuoteMeta(ocrLayerName)))
	for _, layer := range layers {
		if layer == ocrLayerName || pageLayerPattern.MatchString(layer) {
			result.HasOCRLayer = true
			result.OCRLayerName = layer
			break
		}
		if strings.Contains(strings.ToLower(layer), "ocr") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Existing layer detected that might contain OCR: %s", layer))
		}
	}
	return result, nil
}
