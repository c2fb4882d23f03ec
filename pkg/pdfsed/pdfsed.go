// Package pdfsed composes searchable PDFs from page images and OCR layouts,
// driven by a small command script.
//
// A script is a sequence of commands, each ended by a semicolon or the end
// of the input:
//
//	set title "Scan" author "Me";
//	create page size 595 842;
//	draw image "page1.png" dpi 300;
//	draw text "page1.hocr" dpi 300;
//	draw pdf "original.pdf" page 1;
//
// Pages are composed layer by layer: images and imported PDF pages are
// painted in order, text is drawn invisibly on a named optional content
// layer so the result stays searchable and selectable. Positions are in
// points measured from the bottom-left corner of the page.
//
// Key Types:
//
// - Config: debug, layer naming, font, text encoding and file lookup
//
// Main Functions:
//
// - Run: interprets a script and writes the PDF
// - Parse: tokenizes a script into commands
// - CheckExistingOCRLayers: looks for OCR layers in an existing PDF
package pdfsed

import "errors"

var (
	// ErrNoPages is returned when a script never creates a page
	ErrNoPages = errors.New("no pages created")
	// ErrExistingOCR is returned when an imported PDF already has an OCR layer
	ErrExistingOCR = errors.New("PDF already has an OCR layer")
)
