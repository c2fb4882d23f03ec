// Package hocr reads and writes page layouts as hOCR, the HTML-based
// standard format for representing OCR results.
//
// This package provides:
//
// - Load and LoadPages: parse hOCR HTML into layout pages
// - Save: generate an hOCR document for one layout page
// - ParseTitle, ParseBBox, FormatBBox: the hOCR "title" property grammar
//
// The hOCR hierarchy is matched by class markers:
// ocr_page → ocr_carea → ocr_par → ocr_line → ocrx_word.
// Line elements may also carry the Tesseract classes ocr_header,
// ocr_caption and ocr_textfloat.
//
// hOCR boxes have their origin at the top-left corner of the page; they are
// flipped against the page height while loading and saving so the layout
// tree always uses the djvused coordinate space. The page box itself is
// stored as is.
//
// Problems that only affect one page property (an unreadable image name or
// page number, an unknown property, a transcoded charset) do not stop the
// load; they are returned as warnings instead.
package hocr

import "errors"

// Class markers of the hOCR elements used by this package
const (
	ClassPage      = "ocr_page"
	ClassArea      = "ocr_carea"
	ClassParagraph = "ocr_par"
	ClassLine      = "ocr_line"
	ClassWord      = "ocrx_word"
)

// lineClasses are the classes accepted for line elements
var lineClasses = []string{ClassLine, "ocr_header", "ocr_caption", "ocr_textfloat"}

// Defaults for page properties missing from the page title
const (
	DefaultPageNum   = 0
	DefaultPageImage = "page.tiff"
)

var (
	// ErrInvalidFormat is returned when the input is not an hOCR document
	ErrInvalidFormat = errors.New("invalid hOCR document")
	// ErrMissingBBox is returned when an element has no bbox property
	ErrMissingBBox = errors.New("hOCR bbox not found")
	// ErrInvalidBBox is returned for a bbox property that is not "bbox x1 y1 x2 y2"
	ErrInvalidBBox = errors.New("invalid hOCR bbox definition")
)
