// Package layout holds the in-memory OCR page layout shared by every codec.
//
// The hierarchy is fixed to five levels:
// Page → Columns → Paragraphs → Lines → Words, where only words carry text.
//
// Coordinates follow the djvused convention and are integers in pixels.
// Codecs that store boxes in another orientation (hOCR) flip them against the
// page height when reading and writing, so the tree itself never mixes
// coordinate systems.
//
// Key Types:
//
// - Page: root of the tree, with page number and image file name
// - Column, Paragraph, Line: containers with ordered children
// - Word: a leaf with recognized text
// - BBox: left/top/right/bottom box
// - Node: the common view over all five kinds
//
// Main Functions:
//
// - RecalculateBBox: rescale word boxes and rebuild every container box in place
// - Recalculated: same as RecalculateBBox on a deep copy
// - Walk: depth-first traversal of a tree
package layout

import "errors"

// ErrInvalidArgument is returned for arguments outside their valid range
var ErrInvalidArgument = errors.New("invalid argument")
