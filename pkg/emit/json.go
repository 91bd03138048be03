// Package emit renders a shape descriptor as JSON, SVG and a JavaScript
// generator snippet.
package emit

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/menta2k/shape-tracer/pkg/shape"
)

// XZ is a point in the consumer's 3D frame: x is horizontal, z is vertical.
type XZ struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Document is the JSON form of a descriptor.
type Document struct {
	WidthRatio float64 `json:"widthRatio"`
	PointCount int     `json:"pointCount"`
	Points     []XZ    `json:"points"`
}

// NewDocument converts a descriptor. The width ratio is rounded to 4 digits.
func NewDocument(d shape.Descriptor) Document {
	pts := make([]XZ, len(d.Points))
	for i, p := range d.Points {
		pts[i] = XZ{X: p[0], Z: p[1]}
	}
	return Document{
		WidthRatio: scalar.RoundEven(d.WidthRatio, 4),
		PointCount: len(pts),
		Points:     pts,
	}
}

// Descriptor converts the document back.
func (doc Document) Descriptor() shape.Descriptor {
	pts := make([]orb.Point, len(doc.Points))
	for i, p := range doc.Points {
		pts[i] = orb.Point{p.X, p.Z}
	}
	return shape.Descriptor{Points: pts, WidthRatio: doc.WidthRatio}
}

// WriteJSON writes the descriptor as an indented JSON document.
func WriteJSON(w io.Writer, d shape.Descriptor) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(d)); err != nil {
		return fmt.Errorf("failed to encode shape JSON: %w", err)
	}
	return nil
}

// ReadJSON reads a document written by WriteJSON.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse shape JSON: %w", err)
	}
	if doc.PointCount != len(doc.Points) {
		return Document{}, fmt.Errorf("pointCount %d does not match %d points", doc.PointCount, len(doc.Points))
	}
	return doc, nil
}
