package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/galaxy/hyperlanes"
	"github.com/matzehuels/galaxygen/pkg/raster"
	"github.com/matzehuels/galaxygen/pkg/settings"
)

// Document is the JSON form of a generated galaxy.
type Document struct {
	ID         string              `json:"id"`
	Seed       uint64              `json:"seed"`
	Parameters settings.Parameters `json:"parameters"`
	Profile    galaxy.Profile      `json:"profile"`
	Requested  int                 `json:"requested"`
	Stars      []galaxy.Star       `json:"stars"`
	Paths      []hyperlanes.Path   `json:"paths"`
	Edges      []edge              `json:"edges"`
	Layers     []timing            `json:"layers"`
}

type edge struct {
	From galaxy.Point `json:"from"`
	To   galaxy.Point `json:"to"`
}

type timing struct {
	Name    string  `json:"name"`
	Seconds float64 `json:"seconds"`
	Skipped bool    `json:"skipped,omitempty"`
}

// NewDocument collects the serializable parts of a run. A nil network is
// treated as empty.
func NewDocument(id string, seed uint64, params settings.Parameters, profile galaxy.Profile,
	placed []galaxy.Star, net *hyperlanes.Network, layers []raster.Layer) Document {
	doc := Document{
		ID:         id,
		Seed:       seed,
		Parameters: params,
		Profile:    profile,
		Requested:  params.Stars,
		Stars:      placed,
		Paths:      []hyperlanes.Path{},
		Edges:      []edge{},
		Layers:     make([]timing, len(layers)),
	}
	if doc.Stars == nil {
		doc.Stars = []galaxy.Star{}
	}
	if net != nil {
		if net.Paths != nil {
			doc.Paths = net.Paths
		}
		for _, e := range net.Edges() {
			doc.Edges = append(doc.Edges, edge{From: e.A, To: e.B})
		}
	}
	for i, l := range layers {
		doc.Layers[i] = timing{
			Name:    l.Name,
			Seconds: l.Elapsed.Round(time.Millisecond).Seconds(),
			Skipped: l.Skipped,
		}
	}
	return doc
}

// WriteJSON encodes doc as indented JSON and writes it to w.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a document written by [WriteJSON].
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}
