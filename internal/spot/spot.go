// Package spot loads solver spot definitions from HCL files, so recurring
// solves can live in version-controlled documents instead of flag soup.
package spot

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/0xjackson/gto-cli/sdk/solver"
)

// File is a parsed spot document. A document may hold several named spots.
type File struct {
	Spots []Spot `hcl:"spot,block"`
}

// Spot describes one solve. Sizing fields left out of the document fall
// back to the street defaults.
type Spot struct {
	Name       string    `hcl:"name,label"`
	Street     string    `hcl:"street"`
	Board      string    `hcl:"board"`
	OOPRange   string    `hcl:"oop_range"`
	IPRange    string    `hcl:"ip_range"`
	Pot        float64   `hcl:"pot"`
	Stack      float64   `hcl:"stack"`
	Iterations int       `hcl:"iterations"`
	BetSizes   []float64 `hcl:"bet_sizes,optional"`
	RaiseSizes []float64 `hcl:"raise_sizes,optional"`
	MaxRaises  *int      `hcl:"max_raises,optional"`
	AddAllIn   *bool     `hcl:"add_allin,optional"`
}

// Load parses a spot file from disk.
func Load(filename string) (*File, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read spot file: %w", err)
	}
	return Parse(filename, src)
}

// Parse decodes HCL source into a spot file.
func Parse(filename string, src []byte) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse spot file: %s", diags.Error())
	}

	var f File
	if diags := gohcl.DecodeBody(file.Body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("decode spot file: %s", diags.Error())
	}

	for i := range f.Spots {
		if err := f.Spots[i].validate(); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// Find returns the named spot, or the only spot when name is empty.
func (f *File) Find(name string) (*Spot, error) {
	if name == "" {
		if len(f.Spots) == 1 {
			return &f.Spots[0], nil
		}
		return nil, fmt.Errorf("spot file has %d spots, name one of them", len(f.Spots))
	}
	for i := range f.Spots {
		if f.Spots[i].Name == name {
			return &f.Spots[i], nil
		}
	}
	return nil, fmt.Errorf("no spot named %q", name)
}

func (s *Spot) validate() error {
	switch s.Street {
	case "river", "turn", "flop":
	default:
		return fmt.Errorf("spot %q: unknown street %q (want river, turn, or flop)", s.Name, s.Street)
	}
	if s.Iterations <= 0 {
		return fmt.Errorf("spot %q: iterations must be > 0", s.Name)
	}
	return nil
}

// Config materialises the spot as a solver config with street defaults
// applied for any sizing field the document leaves out.
func (s *Spot) Config() solver.Config {
	var cfg solver.Config
	switch s.Street {
	case "turn":
		cfg = solver.NewTurnConfig(s.Board, s.OOPRange, s.IPRange, s.Pot, s.Stack, s.Iterations)
	case "flop":
		cfg = solver.NewFlopConfig(s.Board, s.OOPRange, s.IPRange, s.Pot, s.Stack, s.Iterations)
	default:
		cfg = solver.NewRiverConfig(s.Board, s.OOPRange, s.IPRange, s.Pot, s.Stack, s.Iterations)
	}

	if s.BetSizes != nil {
		cfg.BetSizes = s.BetSizes
	}
	if s.RaiseSizes != nil {
		cfg.RaiseSizes = s.RaiseSizes
	}
	if s.MaxRaises != nil {
		cfg.MaxRaises = *s.MaxRaises
	}
	if s.AddAllIn != nil {
		cfg.AddAllIn = *s.AddAllIn
	}
	return cfg
}
