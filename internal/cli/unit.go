package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sigil/internal/types"
)

// UnitManifest describes one compilation unit's signable symbols, read
// from a YAML manifest.
type UnitManifest struct {
	Unit Unit `yaml:"unit"`
}

// Unit is a named list of function symbols to materialize.
type Unit struct {
	Name    string       `yaml:"name"`
	Symbols []UnitSymbol `yaml:"symbols"`
}

// UnitSymbol is one function symbol and the shape its address travels
// in: the bare function, a pointer to it, or a reference to it.
type UnitSymbol struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`                // "function" | "pointer" | "reference"
	Signature string `yaml:"signature,omitempty"` // informational only
}

// ValidSymbolKinds defines the allowed symbol kinds.
var ValidSymbolKinds = []string{"function", "pointer", "reference"}

// LoadUnitManifest reads and validates a unit manifest from a YAML file.
func LoadUnitManifest(path string) (*UnitManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading unit manifest: %w", err)
	}

	var manifest UnitManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing unit manifest: %w", err)
	}

	if manifest.Unit.Name == "" {
		return nil, fmt.Errorf("unit manifest: unit name is required")
	}
	if len(manifest.Unit.Symbols) == 0 {
		return nil, fmt.Errorf("unit manifest: at least one symbol is required")
	}
	for i, sym := range manifest.Unit.Symbols {
		if sym.Name == "" {
			return nil, fmt.Errorf("unit manifest: symbols[%d]: name is required", i)
		}
		if _, err := symbolType(sym.Kind); err != nil {
			return nil, fmt.Errorf("unit manifest: symbols[%d] (%s): %w", i, sym.Name, err)
		}
	}

	return &manifest, nil
}

// symbolType maps a manifest kind to the type the materializer
// classifies. Signing never depends on the signature's structure, only
// on the function-kind classification, so a canonical signature
// suffices.
func symbolType(kind string) (types.Type, error) {
	fn := types.NewFunc(nil, nil)
	switch kind {
	case "function":
		return fn, nil
	case "pointer":
		return types.NewPointer(fn), nil
	case "reference":
		return types.NewRef(fn), nil
	default:
		return nil, fmt.Errorf("unknown symbol kind %q: must be one of %v", kind, ValidSymbolKinds)
	}
}
