package flags

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type catalogFile struct {
	Flags []FlagDefinition `toml:"flag"`
}

// LoadCatalogFile reads flag definitions from a TOML file of [[flag]] tables
// and validates them with NewCatalog.
func LoadCatalogFile(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer file.Close()

	var cf catalogFile
	if err = toml.NewDecoder(file).DisallowUnknownFields().Decode(&cf); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInvalidCatalog, path, err)
	}
	return NewCatalog(cf.Flags)
}

// LoadCatalog returns the catalog at path, or the built in Planes of Power
// catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return NewCatalog(PlanesOfPower())
	}
	return LoadCatalogFile(path)
}
