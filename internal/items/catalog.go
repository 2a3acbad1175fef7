package items

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrItemNotFound is returned when an item id is not in the catalog
var ErrItemNotFound = errors.New("item not found")

// CatalogFile is the layout of items.yaml
type CatalogFile struct {
	Items []*Item `yaml:"items"`
}

// Catalog is the read-only registry of item definitions
type Catalog struct {
	order []string
	byID  map[string]*Item
}

// NewCatalog builds a catalog from definitions, rejecting duplicates and
// malformed entries.
func NewCatalog(defs []*Item) (*Catalog, error) {
	c := &Catalog{
		order: make([]string, 0, len(defs)),
		byID:  make(map[string]*Item, len(defs)),
	}
	for _, def := range defs {
		if def == nil {
			continue
		}
		if err := validate(def); err != nil {
			return nil, err
		}
		if _, dup := c.byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate item id: %s", def.ID)
		}
		c.byID[def.ID] = def.Clone()
		c.order = append(c.order, def.ID)
	}
	return c, nil
}

func validate(def *Item) error {
	if def.ID == "" {
		return fmt.Errorf("item %q: missing id", def.Name)
	}
	if !ValidType(def.Type) {
		return fmt.Errorf("item %s: unknown type %q", def.ID, def.Type)
	}
	if def.MaxStack < 0 {
		return fmt.Errorf("item %s: negative max_stack", def.ID)
	}
	if len(def.AvailableActions) == 0 {
		return fmt.Errorf("item %s: no available actions", def.ID)
	}
	for _, a := range def.AvailableActions {
		if !ValidAction(a) {
			return fmt.Errorf("item %s: unknown action %q", def.ID, a)
		}
	}
	if !ValidAction(def.DefaultAction) {
		return fmt.Errorf("item %s: unknown default action %q", def.ID, def.DefaultAction)
	}
	if def.Stackable() && def.Quantity > def.MaxStack {
		return fmt.Errorf("item %s: quantity %d exceeds max_stack %d", def.ID, def.Quantity, def.MaxStack)
	}
	if !def.Stackable() && def.Quantity > 1 {
		return fmt.Errorf("item %s: non-stackable item carries quantity %d", def.ID, def.Quantity)
	}
	return nil
}

// LoadCatalog loads item definitions from a YAML file
func LoadCatalog(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read item catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses item definitions from YAML bytes
func ParseCatalog(data []byte) (*Catalog, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse item catalog: %w", err)
	}
	return NewCatalog(file.Items)
}

// MustLoadCatalog loads the item catalog and panics on error
func MustLoadCatalog(filename string) *Catalog {
	c, err := LoadCatalog(filename)
	if err != nil {
		panic(fmt.Sprintf("Failed to load item catalog: %v", err))
	}
	return c
}

// Get returns a copy of the definition for id
func (c *Catalog) Get(id string) (*Item, error) {
	def, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return def.Clone(), nil
}

// Has reports whether id is in the catalog
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// IDs returns item ids in file order
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of items
func (c *Catalog) Len() int {
	return len(c.order)
}
