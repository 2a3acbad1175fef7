// Package stores holds the store catalog and the runtime stock and price
// memory of every store the player has visited.
package stores

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrStoreNotFound is returned when a store id is not in the catalog
var ErrStoreNotFound = errors.New("store not found")

// StoreItem is one good a store sells. A nil Stock means unlimited.
type StoreItem struct {
	ItemID string `yaml:"item" json:"item"`
	Price  int    `yaml:"price" json:"price"`
	Stock  *int   `yaml:"stock,omitempty" json:"stock,omitempty"`
}

// Unlimited reports whether the good never runs out
func (si StoreItem) Unlimited() bool {
	return si.Stock == nil
}

// Store is a catalog entry. Its id matches the event id of the scene the
// store lives in.
type Store struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	General bool        `yaml:"general"`
	Items   []StoreItem `yaml:"items"`
}

// Offer returns the catalog entry for itemID
func (s *Store) Offer(itemID string) (StoreItem, bool) {
	for _, si := range s.Items {
		if si.ItemID == itemID {
			return si, true
		}
	}
	return StoreItem{}, false
}

// CatalogFile is the layout of stores.yaml
type CatalogFile struct {
	Stores []*Store `yaml:"stores"`
}

// Catalog is the read-only registry of stores
type Catalog struct {
	order []string
	byID  map[string]*Store
}

// NewCatalog indexes stores by id and validates their goods
func NewCatalog(defs []*Store) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Store, len(defs))}
	for _, s := range defs {
		if s == nil {
			continue
		}
		if s.ID == "" {
			return nil, fmt.Errorf("store %q: missing id", s.Name)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate store id: %s", s.ID)
		}
		seen := make(map[string]bool, len(s.Items))
		for _, si := range s.Items {
			if si.ItemID == "" {
				return nil, fmt.Errorf("store %s: good without item id", s.ID)
			}
			if seen[si.ItemID] {
				return nil, fmt.Errorf("store %s: %s listed twice", s.ID, si.ItemID)
			}
			seen[si.ItemID] = true
			if si.Price <= 0 {
				return nil, fmt.Errorf("store %s: %s has non-positive price %d", s.ID, si.ItemID, si.Price)
			}
			if si.Stock != nil && *si.Stock < 0 {
				return nil, fmt.Errorf("store %s: %s has negative stock", s.ID, si.ItemID)
			}
		}
		c.byID[s.ID] = s
		c.order = append(c.order, s.ID)
	}
	return c, nil
}

// LoadCatalog loads stores from a YAML file
func LoadCatalog(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read store catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses stores from YAML bytes
func ParseCatalog(data []byte) (*Catalog, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse store catalog: %w", err)
	}
	return NewCatalog(file.Stores)
}

// MustLoadCatalog loads the store catalog and panics on error
func MustLoadCatalog(filename string) *Catalog {
	c, err := LoadCatalog(filename)
	if err != nil {
		panic(fmt.Sprintf("Failed to load store catalog: %v", err))
	}
	return c
}

// Get returns the store for id. Stores are shared and must not be modified.
func (c *Catalog) Get(id string) (*Store, error) {
	s, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, id)
	}
	return s, nil
}

// Has reports whether id is a store
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// IDs returns store ids in file order
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of stores
func (c *Catalog) Len() int {
	return len(c.order)
}

// ItemReferences returns the item ids each store sells
func (c *Catalog) ItemReferences() map[string][]string {
	refs := make(map[string][]string, len(c.byID))
	for _, id := range c.order {
		for _, si := range c.byID[id].Items {
			refs[id] = append(refs[id], si.ItemID)
		}
	}
	return refs
}
