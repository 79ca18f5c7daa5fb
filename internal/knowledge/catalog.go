package knowledge

import (
	"fmt"
	"strings"
)

// CatalogItem is an orderable medicine. Price is in the smallest currency unit.
type CatalogItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Generic     string `json:"generic"`
	Price       int    `json:"price"`
	Description string `json:"description"`
}

// Catalog is the immutable list of purchasable medicines.
type Catalog struct {
	items []CatalogItem
	byID  map[int]int
}

// NewCatalog validates items and freezes them in the given order.
func NewCatalog(items ...CatalogItem) (*Catalog, error) {
	verr := &ValidationError{Subject: "catalog"}
	c := &Catalog{
		items: make([]CatalogItem, 0, len(items)),
		byID:  make(map[int]int, len(items)),
	}
	for i, item := range items {
		if item.ID <= 0 {
			verr.add(fmt.Sprintf("item %d: id must be positive", i))
			continue
		}
		if _, dup := c.byID[item.ID]; dup {
			verr.add(fmt.Sprintf("item %d: duplicate id", item.ID))
			continue
		}
		if strings.TrimSpace(item.Name) == "" {
			verr.add(fmt.Sprintf("item %d: name is required", item.ID))
		}
		if strings.TrimSpace(item.Generic) == "" {
			verr.add(fmt.Sprintf("item %d: generic name is required", item.ID))
		}
		if item.Price <= 0 {
			verr.add(fmt.Sprintf("item %d: price must be positive", item.ID))
		}
		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	if verr.HasProblems() {
		return nil, verr
	}
	return c, nil
}

// MustCatalog is NewCatalog for static data known to be valid.
func MustCatalog(items ...CatalogItem) *Catalog {
	c, err := NewCatalog(items...)
	if err != nil {
		panic(err)
	}
	return c
}

// Items returns a copy of the catalog in order.
func (c *Catalog) Items() []CatalogItem {
	if c == nil {
		return nil
	}
	out := make([]CatalogItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// ByID returns the item with the given id.
func (c *Catalog) ByID(id int) (CatalogItem, error) {
	if c == nil {
		return CatalogItem{}, ErrUnknownItem
	}
	i, ok := c.byID[id]
	if !ok {
		return CatalogItem{}, fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	return c.items[i], nil
}

// FindByMedicine returns the first item, in catalog order, whose generic name
// equals medicine case-insensitively or whose display name contains it.
func (c *Catalog) FindByMedicine(medicine string) (CatalogItem, bool) {
	if c == nil {
		return CatalogItem{}, false
	}
	needle := strings.ToLower(strings.TrimSpace(medicine))
	if needle == "" {
		return CatalogItem{}, false
	}
	for _, item := range c.items {
		if strings.EqualFold(item.Generic, needle) || strings.Contains(strings.ToLower(item.Name), needle) {
			return item, true
		}
	}
	return CatalogItem{}, false
}
