package domain

import "fmt"

// Category is a named resource pool, e.g. "head-spa", "aroma-room", "seat".
type Category string

// Resource is a physical service resource (room, seat). Resources are static.
type Resource struct {
	ID       string
	Category Category
}

// Pool is the ordered list of resource ids of one category.
// The order is the first-fit priority.
type Pool struct {
	Category    Category
	ResourceIDs []string
}

// ResourceCatalog groups resources into pools and maps ids back to categories.
// It is immutable after construction.
type ResourceCatalog struct {
	order      []Category
	pools      map[Category][]string
	categoryOf map[string]Category
}

// NewResourceCatalog validates and indexes pools. Categories keep the declared order.
func NewResourceCatalog(pools []Pool) (*ResourceCatalog, error) {
	c := &ResourceCatalog{
		pools:      make(map[Category][]string, len(pools)),
		categoryOf: make(map[string]Category),
	}

	for _, p := range pools {
		if p.Category == "" {
			return nil, fmt.Errorf("resource catalog: empty category name")
		}
		if _, dup := c.pools[p.Category]; dup {
			return nil, fmt.Errorf("resource catalog: duplicate category %q", p.Category)
		}
		if len(p.ResourceIDs) == 0 {
			return nil, fmt.Errorf("resource catalog: category %q has no resources", p.Category)
		}

		ids := make([]string, len(p.ResourceIDs))
		for i, id := range p.ResourceIDs {
			if id == "" || id == OverflowResourceID {
				return nil, fmt.Errorf("resource catalog: invalid resource id %q in %q", id, p.Category)
			}
			if other, dup := c.categoryOf[id]; dup {
				return nil, fmt.Errorf("resource catalog: resource %q listed in %q and %q", id, other, p.Category)
			}
			c.categoryOf[id] = p.Category
			ids[i] = id
		}

		c.pools[p.Category] = ids
		c.order = append(c.order, p.Category)
	}

	return c, nil
}

// Pool returns a copy of the category's resource ids in declared order
func (c *ResourceCatalog) Pool(category Category) []string {
	ids := c.pools[category]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// HasCategory reports whether the category is configured
func (c *ResourceCatalog) HasCategory(category Category) bool {
	_, ok := c.pools[category]
	return ok
}

// CategoryOf returns the category of a resource id
func (c *ResourceCatalog) CategoryOf(resourceID string) (Category, bool) {
	cat, ok := c.categoryOf[resourceID]
	return cat, ok
}

// Categories returns categories in declared order
func (c *ResourceCatalog) Categories() []Category {
	out := make([]Category, len(c.order))
	copy(out, c.order)
	return out
}

// Resources returns every resource, grouped by category in declared order
func (c *ResourceCatalog) Resources() []Resource {
	var out []Resource
	for _, cat := range c.order {
		for _, id := range c.pools[cat] {
			out = append(out, Resource{ID: id, Category: cat})
		}
	}
	return out
}
