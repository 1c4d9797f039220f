package catalog

import (
	"fmt"
	"iter"

	"github.com/google/jsonschema-go/jsonschema"

	apperrors "github.com/louisbranch/fauxtools/internal/platform/errors"
)

// Tool describes one catalog entry.
type Tool struct {
	Index       int
	Name        string
	Description string
}

// Flavor returns the template slot of the tool.
func (t Tool) Flavor() int {
	return Flavor(t.Index)
}

// InputSchema returns a fresh copy of the tool's input schema. Callers may
// mutate it without affecting the catalog.
func (t Tool) InputSchema() *jsonschema.Schema {
	return ShapeFor(t.Flavor())(t.Index)
}

// Catalog is the read-only, ordered set of tools for one variant.
type Catalog struct {
	variant string
	tools   []Tool
	byName  map[string]int
}

// Build generates the catalog for v. Indices run 1..v.Size in order.
func Build(v Variant) (*Catalog, error) {
	if v.Size <= 0 {
		return nil, apperrors.New(apperrors.CodeCatalogInvalid, fmt.Sprintf("catalog %q size must be positive, got %d", v.Name, v.Size))
	}
	if v.Namer == nil {
		return nil, apperrors.New(apperrors.CodeCatalogInvalid, fmt.Sprintf("catalog %q has no namer", v.Name))
	}
	if tn, ok := v.Namer.(TableNamer); ok {
		if err := tn.validate(); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeCatalogInvalid, fmt.Sprintf("catalog %q tables", v.Name), err)
		}
	}
	for flavor, describe := range v.Describes {
		if describe == nil {
			return nil, apperrors.New(apperrors.CodeCatalogInvalid, fmt.Sprintf("catalog %q has no description for flavor %d", v.Name, flavor))
		}
	}

	c := &Catalog{
		variant: v.Name,
		tools:   make([]Tool, 0, v.Size),
		byName:  make(map[string]int, v.Size),
	}
	for index := 1; index <= v.Size; index++ {
		flavor := Flavor(index)
		tool := Tool{
			Index:       index,
			Name:        v.Namer.Name(index),
			Description: v.Describes[flavor](index, v.Namer.Component(index)),
		}
		if prev, dup := c.byName[tool.Name]; dup {
			return nil, apperrors.WithMetadata(
				apperrors.CodeCatalogInvalid,
				fmt.Sprintf("catalog %q: tool %d duplicates name %q of tool %d", v.Name, index, tool.Name, prev+1),
				map[string]string{"tool": tool.Name},
			)
		}
		c.byName[tool.Name] = len(c.tools)
		c.tools = append(c.tools, tool)
	}
	return c, nil
}

// Variant returns the name of the variant the catalog was built from.
func (c *Catalog) Variant() string {
	return c.variant
}

// Len returns the number of tools.
func (c *Catalog) Len() int {
	return len(c.tools)
}

// At returns the tool at zero-based position i.
func (c *Catalog) At(i int) (Tool, bool) {
	if i < 0 || i >= len(c.tools) {
		return Tool{}, false
	}
	return c.tools[i], true
}

// Lookup finds a tool by exact name.
func (c *Catalog) Lookup(name string) (Tool, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Tool{}, false
	}
	return c.tools[i], true
}

// Contains reports whether name is in the catalog.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// All yields every tool in construction order.
func (c *Catalog) All() iter.Seq[Tool] {
	return func(yield func(Tool) bool) {
		for _, tool := range c.tools {
			if !yield(tool) {
				return
			}
		}
	}
}

// Page returns up to limit tools starting at offset, plus the offset of the
// next page or -1 when the listing is complete.
func (c *Catalog) Page(offset, limit int) ([]Tool, int) {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(c.tools) {
		return nil, -1
	}
	if limit <= 0 {
		limit = len(c.tools)
	}
	end := min(offset+limit, len(c.tools))
	page := make([]Tool, end-offset)
	copy(page, c.tools[offset:end])
	if end == len(c.tools) {
		return page, -1
	}
	return page, end
}
