// Package catalog expone el catálogo de referencia (sedes y materiales) con
// acceso indexado por id. Sustituye a las tablas globales mutables del
// dashboard original: el catálogo se construye una vez por snapshot y se
// inyecta explícito en las funciones de análisis, lo que permite fixtures
// deterministas en tests.
package catalog

import "github.com/pcmejia/inventario-obras/internal/domain/entity"

// Catalog catálogo de referencia inmutable para una sesión de análisis.
type Catalog struct {
	sites map[string]entity.Site
	items map[string]entity.Item

	siteOrder []string
	itemOrder []string
}

// New construye el catálogo indexando sedes y materiales por id.
// Ids duplicados conservan la última aparición (comportamiento del origen de datos).
func New(sites []entity.Site, items []entity.Item) *Catalog {
	c := &Catalog{
		sites:     make(map[string]entity.Site, len(sites)),
		items:     make(map[string]entity.Item, len(items)),
		siteOrder: make([]string, 0, len(sites)),
		itemOrder: make([]string, 0, len(items)),
	}
	for _, s := range sites {
		if _, seen := c.sites[s.ID]; !seen {
			c.siteOrder = append(c.siteOrder, s.ID)
		}
		c.sites[s.ID] = s
	}
	for _, it := range items {
		if _, seen := c.items[it.ID]; !seen {
			c.itemOrder = append(c.itemOrder, it.ID)
		}
		c.items[it.ID] = it
	}
	return c
}

// Site devuelve la sede por id.
func (c *Catalog) Site(id string) (entity.Site, bool) {
	s, ok := c.sites[id]
	return s, ok
}

// Item devuelve el material por id.
func (c *Catalog) Item(id string) (entity.Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// Sites devuelve las sedes en orden de inserción.
func (c *Catalog) Sites() []entity.Site {
	out := make([]entity.Site, 0, len(c.siteOrder))
	for _, id := range c.siteOrder {
		out = append(out, c.sites[id])
	}
	return out
}

// Items devuelve los materiales en orden de inserción.
func (c *Catalog) Items() []entity.Item {
	out := make([]entity.Item, 0, len(c.itemOrder))
	for _, id := range c.itemOrder {
		out = append(out, c.items[id])
	}
	return out
}

// SiteCount y ItemCount tamaños del catálogo.
func (c *Catalog) SiteCount() int { return len(c.sites) }
func (c *Catalog) ItemCount() int { return len(c.items) }
