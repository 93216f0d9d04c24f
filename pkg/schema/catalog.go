package schema

import (
	"slices"
)

// Catalog keeps table descriptions by name. Foreign keys and relationships
// are resolved against it.
type Catalog struct {
	tables map[string]*Table
	names  []string
}

// NewCatalog creates a catalog from tables.
func NewCatalog(tables ...*Table) *Catalog {
	res := &Catalog{tables: make(map[string]*Table)}
	for _, t := range tables {
		res.Add(t)
	}
	return res
}

// Add registers a table, replacing a table with the same name.
func (c *Catalog) Add(t *Table) {
	if _, ok := c.tables[t.Name]; !ok {
		c.names = append(c.names, t.Name)
	}
	c.tables[t.Name] = t
}

// Table returns a table by name.
func (c *Catalog) Table(name string) (*Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Names returns table names in the order they were added.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Order returns tables in insertion order: every table comes after the
// tables it references. Dependencies of the given tables are included.
// Without arguments all tables are ordered. Self references are ignored.
// A nullable foreign key that closes a cycle does not constrain the order,
// the referencing column is left empty for such rows.
func (c *Catalog) Order(names ...string) ([]string, error) {
	order, _, err := c.order(names)
	return order, err
}

func (c *Catalog) order(names []string) ([]string, map[string][]string, error) {
	if len(names) == 0 {
		names = c.names
	}
	deps, soft := c.graph()

	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(name string) error {
		if temp[name] {
			return CyclicDependencyError(name)
		}
		if visited[name] {
			return nil
		}
		if _, ok := c.tables[name]; !ok {
			return UnknownTableError(name)
		}

		temp[name] = true
		for _, dep := range deps[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		temp[name] = false
		visited[name] = true
		order = append(order, name)
		return nil
	}

	queue := slices.Clone(names)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		if err := visit(name); err != nil {
			return nil, nil, err
		}
		queue = append(queue, soft[name]...)
	}
	return order, deps, nil
}

// graph returns dependencies that constrain the order. Required foreign
// keys always do. A nullable one is kept unless its target already leads
// back to the table. Skipped targets are returned separately.
func (c *Catalog) graph() (map[string][]string, map[string][]string) {
	deps := c.required()
	soft := make(map[string][]string)
	for _, name := range c.names {
		t := c.tables[name]
		for _, col := range t.Columns {
			dep := t.Target(col)
			if dep == "" || dep == name || !col.Nullable {
				continue
			}
			switch {
			case slices.Contains(deps[name], dep), slices.Contains(soft[name], dep):
			case reaches(deps, dep, name):
				soft[name] = append(soft[name], dep)
			default:
				deps[name] = append(deps[name], dep)
			}
		}
	}
	return deps, soft
}

// Requires reports if rows of table from cannot be created without a row
// of table to, following required foreign keys.
func (c *Catalog) Requires(from, to string) bool {
	return reaches(c.required(), from, to)
}

// required returns targets of required foreign keys by table.
func (c *Catalog) required() map[string][]string {
	res := make(map[string][]string)
	for _, name := range c.names {
		t := c.tables[name]
		for _, col := range t.Columns {
			dep := t.Target(col)
			if dep == "" || dep == name || col.Nullable || slices.Contains(res[name], dep) {
				continue
			}
			res[name] = append(res[name], dep)
		}
	}
	return res
}

func reaches(deps map[string][]string, from, to string) bool {
	seen := make(map[string]bool)
	var walk func(string) bool
	walk = func(name string) bool {
		if name == to {
			return true
		}
		if seen[name] {
			return false
		}
		seen[name] = true
		return slices.ContainsFunc(deps[name], walk)
	}
	return walk(from)
}

// Levels groups ordered tables so that tables of one level depend only on
// tables of previous levels.
func (c *Catalog) Levels(names ...string) ([][]string, error) {
	order, deps, err := c.order(names)
	if err != nil {
		return nil, err
	}

	depth := make(map[string]int)
	var res [][]string
	for _, name := range order {
		d := 0
		for _, dep := range deps[name] {
			d = max(d, depth[dep]+1)
		}
		depth[name] = d
		if d == len(res) {
			res = append(res, nil)
		}
		res[d] = append(res[d], name)
	}
	return res, nil
}
