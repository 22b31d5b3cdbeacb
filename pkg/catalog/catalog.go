// Package catalog holds the table and column names conditions are checked
// against.
//
// A Catalog implements attribute.Validator, so it can be handed to the
// parser with parser.WithValidator to reject references to unknown tables
// and columns. Catalogs are built from a map, a YAML file or a live SQLite
// or PostgreSQL database. Names are matched case-insensitively.
package catalog

import (
	"slices"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapfilter/pkg/ast"
	"github.com/leapstack-labs/leapfilter/pkg/attribute"
	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/token"
)

// Catalog maps tables to their columns. It is immutable once built and safe
// for concurrent use.
type Catalog struct {
	tables map[string]*table
}

type table struct {
	name    string
	columns map[string]string // lower-cased name -> name as declared
	order   []string
}

var _ attribute.Validator = (*Catalog)(nil)

// New builds a catalog from table names to column names.
func New(tables map[string][]string) *Catalog {
	c := &Catalog{tables: make(map[string]*table, len(tables))}
	for name, cols := range tables {
		for _, col := range cols {
			c.add(name, col)
		}
		if len(cols) == 0 {
			c.ensure(name)
		}
	}
	return c
}

func (c *Catalog) ensure(name string) *table {
	key := strings.ToLower(name)
	t, ok := c.tables[key]
	if !ok {
		t = &table{name: name, columns: make(map[string]string)}
		c.tables[key] = t
	}
	return t
}

func (c *Catalog) add(tableName, column string) {
	t := c.ensure(tableName)
	key := strings.ToLower(column)
	if _, dup := t.columns[key]; dup {
		return
	}
	t.columns[key] = column
	t.order = append(t.order, column)
}

// Tables returns the table names in sorted order.
func (c *Catalog) Tables() []string {
	names := make([]string, 0, len(c.tables))
	for _, t := range c.tables {
		names = append(names, t.name)
	}
	sort.Strings(names)
	return names
}

// Columns returns the columns of a table in declaration order, or nil if the
// table is unknown.
func (c *Catalog) Columns(tableName string) []string {
	t, ok := c.tables[strings.ToLower(tableName)]
	if !ok {
		return nil
	}
	return slices.Clone(t.order)
}

// Len returns the number of tables.
func (c *Catalog) Len() int {
	return len(c.tables)
}

// Validate checks that attr names an existing column. Unqualified names must
// match exactly one table.
func (c *Catalog) Validate(attr *ast.Attribute, tok token.Token) *diag.Diagnostic {
	if attr.Qualified() {
		t, ok := c.tables[strings.ToLower(attr.Table)]
		if !ok {
			return diag.New(diag.NoTable, tok, "table %q does not exist", attr.Table)
		}
		if _, ok := t.columns[strings.ToLower(attr.Name)]; !ok {
			return diag.New(diag.TableAttrNotExist, tok, "attribute %q does not exist in table %q", attr.Name, t.name)
		}
		return nil
	}

	owners := c.owners(attr.Name)
	switch len(owners) {
	case 0:
		return diag.New(diag.TableAttrNotExist, tok, "attribute %q does not exist in any table", attr.Name)
	case 1:
		return nil
	default:
		return diag.New(diag.LackOfSpecifyingTable, tok,
			"attribute %q is ambiguous, specify one of the tables: %s", attr.Name, strings.Join(owners, ", "))
	}
}

// owners returns the sorted names of the tables that have column name.
func (c *Catalog) owners(name string) []string {
	key := strings.ToLower(name)
	var owners []string
	for _, t := range c.tables {
		if _, ok := t.columns[key]; ok {
			owners = append(owners, t.name)
		}
	}
	sort.Strings(owners)
	return owners
}
