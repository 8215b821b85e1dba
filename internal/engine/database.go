// Package engine assembles the schema, table, and operator packages
// into the query-facing surface: a Database of named Tables and a
// compiler from three textual fragments (projection, tables,
// predicate) plus an optional grouping fragment into an operator
// pipeline.
package engine

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/jhh-labs/relq/internal/record"
	"github.com/jhh-labs/relq/internal/table"
)

// Database is a named collection of Tables.
type Database struct {
	name   string
	tables map[string]*table.Table
}

// New constructs an empty Database.
func New(name string) *Database {
	return &Database{name: name, tables: make(map[string]*table.Table)}
}

// CreateTable registers a new, empty table named name and returns a
// SchemaBuilder for defining its attributes and key. The table is
// live in the database immediately; the builder mutates the same
// schema the table holds.
func (db *Database) CreateTable(name string) *SchemaBuilder {
	b := newSchemaBuilder()
	db.tables[name] = table.New(b.schema)
	return b
}

// Table returns the table registered under name, or nil if none was
// created under that name.
func (db *Database) Table(name string) *table.Table {
	return db.tables[name]
}

// String renders the database's name followed by its tables, sorted
// by name for determinism.
func (db *Database) String() string {
	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(db.name)
	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		t := db.tables[name]
		fmt.Fprintf(&b, "%s=%s:%d", name, t.Schema().String(), t.Len())
	}
	b.WriteByte('}')
	return b.String()
}

// Select returns the records that have the attributes named by
// attributeDefinitions and are generated from tableNames.
func (db *Database) Select(attributeDefinitions, tableNames string) (iter.Seq[*record.Record], error) {
	return db.query(attributeDefinitions, tableNames, "", nil)
}

// SelectWhere is Select filtered by predicate.
func (db *Database) SelectWhere(attributeDefinitions, tableNames, predicate string) (iter.Seq[*record.Record], error) {
	return db.query(attributeDefinitions, tableNames, predicate, nil)
}

// SelectGroupBy is Select grouped by groupingAttributes.
func (db *Database) SelectGroupBy(attributeDefinitions, tableNames, groupingAttributes string) (iter.Seq[*record.Record], error) {
	groups := splitTrimmed(groupingAttributes, ",")
	return db.query(attributeDefinitions, tableNames, "", groups)
}

// SelectGroupByWhere is Select filtered by predicate and then grouped
// by groupingAttributes.
func (db *Database) SelectGroupByWhere(attributeDefinitions, tableNames, predicate, groupingAttributes string) (iter.Seq[*record.Record], error) {
	groups := splitTrimmed(groupingAttributes, ",")
	return db.query(attributeDefinitions, tableNames, predicate, groups)
}

func splitTrimmed(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
