// Package table implements Table: a Schema plus a sorted index from
// key-tuple to Record. The index is a real B-tree (google/btree)
// rather than a hand-rolled sorted map: the primary-key index only
// ever needs insert-if-absent, lookup-by-key, full scan in key order,
// and match-by-common-attributes, all of which a B-tree provides
// directly.
package table

import (
	"iter"

	"github.com/google/btree"

	"github.com/jhh-labs/relq/internal/record"
	"github.com/jhh-labs/relq/internal/schema"
	"github.com/jhh-labs/relq/internal/value"
	"github.com/jhh-labs/relq/pkg/dberrors"
)

// btreeDegree matches google/btree's own suggested default.
const btreeDegree = 32

// Table bundles a Schema with a sorted index of Records keyed by their
// primary-key tuple.
type Table struct {
	schema *schema.Schema
	index  *btree.BTree
}

// entry is the item stored in the underlying B-tree: a resolved key
// tuple plus the Record it identifies.
type entry struct {
	key []value.Value
	rec *record.Record
}

// Less implements btree.Item, comparing key tuples lexicographically —
// the same total order value.TotalCompare imposes on min/max
// accumulators. Comparing tuples of mixed attribute types is undefined
// behavior the caller is responsible for avoiding.
func (e *entry) Less(than btree.Item) bool {
	other := than.(*entry)
	for i := range e.key {
		c := value.TotalCompare(e.key[i], other.key[i])
		if c != 0 {
			return c < 0
		}
	}
	return false
}

// New constructs an empty Table over sch.
func New(sch *schema.Schema) *Table {
	return &Table{schema: sch, index: btree.New(btreeDegree)}
}

// Schema returns the Table's Schema.
func (t *Table) Schema() *schema.Schema { return t.schema }

// InsertRecord constructs a Record from values and adds it to the
// table, failing with ArityMismatch on a wrong value count and
// DuplicateKey if a record with the same key-tuple already exists.
func (t *Table) InsertRecord(values ...any) (*record.Record, error) {
	vals := make([]value.Value, len(values))
	for i, x := range values {
		v, err := value.From(x)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	rec, err := record.New(t.schema, vals...)
	if err != nil {
		return nil, err
	}
	key := t.keyOf(rec)
	if t.index.Has(&entry{key: key}) {
		return nil, dberrors.Newf(dberrors.DuplicateKey, "duplicate key %v", keyStrings(key))
	}
	t.index.ReplaceOrInsert(&entry{key: key, rec: rec})
	return rec, nil
}

func (t *Table) keyOf(rec *record.Record) []value.Value {
	return rec.Values(t.schema.Key()...)
}

func keyStrings(key []value.Value) []string {
	out := make([]string, len(key))
	for i, v := range key {
		out[i] = v.String()
	}
	return out
}

// Find looks up a Record by its full key-tuple, returning false if
// none exists.
func (t *Table) Find(key ...value.Value) (*record.Record, bool) {
	item := t.index.Get(&entry{key: key})
	if item == nil {
		return nil, false
	}
	return item.(*entry).rec, true
}

// All returns a lazy sequence over every Record in this Table's key
// order. Each call starts a fresh traversal of the underlying B-tree.
func (t *Table) All() iter.Seq[*record.Record] {
	return func(yield func(*record.Record) bool) {
		t.index.Ascend(func(item btree.Item) bool {
			return yield(item.(*entry).rec)
		})
	}
}

// MatchingRecords returns the records whose value agrees with r's for
// every attribute in commonAttributes. When commonAttributes is a
// superset of this table's primary key, a single key-tuple lookup
// finds at most one match (verified against every common attribute,
// not just the key); otherwise every record is scanned.
func (t *Table) MatchingRecords(r *record.Record, commonAttributes []string) []*record.Record {
	if t.keyIsSubsetOf(commonAttributes) {
		key := r.Values(t.schema.Key()...)
		match, ok := t.Find(key...)
		if ok && recordsAgree(r, match, commonAttributes) {
			return []*record.Record{match}
		}
		return nil
	}
	var out []*record.Record
	for candidate := range t.All() {
		if recordsAgree(r, candidate, commonAttributes) {
			out = append(out, candidate)
		}
	}
	return out
}

func (t *Table) keyIsSubsetOf(attrs []string) bool {
	key := t.schema.Key()
	if len(key) == 0 {
		return false
	}
	set := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		set[a] = true
	}
	for _, k := range key {
		if !set[k] {
			return false
		}
	}
	return true
}

func recordsAgree(r1, r2 *record.Record, attrs []string) bool {
	for _, a := range attrs {
		v1, ok1 := r1.ValueByName(a)
		v2, ok2 := r2.ValueByName(a)
		if !ok1 || !ok2 || !value.Equal(v1, v2) {
			return false
		}
	}
	return true
}

// Len returns the number of records currently stored in the table.
func (t *Table) Len() int { return t.index.Len() }
