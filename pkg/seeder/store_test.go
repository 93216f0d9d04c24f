package seeder

import (
	"context"
	"errors"
	"maps"

	"github.com/gnames/gn"
	"github.com/gnames/gnseed/pkg/schema"
)

// memStore keeps rows in memory. Writes go to a working copy that
// becomes visible to new sessions after Commit.
type memStore struct {
	committed map[string][]schema.Row
	working   map[string][]schema.Row
	lastID    map[string]int

	txOpened, inserts, bulks, queries, commits, rollbacks int

	// failInsert makes the n-th insert fail, counting from 1.
	failInsert int
	// panicInsert makes every insert panic.
	panicInsert bool
}

var errStore = errors.New("store is broken")

func newMemStore() *memStore {
	return &memStore{
		committed: make(map[string][]schema.Row),
		lastID:    make(map[string]int),
	}
}

func (m *memStore) begin() {
	if m.working != nil {
		return
	}
	m.txOpened++
	m.working = make(map[string][]schema.Row, len(m.committed))
	for k, rows := range m.committed {
		m.working[k] = append([]schema.Row(nil), rows...)
	}
}

func (m *memStore) view() map[string][]schema.Row {
	if m.working != nil {
		return m.working
	}
	return m.committed
}

func (m *memStore) InsertNew(
	_ context.Context,
	t *schema.Table,
	row schema.Row,
) (schema.Row, error) {
	if m.panicInsert {
		panic("insert panic")
	}
	m.inserts++
	if m.failInsert > 0 && m.inserts == m.failInsert {
		return nil, errStore
	}
	m.begin()
	res := maps.Clone(row)
	for _, c := range t.Columns {
		if _, ok := res[c.Name]; ok || !c.PrimaryKey || !c.AutoIncrement {
			continue
		}
		m.lastID[t.Name]++
		res[c.Name] = m.lastID[t.Name]
	}
	m.working[t.Name] = append(m.working[t.Name], res)
	return maps.Clone(res), nil
}

func (m *memStore) BulkInsert(
	_ context.Context,
	t *schema.Table,
	rows []schema.Row,
) error {
	m.bulks++
	m.begin()
	for _, r := range rows {
		m.working[t.Name] = append(m.working[t.Name], maps.Clone(r))
	}
	return nil
}

func (m *memStore) QueryFirst(
	_ context.Context,
	t *schema.Table,
) (schema.Row, error) {
	m.queries++
	rows := m.view()[t.Name]
	if len(rows) == 0 {
		return nil, nil
	}
	return maps.Clone(rows[0]), nil
}

func (m *memStore) DeleteAll(_ context.Context, t *schema.Table) (int64, error) {
	m.begin()
	res := int64(len(m.working[t.Name]))
	delete(m.working, t.Name)
	return res, nil
}

func (m *memStore) Count(_ context.Context, t *schema.Table) (int64, error) {
	return int64(len(m.view()[t.Name])), nil
}

func (m *memStore) Commit(_ context.Context) error {
	if m.working == nil {
		return nil
	}
	m.commits++
	m.committed = m.working
	m.working = nil
	return nil
}

func (m *memStore) Rollback(_ context.Context) error {
	if m.working == nil {
		return nil
	}
	m.rollbacks++
	m.working = nil
	return nil
}

// committedCount returns the number of durable rows of a table.
func (m *memStore) committedCount(table string) int {
	return len(m.committed[table])
}

// hasCode looks for an error code along the chain of wrapped errors.
func hasCode(err error, code gn.ErrorCode) bool {
	for err != nil {
		if ge, ok := err.(*gn.Error); ok {
			if ge.Code == code {
				return true
			}
			err = ge.Err
			continue
		}
		err = errors.Unwrap(err)
	}
	return false
}
