package repository

import (
	"context"
	"fmt"
	"sync"

	"warehouse-inventory-api/internal/model"
)

type memoryRows struct {
	seq  int64
	rows []model.Record
}

// MemoryTable is an in-process TableQuery used for local runs and tests.
// Ids are assigned from a per-table sequence starting at 1.
type MemoryTable struct {
	mu     sync.RWMutex
	tables map[string]*memoryRows
}

func NewMemoryTable() *MemoryTable {
	return &MemoryTable{tables: make(map[string]*memoryRows)}
}

func (m *MemoryTable) Select(ctx context.Context, table string, filter Filter) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr("select", table, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Record, 0)
	t, ok := m.tables[table]
	if !ok {
		return out, nil
	}
	for _, r := range t.rows {
		if matches(r, filter) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (m *MemoryTable) SelectOne(ctx context.Context, table string, filter Filter) (model.Record, error) {
	rows, err := m.Select(ctx, table, filter)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (m *MemoryTable) Insert(ctx context.Context, table string, row model.Record) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr("insert", table, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		t = &memoryRows{}
		m.tables[table] = t
	}
	t.seq++

	stored := row.Clone()
	stored["id"] = t.seq
	t.rows = append(t.rows, stored)
	return stored.Clone(), nil
}

func (m *MemoryTable) Update(ctx context.Context, table string, filter Filter, row model.Record) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr("update", table, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Record, 0)
	t, ok := m.tables[table]
	if !ok {
		return out, nil
	}
	for i, old := range t.rows {
		if !matches(old, filter) {
			continue
		}
		replaced := model.Record{}
		for _, k := range writableColumns(row) {
			if !isPreserved(k, filter) {
				replaced[k] = row[k]
			}
		}
		for k, v := range old {
			if isPreserved(k, filter) {
				replaced[k] = v
			}
		}
		t.rows[i] = replaced
		out = append(out, replaced.Clone())
	}
	return out, nil
}

func (m *MemoryTable) Delete(ctx context.Context, table string, filter Filter) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr("delete", table, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := make([]model.Record, 0)
	t, ok := m.tables[table]
	if !ok {
		return removed, nil
	}
	kept := t.rows[:0]
	for _, r := range t.rows {
		if matches(r, filter) {
			removed = append(removed, r.Clone())
			continue
		}
		kept = append(kept, r)
	}
	t.rows = kept
	return removed, nil
}

func (m *MemoryTable) Close() error {
	return nil
}

// matches compares by printed value so a path id "3" finds a stored 3.
func matches(r model.Record, filter Filter) bool {
	for k, want := range filter {
		got, ok := r[k]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}
