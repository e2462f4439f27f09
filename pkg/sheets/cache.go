package sheets

import (
	"context"
	"sync"
	"time"
)

// Cache wraps a Store with TTL read snapshots. The remote is the source of
// truth; the cache exists to keep a checkout interaction from re-downloading
// the stock tables on every lookup. Writes go straight through and are
// mirrored into any live snapshot, so a lookup after a stock decrement never
// sees the pre-sale count within the same session.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	snapshots map[string]snapshot
}

type snapshot struct {
	table   Table
	fetched time.Time
}

func NewCache(store Store, ttl time.Duration) *Cache {
	return &Cache{
		store:     store,
		ttl:       ttl,
		now:       time.Now,
		snapshots: map[string]snapshot{},
	}
}

// WithClock overrides the clock, for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// ReadAllRows hands out a deep copy of the snapshot. The write paths mutate
// the snapshot in place under the mutex, and concurrent requests keep their
// tables past the lock, so sharing the row maps would race.
func (c *Cache) ReadAllRows(ctx context.Context, worksheet string) (Table, error) {
	c.mu.Lock()
	if snap, ok := c.snapshots[worksheet]; ok && c.now().Sub(snap.fetched) < c.ttl {
		table := snap.table.Clone()
		c.mu.Unlock()
		return table, nil
	}
	c.mu.Unlock()

	table, err := c.store.ReadAllRows(ctx, worksheet)
	if err != nil {
		return Table{}, err
	}

	c.mu.Lock()
	c.snapshots[worksheet] = snapshot{table: table, fetched: c.now()}
	c.mu.Unlock()
	return table.Clone(), nil
}

func (c *Cache) AppendRow(ctx context.Context, worksheet string, values []string) error {
	return c.AppendRows(ctx, worksheet, [][]string{values})
}

func (c *Cache) AppendRows(ctx context.Context, worksheet string, rows [][]string) error {
	if err := c.store.AppendRows(ctx, worksheet, rows); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.snapshots[worksheet]
	if !ok {
		return nil
	}
	for _, values := range rows {
		row := make(Row, len(snap.table.Headers))
		for i, h := range snap.table.Headers {
			if i < len(values) {
				row[h] = values[i]
			} else {
				row[h] = ""
			}
		}
		snap.table.Rows = append(snap.table.Rows, row)
	}
	c.snapshots[worksheet] = snap
	return nil
}

func (c *Cache) UpdateCell(ctx context.Context, worksheet string, row, col int, value string) error {
	if err := c.store.UpdateCell(ctx, worksheet, row, col, value); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.snapshots[worksheet]
	if !ok {
		return nil
	}
	dataIndex := row - 2
	if dataIndex < 0 || dataIndex >= len(snap.table.Rows) || col < 1 || col > len(snap.table.Headers) {
		// The snapshot no longer lines up with the sheet; drop it rather
		// than mirror into the wrong row.
		delete(c.snapshots, worksheet)
		return nil
	}
	snap.table.Rows[dataIndex][snap.table.Headers[col-1]] = value
	return nil
}

func (c *Cache) FindRow(ctx context.Context, worksheet, value string) (int, error) {
	return c.store.FindRow(ctx, worksheet, value)
}

// Invalidate drops the snapshot for one worksheet.
func (c *Cache) Invalidate(worksheet string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, worksheet)
}

// InvalidateAll drops every snapshot, forcing fresh reads.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots = map[string]snapshot{}
}
