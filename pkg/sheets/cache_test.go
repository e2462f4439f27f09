package sheets

import (
	"context"
	"testing"
	"time"
)

func TestCacheServesSnapshotWithinTTL(t *testing.T) {
	m := NewMemory()
	seedFrames(m)

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	cache := NewCache(m, 5*time.Minute).WithClock(func() time.Time { return now })

	if _, err := cache.ReadAllRows(context.Background(), "dframe"); err != nil {
		t.Fatalf("first read: %v", err)
	}

	// Remote change behind the cache's back stays invisible until expiry.
	m.Seed("dframe", []string{"Merk", "Kode", "Stock"}, [][]string{{"New", "N-1", "9"}})

	table, err := cache.ReadAllRows(context.Background(), "dframe")
	if err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if len(table.Rows) != 2 || table.Rows[0]["merk"] != "Rodenstock" {
		t.Fatal("expected the cached snapshot, not the remote change")
	}

	now = now.Add(6 * time.Minute)
	table, err = cache.ReadAllRows(context.Background(), "dframe")
	if err != nil {
		t.Fatalf("refreshed read: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0]["merk"] != "New" {
		t.Fatal("expected a fresh snapshot after TTL expiry")
	}
}

func TestCacheMirrorsAppends(t *testing.T) {
	m := NewMemory()
	seedFrames(m)
	cache := NewCache(m, 5*time.Minute)

	if _, err := cache.ReadAllRows(context.Background(), "dframe"); err != nil {
		t.Fatalf("prime read: %v", err)
	}
	err := cache.AppendRow(context.Background(), "dframe",
		[]string{"Oakley", "OK-99", "PT Baru", "300000", "700000", "2"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	table, _ := cache.ReadAllRows(context.Background(), "dframe")
	if len(table.Rows) != 3 {
		t.Fatalf("expected mirrored append, got %d rows", len(table.Rows))
	}
	if table.Rows[2]["kode"] != "OK-99" {
		t.Fatalf("mirrored row wrong: %v", table.Rows[2])
	}
}

func TestCacheMirrorsCellUpdates(t *testing.T) {
	m := NewMemory()
	seedFrames(m)
	cache := NewCache(m, 5*time.Minute)

	if _, err := cache.ReadAllRows(context.Background(), "dframe"); err != nil {
		t.Fatalf("prime read: %v", err)
	}
	if err := cache.UpdateCell(context.Background(), "dframe", 2, 6, "2"); err != nil {
		t.Fatalf("update: %v", err)
	}

	table, _ := cache.ReadAllRows(context.Background(), "dframe")
	if got := table.Rows[0]["stock"]; got != "2" {
		t.Fatalf("stock after mirrored decrement = %q, want 2", got)
	}
	// And the remote actually changed too.
	raw := m.RawRows("dframe")
	if raw[0][5] != "2" {
		t.Fatalf("remote cell = %q, want 2", raw[0][5])
	}
}

func TestCacheReadsDoNotAliasTheSnapshot(t *testing.T) {
	m := NewMemory()
	seedFrames(m)
	cache := NewCache(m, 5*time.Minute)

	before, err := cache.ReadAllRows(context.Background(), "dframe")
	if err != nil {
		t.Fatalf("prime read: %v", err)
	}

	if err := cache.UpdateCell(context.Background(), "dframe", 2, 6, "2"); err != nil {
		t.Fatalf("update: %v", err)
	}
	err = cache.AppendRow(context.Background(), "dframe",
		[]string{"Oakley", "OK-99", "PT Baru", "300000", "700000", "2"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	// The table handed out earlier keeps the pre-write state.
	if got := before.Rows[0]["stock"]; got != "3" {
		t.Fatalf("held table stock = %q, want 3", got)
	}
	if len(before.Rows) != 2 {
		t.Fatalf("held table rows = %d, want 2", len(before.Rows))
	}

	after, _ := cache.ReadAllRows(context.Background(), "dframe")
	if after.Rows[0]["stock"] != "2" || len(after.Rows) != 3 {
		t.Fatalf("fresh read missing the writes: %v", after.Rows)
	}
}

func TestCacheConcurrentReadersAndWriters(t *testing.T) {
	m := NewMemory()
	seedFrames(m)
	cache := NewCache(m, 5*time.Minute)

	if _, err := cache.ReadAllRows(context.Background(), "dframe"); err != nil {
		t.Fatalf("prime read: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			if err := cache.UpdateCell(context.Background(), "dframe", 2, 6, "1"); err != nil {
				t.Errorf("update: %v", err)
				return
			}
		}
	}()
	for i := 0; i < 200; i++ {
		table, err := cache.ReadAllRows(context.Background(), "dframe")
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		for _, row := range table.Rows {
			_ = row["stock"]
		}
	}
	<-done
}

func TestCacheUpdateOutsideSnapshotDropsIt(t *testing.T) {
	m := NewMemory()
	seedFrames(m)
	cache := NewCache(m, 5*time.Minute)

	if _, err := cache.ReadAllRows(context.Background(), "dframe"); err != nil {
		t.Fatalf("prime read: %v", err)
	}
	// Row 4 exists remotely after a manual edit but not in the snapshot.
	if err := m.AppendRow(context.Background(), "dframe", []string{"Manual", "M-1", "", "", "", "1"}); err != nil {
		t.Fatalf("remote append: %v", err)
	}
	if err := cache.UpdateCell(context.Background(), "dframe", 4, 6, "5"); err != nil {
		t.Fatalf("update: %v", err)
	}

	table, _ := cache.ReadAllRows(context.Background(), "dframe")
	if len(table.Rows) != 3 {
		t.Fatalf("expected re-read after snapshot drop, got %d rows", len(table.Rows))
	}
}
