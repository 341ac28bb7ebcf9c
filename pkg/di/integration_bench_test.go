package di

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/goliatone/go-itemstore/item"
	"github.com/goliatone/go-itemstore/query"
)

func sizedItems(n int) []item.Item {
	items := make([]item.Item, n)
	for i := range items {
		items[i] = item.Item{
			ID:       int64(i + 1),
			Name:     fmt.Sprintf("Item %d", i),
			Category: "Bench",
			Price:    float64(i % 500),
		}
	}
	return items
}

func TestConcurrentReadWrite(t *testing.T) {
	ctx := context.Background()
	memStore := newMemoryStore(sizedItems(20)...)

	container, err := NewContainer(ctx, testConfig(t), WithStore(memStore))
	if err != nil {
		t.Fatalf("Failed to create DI container: %v", err)
	}

	const writers = 10
	const readers = 20

	var wg sync.WaitGroup
	errs := make(chan error, writers+readers*2)

	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := container.ItemService().Create(ctx, map[string]any{
				"name":     fmt.Sprintf("writer-%d", i),
				"category": "Concurrent",
				"price":    float64(i),
			})
			errs <- err
		}()
	}
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := container.StatsService().Stats(ctx)
			errs <- err
			_, err = container.ItemService().List(ctx, query.Params{Term: "writer"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	agg, err := container.StatsService().Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if agg.Total != 20+writers {
		t.Errorf("expected %d items after concurrent creates, got %d", 20+writers, agg.Total)
	}
}

func BenchmarkStats(b *testing.B) {
	ctx := context.Background()
	cfg := testConfigB(b)

	b.Run("cached", func(b *testing.B) {
		container, err := NewContainer(ctx, cfg, WithStore(newMemoryStore(sizedItems(10_000)...)))
		if err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()
		for range b.N {
			if _, err := container.StatsService().Stats(ctx); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("recompute", func(b *testing.B) {
		container, err := NewContainer(ctx, cfg, WithStore(newMemoryStore(sizedItems(10_000)...)))
		if err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()
		for range b.N {
			if err := container.Cache().Invalidate(ctx); err != nil {
				b.Fatal(err)
			}
			if _, err := container.StatsService().Stats(ctx); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkList(b *testing.B) {
	ctx := context.Background()
	container, err := NewContainer(ctx, testConfigB(b), WithStore(newMemoryStore(sizedItems(10_000)...)))
	if err != nil {
		b.Fatal(err)
	}
	params := query.Params{Term: "item 9", Page: 2, Limit: 20}

	b.ResetTimer()
	for range b.N {
		if _, err := container.ItemService().List(ctx, params); err != nil {
			b.Fatal(err)
		}
	}
}
