package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"go.uber.org/goleak"

	"github.com/rl1809/cart-store/internal/core/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Mock SnapshotRepository
type mockSnapshotRepo struct {
	data    map[string][]byte
	saves   int
	saveErr error
	loadErr error
	mu      sync.Mutex
}

func newMockSnapshotRepo() *mockSnapshotRepo {
	return &mockSnapshotRepo{data: make(map[string][]byte)}
}

func (m *mockSnapshotRepo) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[key], nil
}

func (m *mockSnapshotRepo) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *mockSnapshotRepo) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockSnapshotRepo) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func product(id int64, price int64) domain.Product {
	return domain.Product{
		ID:              id,
		Code:            fmt.Sprintf("P%03d", id),
		Name:            "product",
		Price:           decimal.NewFromInt(price),
		InventoryStatus: domain.InventoryStatusInStock,
	}
}

func newTestStore(t *testing.T, repo *mockSnapshotRepo) *CartStore {
	t.Helper()
	store, err := NewCartStore(context.Background(), repo, "cart:test", nil)
	if err != nil {
		t.Fatalf("NewCartStore failed: %v", err)
	}
	return store
}

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestCartStore_Scenario(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMockSnapshotRepo())

	if err := store.AddItem(ctx, product(1, 10), 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	assertAggregates(t, store, 2, 20)

	if err := store.AddItem(ctx, product(2, 5), 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	assertAggregates(t, store, 3, 25)

	if err := store.UpdateQuantity(ctx, 1, 0); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	assertAggregates(t, store, 1, 5)

	items := store.Items()
	if len(items) != 1 || items[0].Product.ID != 2 || items[0].Quantity != 1 {
		t.Errorf("expected [{2 1}], got %+v", items)
	}
}

func TestCartStore_AddDistinctProducts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMockSnapshotRepo())

	quantities := []int{3, 1, 4, 1, 5}
	want := 0
	for i, q := range quantities {
		if err := store.AddItem(ctx, product(int64(i+1), 2), q); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
		want += q
	}

	if store.Count() != want {
		t.Errorf("expected count %d, got %d", want, store.Count())
	}
	if len(store.Items()) != len(quantities) {
		t.Errorf("expected %d lines, got %d", len(quantities), len(store.Items()))
	}
}

func TestCartStore_AddSameProductMerges(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMockSnapshotRepo())

	store.AddItem(ctx, product(7, 3), 2)
	store.AddItem(ctx, product(7, 3), 5)

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Quantity != 7 {
		t.Errorf("expected quantity 7, got %d", items[0].Quantity)
	}
	assertAggregates(t, store, 7, 21)
}

func TestCartStore_AddNonPositiveIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := newMockSnapshotRepo()
	store := newTestStore(t, repo)

	if err := store.AddItem(ctx, product(1, 10), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.AddItem(ctx, product(1, 10), -3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.Items()) != 0 {
		t.Errorf("expected empty cart, got %+v", store.Items())
	}
	if repo.saveCount() != 0 {
		t.Errorf("expected no writes, got %d", repo.saveCount())
	}
}

func TestCartStore_UpdateQuantityReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMockSnapshotRepo())

	store.AddItem(ctx, product(1, 4), 2)
	if err := store.UpdateQuantity(ctx, 1, 5); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}

	assertAggregates(t, store, 5, 20)
}

func TestCartStore_UpdateNegativeRemoves(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMockSnapshotRepo())

	store.AddItem(ctx, product(1, 4), 2)
	store.AddItem(ctx, product(2, 1), 1)
	store.UpdateQuantity(ctx, 1, -1)

	assertAggregates(t, store, 1, 1)
}

func TestCartStore_MissingProductIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := newMockSnapshotRepo()
	store := newTestStore(t, repo)

	store.AddItem(ctx, product(1, 10), 2)
	before := store.Items()
	saves := repo.saveCount()

	if err := store.RemoveItem(ctx, 99); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.UpdateQuantity(ctx, 99, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(before, store.Items(), decimalComparer); diff != "" {
		t.Errorf("items changed (-before +after):\n%s", diff)
	}
	assertAggregates(t, store, 2, 20)
	if repo.saveCount() != saves {
		t.Errorf("expected no extra writes, got %d", repo.saveCount()-saves)
	}
}

func TestCartStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMockSnapshotRepo())

	store.AddItem(ctx, product(1, 10), 2)
	store.AddItem(ctx, product(2, 3), 3)

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	assertAggregates(t, store, 0, 0)
	if len(store.Items()) != 0 {
		t.Errorf("expected no items, got %+v", store.Items())
	}
}

func TestCartStore_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	repo := newMockSnapshotRepo()
	store := newTestStore(t, repo)

	store.AddItem(ctx, product(1, 10), 1)
	store.AddItem(ctx, product(1, 10), 1)
	store.UpdateQuantity(ctx, 1, 5)
	store.RemoveItem(ctx, 1)
	store.Clear(ctx)

	if repo.saveCount() != 5 {
		t.Errorf("expected 5 writes, got %d", repo.saveCount())
	}
	if string(repo.data["cart:test"]) != "[]" {
		t.Errorf("expected empty snapshot, got %s", repo.data["cart:test"])
	}
}

func TestCartStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newMockSnapshotRepo()
	store := newTestStore(t, repo)

	p := product(1, 10)
	p.Description = "a long description"
	p.Category = "Accessories"
	p.Rating = 4
	p.Price = decimal.RequireFromString("12.99")
	store.AddItem(ctx, p, 3)
	store.AddItem(ctx, product(2, 5), 1)

	reloaded := newTestStore(t, repo)

	if diff := cmp.Diff(store.Items(), reloaded.Items(), decimalComparer); diff != "" {
		t.Errorf("reloaded items differ (-want +got):\n%s", diff)
	}
	if !reloaded.Total().Equal(decimal.RequireFromString("43.97")) {
		t.Errorf("expected total 43.97, got %s", reloaded.Total())
	}
}

func TestCartStore_MalformedSnapshot(t *testing.T) {
	cases := map[string]string{
		"not json":       "{not json",
		"wrong shape":    `{"product":{}}`,
		"zero quantity":  `[{"product":{"id":1,"price":"1"},"quantity":0}]`,
		"duplicate line": `[{"product":{"id":1,"price":"1"},"quantity":1},{"product":{"id":1,"price":"1"},"quantity":2}]`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newMockSnapshotRepo()
			repo.data["cart:test"] = []byte(raw)

			store := newTestStore(t, repo)
			if len(store.Items()) != 0 {
				t.Errorf("expected empty cart, got %+v", store.Items())
			}
			assertAggregates(t, store, 0, 0)
		})
	}
}

func TestCartStore_LoadError(t *testing.T) {
	repo := newMockSnapshotRepo()
	repo.loadErr = errors.New("connection refused")

	_, err := NewCartStore(context.Background(), repo, "cart:test", nil)
	if !errors.Is(err, repo.loadErr) {
		t.Errorf("expected load error, got: %v", err)
	}
}

func TestCartStore_SaveFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	repo := newMockSnapshotRepo()
	store := newTestStore(t, repo)

	store.AddItem(ctx, product(1, 10), 2)

	repo.saveErr = errors.New("storage down")
	err := store.AddItem(ctx, product(2, 5), 1)
	if !errors.Is(err, repo.saveErr) {
		t.Fatalf("expected save error, got: %v", err)
	}

	assertAggregates(t, store, 2, 20)
	if len(store.Items()) != 1 {
		t.Errorf("expected 1 line after failed write, got %d", len(store.Items()))
	}
}

func TestCartStore_ItemsIsCopy(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMockSnapshotRepo())
	store.AddItem(ctx, product(1, 10), 2)

	items := store.Items()
	items[0].Quantity = 100

	if store.Count() != 2 {
		t.Errorf("expected count 2, got %d", store.Count())
	}
}

func TestCartStore_ViewIsCopy(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMockSnapshotRepo())
	store.AddItem(ctx, product(1, 10), 2)

	view := store.View()
	view.Items[0].Quantity = 99
	view.Items[0].Product.Name = "changed"

	got := store.View()
	if got.Items[0].Quantity != 2 || got.Items[0].Product.Name != "product" {
		t.Errorf("expected stored line unchanged, got %+v", got.Items[0])
	}
	if got.Count != 2 {
		t.Errorf("expected count 2, got %d", got.Count)
	}
}

func TestCartStore_WatchersGetOwnCopies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := newTestStore(t, newMockSnapshotRepo())

	first := store.Watch(ctx)
	second := store.Watch(ctx)
	receive(t, first)
	receive(t, second)

	store.AddItem(ctx, product(1, 10), 1)
	a := receive(t, first)
	b := receive(t, second)

	a.Items[0].Quantity = 42
	if b.Items[0].Quantity != 1 {
		t.Errorf("expected second watcher to keep quantity 1, got %d", b.Items[0].Quantity)
	}
	if store.View().Items[0].Quantity != 1 {
		t.Errorf("expected store to keep quantity 1, got %d", store.View().Items[0].Quantity)
	}
}

func TestCartStore_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := newTestStore(t, newMockSnapshotRepo())

	views := store.Watch(ctx)

	initial := receive(t, views)
	if initial.Count != 0 {
		t.Errorf("expected initial count 0, got %d", initial.Count)
	}

	store.AddItem(ctx, product(1, 10), 2)
	view := receive(t, views)
	if view.Count != 2 || !view.Total.Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected 2/20, got %d/%s", view.Count, view.Total)
	}

	cancel()
	for range views {
	}
}

func TestCartStore_WatchKeepsLatestOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := newTestStore(t, newMockSnapshotRepo())

	views := store.Watch(ctx)

	for i := 1; i <= 5; i++ {
		store.AddItem(ctx, product(int64(i), 1), 1)
	}

	view := receive(t, views)
	if view.Count != 5 {
		t.Errorf("expected latest count 5, got %d", view.Count)
	}
	if len(view.Items) != 5 {
		t.Errorf("expected 5 items in latest view, got %d", len(view.Items))
	}
}

func TestCartStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := newMockSnapshotRepo()
	store := newTestStore(t, repo)

	var wg sync.WaitGroup
	workers := 50
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddItem(ctx, product(1, 2), 1)
		}()
	}
	wg.Wait()

	assertAggregates(t, store, workers, int64(workers*2))

	reloaded := newTestStore(t, repo)
	if reloaded.Count() != workers {
		t.Errorf("expected persisted count %d, got %d", workers, reloaded.Count())
	}
}

func receive(t *testing.T, views <-chan domain.CartView) domain.CartView {
	t.Helper()
	select {
	case view, ok := <-views:
		if !ok {
			t.Fatal("watch channel closed")
		}
		return view
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for cart view")
	}
	return domain.CartView{}
}

func assertAggregates(t *testing.T, store *CartStore, count int, total int64) {
	t.Helper()
	if store.Count() != count {
		t.Errorf("expected count %d, got %d", count, store.Count())
	}
	if !store.Total().Equal(decimal.NewFromInt(total)) {
		t.Errorf("expected total %d, got %s", total, store.Total())
	}
}
