package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rl1809/cart-store/internal/adapter/storage"
	"github.com/rl1809/cart-store/internal/core/domain"
	"github.com/rl1809/cart-store/internal/core/service"
)

const (
	redisAddr     = "localhost:6379"
	sessionID     = "stress-test-session"
	productCount  = 5
	totalRequests = 200
)

func main() {
	ctx := context.Background()

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	key := service.CartKey(sessionID)
	rdb.Del(ctx, key)

	redisAdapter := storage.NewRedisAdapter(rdb, 0)
	store, err := service.NewCartStore(ctx, redisAdapter, key, nil)
	if err != nil {
		log.Fatalf("failed to open cart: %v", err)
	}

	products := make([]domain.Product, productCount)
	for i := range products {
		products[i] = domain.Product{
			ID:              int64(i + 1),
			Code:            fmt.Sprintf("P%03d", i+1),
			Name:            fmt.Sprintf("Stress Product %d", i+1),
			Price:           decimal.NewFromFloat(1.25),
			InventoryStatus: domain.InventoryStatusInStock,
		}
	}

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			if err := store.AddItem(ctx, products[n%productCount], 1); err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Products:         %d\n", productCount)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Printf("Cart Count:       %d\n", store.Count())
	fmt.Printf("Cart Total:       %s\n", store.Total())
	fmt.Println("==========================================")

	if store.Count() == int(success) && len(store.Items()) == productCount {
		fmt.Printf("PASS: %d adds merged into %d lines\n", success, productCount)
	} else {
		fmt.Printf("FAIL: Expected count %d over %d lines, got %d over %d\n",
			success, productCount, store.Count(), len(store.Items()))
	}

	// Reopen from Redis and compare
	restored, err := service.NewCartStore(ctx, redisAdapter, key, nil)
	if err != nil {
		log.Fatalf("failed to reopen cart: %v", err)
	}
	fmt.Printf("Restored Count:   %d\n", restored.Count())

	if restored.Count() == store.Count() && restored.Total().Equal(store.Total()) {
		fmt.Println("PASS: Snapshot matches in-memory cart")
	} else {
		fmt.Printf("FAIL: Expected restored count %d total %s, got %d total %s\n",
			store.Count(), store.Total(), restored.Count(), restored.Total())
	}

	rdb.Del(ctx, key)
}
