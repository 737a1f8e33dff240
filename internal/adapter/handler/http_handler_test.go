package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/cart-store/internal/adapter/storage"
	"github.com/rl1809/cart-store/internal/core/domain"
	"github.com/rl1809/cart-store/internal/core/service"
)

type fakeCatalog struct {
	products map[int64]domain.Product
}

func (c fakeCatalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c fakeCatalog) ListProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	var content []domain.Product
	for _, p := range c.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Status != "" && p.InventoryStatus != filter.Status {
			continue
		}
		content = append(content, p)
	}
	return domain.NewProductPage(content, len(content), filter), nil
}

func newTestServices() (*service.CartService, *service.WishlistService) {
	catalog := fakeCatalog{products: map[int64]domain.Product{
		1: {ID: 1, Code: "P001", Name: "Smartphone Pro", Category: "Electronics", Price: decimal.NewFromInt(10), InventoryStatus: domain.InventoryStatusInStock},
		2: {ID: 2, Code: "P002", Name: "Laptop Ultra", Category: "Computers", Price: decimal.NewFromInt(5), InventoryStatus: domain.InventoryStatusLowStock},
	}}
	snapshots := storage.NewMemoryAdapter()
	carts := service.NewCartService(service.NewCartRegistry(snapshots, nil), catalog, nil)
	wishlists := service.NewWishlistService(service.NewWishlistRegistry(snapshots, nil), catalog, nil)
	return carts, wishlists
}

func newTestRouter() *mux.Router {
	carts, wishlists := newTestServices()
	r := mux.NewRouter()
	NewHTTPHandler(carts, wishlists, nil).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path, session, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if session != "" {
		req.Header.Set(SessionHeader, session)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) domain.CartView {
	t.Helper()
	var view domain.CartView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	return view
}

func TestHTTP_AddItemIssuesSession(t *testing.T) {
	r := newTestRouter()

	rec := do(t, r, http.MethodPost, "/api/cart/items", "", `{"productId":1,"quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	session := rec.Header().Get(SessionHeader)
	_, err := uuid.Parse(session)
	require.NoError(t, err, "expected a uuid session id")

	view := decodeView(t, rec)
	assert.Equal(t, 2, view.Count)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(20)), "total = %s", view.Total)

	rec = do(t, r, http.MethodGet, "/api/cart", session, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session, rec.Header().Get(SessionHeader))
	assert.Equal(t, 2, decodeView(t, rec).Count)
}

func TestHTTP_CartScenario(t *testing.T) {
	r := newTestRouter()
	const session = "scenario"

	do(t, r, http.MethodPost, "/api/cart/items", session, `{"productId":1,"quantity":2}`)

	// quantity defaults to one
	rec := do(t, r, http.MethodPost, "/api/cart/items", session, `{"productId":2}`)
	view := decodeView(t, rec)
	assert.Equal(t, 3, view.Count)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(25)))

	rec = do(t, r, http.MethodPut, "/api/cart/items/1", session, `{"quantity":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	assert.Equal(t, 1, view.Count)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(5)))
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(2), view.Items[0].Product.ID)

	rec = do(t, r, http.MethodDelete, "/api/cart/items/2", session, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeView(t, rec).Count)

	do(t, r, http.MethodPost, "/api/cart/items", session, `{"productId":1,"quantity":4}`)
	rec = do(t, r, http.MethodDelete, "/api/cart", session, "")
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	assert.Equal(t, 0, view.Count)
	assert.Empty(t, view.Items)
}

func TestHTTP_RemoveAbsentIsNoop(t *testing.T) {
	r := newTestRouter()

	do(t, r, http.MethodPost, "/api/cart/items", "s", `{"productId":1,"quantity":1}`)
	rec := do(t, r, http.MethodDelete, "/api/cart/items/99", "s", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeView(t, rec).Count)
}

func TestHTTP_AddItemErrors(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid body", `{`, http.StatusBadRequest},
		{"missing product", `{"quantity":1}`, http.StatusBadRequest},
		{"zero quantity", `{"productId":1,"quantity":0}`, http.StatusBadRequest},
		{"unknown product", `{"productId":42,"quantity":1}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/api/cart/items", "s", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var resp ErrorHTTPResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestHTTP_UpdateRequiresQuantity(t *testing.T) {
	r := newTestRouter()

	rec := do(t, r, http.MethodPut, "/api/cart/items/1", "s", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTP_Products(t *testing.T) {
	r := newTestRouter()

	rec := do(t, r, http.MethodGet, "/api/products?category=Computers", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page domain.ProductPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, 1, page.TotalElements)
	assert.Equal(t, domain.DefaultPageSize, page.Size)

	rec = do(t, r, http.MethodGet, "/api/products?status=BROKEN", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/products?page=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTP_GetProduct(t *testing.T) {
	r := newTestRouter()

	rec := do(t, r, http.MethodGet, "/api/products/2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var p domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, "P002", p.Code)

	rec = do(t, r, http.MethodGet, "/api/products/77", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTP_HealthCheck(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHTTP_Wishlist(t *testing.T) {
	r := newTestRouter()
	const session = "wishlist"

	rec := do(t, r, http.MethodPost, "/api/wishlist/items", session, `{"productId":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var view domain.WishlistView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, "P002", view.Items[0].Product.Code)

	rec = do(t, r, http.MethodPost, "/api/wishlist/items", session, `{"productId":2}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/wishlist/items", session, `{"productId":42}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/wishlist/items/2", session, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"productId":2,"inWishlist":true}`, rec.Body.String())

	rec = do(t, r, http.MethodDelete, "/api/wishlist/items/2", session, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/wishlist", session, "")
	require.Equal(t, http.StatusOK, rec.Code)
	view = domain.WishlistView{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, 0, view.Count)
	assert.NotNil(t, view.Items)

	// the cart is untouched
	rec = do(t, r, http.MethodGet, "/api/cart", session, "")
	assert.Equal(t, 0, decodeView(t, rec).Count)
}
