package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/wyfcoding/storefront/internal/cart/application"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence/mysql"
	"github.com/wyfcoding/storefront/pkg/db"
)

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	d, err := db.Init(db.Config{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := d.Migrate(&mysql.CartModel{}, &mysql.CartItemModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	r := gin.New()
	NewCartHandler(application.NewCartService(mysql.NewCartRepository(d.DB))).RegisterRoutes(r)
	return r
}

func call(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func items(t *testing.T, r *gin.Engine, userID string) []domain.CartItem {
	t.Helper()
	w := call(r, http.MethodGet, "/api/cart/"+userID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get cart: %d", w.Code)
	}
	var out []domain.CartItem
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestAddMergesQuantities(t *testing.T) {
	g := NewWithT(t)
	r := setup(t)

	g.Expect(items(t, r, "u1")).To(BeEmpty())

	add := gin.H{"userId": "u1", "productId": "p1", "name": "iPhone 15 Pro", "price": 999}
	g.Expect(call(r, http.MethodPost, "/api/cart/add", add).Code).To(Equal(http.StatusOK))
	add["qty"] = 2
	g.Expect(call(r, http.MethodPost, "/api/cart/add", add).Code).To(Equal(http.StatusOK))
	g.Expect(call(r, http.MethodPost, "/api/cart/add", gin.H{
		"userId": "u1", "productId": "p2", "name": "Premium Cotton T-Shirt", "price": 25,
	}).Code).To(Equal(http.StatusOK))

	got := items(t, r, "u1")
	g.Expect(got).To(HaveLen(2))
	g.Expect(got[0].ID).To(Equal("p1"))
	g.Expect(got[0].Qty).To(Equal(3))
	g.Expect(got[1].Qty).To(Equal(1))
}

func TestAddValidation(t *testing.T) {
	g := NewWithT(t)
	r := setup(t)

	w := call(r, http.MethodPost, "/api/cart/add", gin.H{"userId": "u1", "name": "x", "price": 1})
	g.Expect(w.Code).To(Equal(http.StatusBadRequest))
}

func TestUpdateRemoveAndClear(t *testing.T) {
	g := NewWithT(t)
	r := setup(t)

	w := call(r, http.MethodPut, "/api/cart/update", gin.H{"userId": "u1", "itemId": "p1", "qty": 2})
	g.Expect(w.Code).To(Equal(http.StatusNotFound))

	call(r, http.MethodPost, "/api/cart/add", gin.H{"userId": "u1", "productId": "p1", "name": "A", "price": 10})
	call(r, http.MethodPost, "/api/cart/add", gin.H{"userId": "u1", "productId": "p2", "name": "B", "price": 20})

	w = call(r, http.MethodPut, "/api/cart/update", gin.H{"userId": "u1", "itemId": "p1", "qty": 0})
	g.Expect(w.Code).To(Equal(http.StatusBadRequest))

	w = call(r, http.MethodPut, "/api/cart/update", gin.H{"userId": "u1", "itemId": "nope", "qty": 2})
	g.Expect(w.Code).To(Equal(http.StatusNotFound))

	w = call(r, http.MethodPut, "/api/cart/update", gin.H{"userId": "u1", "itemId": "p1", "qty": 5})
	g.Expect(w.Code).To(Equal(http.StatusOK))
	g.Expect(items(t, r, "u1")[0].Qty).To(Equal(5))

	w = call(r, http.MethodPut, "/api/cart/remove", gin.H{"userId": "u1", "itemId": "p1"})
	g.Expect(w.Code).To(Equal(http.StatusOK))
	g.Expect(items(t, r, "u1")).To(HaveLen(1))

	w = call(r, http.MethodDelete, "/api/cart/u1/p2", nil)
	g.Expect(w.Code).To(Equal(http.StatusOK))
	g.Expect(items(t, r, "u1")).To(BeEmpty())

	call(r, http.MethodPost, "/api/cart/add", gin.H{"userId": "u1", "productId": "p3", "name": "C", "price": 5})
	w = call(r, http.MethodDelete, "/api/cart/u1", nil)
	g.Expect(w.Code).To(Equal(http.StatusOK))
	g.Expect(items(t, r, "u1")).To(BeEmpty())
}
