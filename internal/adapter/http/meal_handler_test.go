package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dulcecostawork-hub/minifood-api/internal/adapter/cache"
	"github.com/dulcecostawork-hub/minifood-api/internal/adapter/catalog"
	"github.com/dulcecostawork-hub/minifood-api/internal/adapter/queue"
	"github.com/dulcecostawork-hub/minifood-api/internal/idgen"
	"github.com/dulcecostawork-hub/minifood-api/internal/logging"
	"github.com/dulcecostawork-hub/minifood-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	dir, _ := os.MkdirTemp("", "minifood-test")
	logging.Init("test", filepath.Join(dir, "app.log"), "info")
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestRouter() (*gin.Engine, *catalog.Store) {
	store := catalog.NewStore()
	cart := usecase.NewCartCheck(store)
	checkout := usecase.NewCheckout(
		store,
		idgen.NewClock(),
		cache.NewMemoryIdempotencyStore(time.Minute),
		queue.NoopPublisher{},
		10.0,
		logging.New("checkout"),
	)
	return NewRouter(NewMealHandler(store, cart, checkout)), store
}

func doJSON(r *gin.Engine, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])
}

func TestListMeals(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodGet, "/api/meals", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var meals []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meals))
	require.Len(t, meals, 4)
	assert.Equal(t, float64(1), meals[0]["id"])
	assert.Equal(t, 11.9, meals[0]["price"])
	assert.Equal(t, float64(0), meals[2]["stock"])
}

func TestCartHappyPath(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/cart", `{"mealId":1,"qty":2}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	item := body["item"].(map[string]any)
	assert.Equal(t, float64(1), item["mealId"])
	assert.Equal(t, float64(2), item["qty"])
	assert.Equal(t, 11.9, item["unitPrice"])
}

func TestCartNotFound(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/cart", `{"mealId":99,"qty":1}`, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decode(t, w)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.NotEmpty(t, body["message"])
}

func TestCartEmptyBodyIsNotFound(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/cart", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w)["code"])
}

func TestCartQtyBounds(t *testing.T) {
	r, _ := newTestRouter()

	for _, body := range []string{
		`{"mealId":1,"qty":0}`,
		`{"mealId":1,"qty":11}`,
		`{"mealId":1,"qty":2.5}`,
	} {
		w := doJSON(r, http.MethodPost, "/api/cart", body, nil)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
		assert.Equal(t, "INVALID_QTY", decode(t, w)["code"])
	}
}

func TestCartOutOfStock(t *testing.T) {
	r, _ := newTestRouter()

	// meal 2 has 3 in stock
	w := doJSON(r, http.MethodPost, "/api/cart", `{"mealId":2,"qty":4}`, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	body := decode(t, w)
	assert.Equal(t, "OUT_OF_STOCK", body["code"])
	assert.Equal(t, float64(3), body["available"])
}

func TestCheckoutEmptyCart(t *testing.T) {
	r, _ := newTestRouter()

	for _, body := range []string{`{"items":[],"customer":{"acceptTerms":true}}`, ""} {
		w := doJSON(r, http.MethodPost, "/api/checkout", body, nil)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "INVALID_CART", decode(t, w)["code"])
	}
}

func TestCheckoutSoldOut(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/checkout",
		`{"items":[{"mealId":3,"qty":1}],"customer":{"email":"a@b.pt","acceptTerms":true}}`, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	body := decode(t, w)
	assert.Equal(t, "OUT_OF_STOCK", body["code"])
	details := body["details"].(map[string]any)
	assert.Equal(t, float64(3), details["mealId"])
	assert.Equal(t, float64(0), details["available"])
}

func TestCheckoutInvalidQtyPath(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/checkout",
		`{"items":[{"mealId":1,"qty":0}],"customer":{"acceptTerms":true}}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decode(t, w)
	assert.Equal(t, "INVALID_QTY", body["code"])
	assert.Equal(t, "items[].qty", body["path"])
}

func TestCheckoutTermsNotAccepted(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/checkout",
		`{"items":[{"mealId":1,"qty":1}],"customer":{"email":"a@b.pt","acceptTerms":false}}`, nil)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "TERMS_NOT_ACCEPTED", decode(t, w)["code"])
}

func TestCheckoutMinOrderNotMet(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/checkout",
		`{"items":[{"mealId":2,"qty":1}],"customer":{"email":"a@b.pt","acceptTerms":true}}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, "MIN_ORDER_NOT_MET", body["code"])
	assert.Equal(t, float64(10), body["minimum"])
	assert.Equal(t, 9.5, body["total"])
}

func TestCheckoutSuccessAndStockVisible(t *testing.T) {
	r, store := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/checkout",
		`{"items":[{"mealId":1,"qty":1}],"customer":{"email":"a@b.pt","acceptTerms":true}}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, 11.9, body["total"])
	assert.NotZero(t, body["orderId"])

	m, ok := store.FindByID(1)
	require.True(t, ok)
	assert.Equal(t, 4, m.Stock)

	// and the listing reflects it
	lw := doJSON(r, http.MethodGet, "/api/meals", "", nil)
	var meals []map[string]any
	require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &meals))
	assert.Equal(t, float64(4), meals[0]["stock"])
}

func TestCheckoutQtyCapAsymmetry(t *testing.T) {
	r, _ := newTestRouter()

	// the cart check rejects 11 outright...
	w := doJSON(r, http.MethodPost, "/api/cart", `{"mealId":4,"qty":11}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_QTY", decode(t, w)["code"])

	// ...checkout accepts the shape and only trips on stock (meal 4 has 8)
	cw := doJSON(r, http.MethodPost, "/api/checkout",
		`{"items":[{"mealId":4,"qty":11}],"customer":{"email":"a@b.pt","acceptTerms":true}}`, nil)
	require.Equal(t, http.StatusConflict, cw.Code)
	assert.Equal(t, "OUT_OF_STOCK", decode(t, cw)["code"])
}

func TestCheckoutNoPartialCommitOverHTTP(t *testing.T) {
	r, store := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/checkout",
		`{"items":[{"mealId":1,"qty":2},{"mealId":3,"qty":1}],"customer":{"email":"a@b.pt","acceptTerms":true}}`, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	m, _ := store.FindByID(1)
	assert.Equal(t, 5, m.Stock, "failed checkout must not touch stock")
}

func TestCheckoutIdempotencyReplay(t *testing.T) {
	r, store := newTestRouter()
	hdr := map[string]string{"X-Idempotency-Key": "abc-123"}
	body := `{"items":[{"mealId":1,"qty":1}],"customer":{"email":"a@b.pt","acceptTerms":true}}`

	first := doJSON(r, http.MethodPost, "/api/checkout", body, hdr)
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(r, http.MethodPost, "/api/checkout", body, hdr)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, decode(t, first)["orderId"], decode(t, second)["orderId"])

	m, _ := store.FindByID(1)
	assert.Equal(t, 4, m.Stock, "replay must not decrement twice")
}

func TestCheckoutRetryAfterFaultSameKey(t *testing.T) {
	r, _ := newTestRouter()
	hdr := map[string]string{"X-Idempotency-Key": "key-retry"}
	body := `{"items":[{"mealId":3,"qty":1}],"customer":{"email":"a@b.pt","acceptTerms":true}}`

	first := doJSON(r, http.MethodPost, "/api/checkout", body, hdr)
	require.Equal(t, http.StatusConflict, first.Code)
	assert.Equal(t, "OUT_OF_STOCK", decode(t, first)["code"])

	// nothing is in flight after a failure: the retry repeats the fault
	second := doJSON(r, http.MethodPost, "/api/checkout", body, hdr)
	require.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, "OUT_OF_STOCK", decode(t, second)["code"])
}

func TestAdminReset(t *testing.T) {
	r, store := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/checkout",
		`{"items":[{"mealId":1,"qty":1}],"customer":{"email":"a@b.pt","acceptTerms":true}}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	rw := doJSON(r, http.MethodPost, "/api/admin/reset", "", nil)
	require.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, true, decode(t, rw)["ok"])

	m, _ := store.FindByID(1)
	assert.Equal(t, 5, m.Stock)
}
