package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bolbazaar/catalog-api/internal/ai"
	"github.com/bolbazaar/catalog-api/internal/service"
	"github.com/bolbazaar/catalog-api/internal/testutil"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestProductHandler() (*ProductHandler, *testutil.MockProductRepo, *testutil.MockPriceRepo) {
	repo := testutil.NewMockProductRepo()
	priceRepo := testutil.NewMockPriceRepo()
	text := &testutil.MockTextProvider{
		GenerateDescriptionFunc: func(ctx context.Context, req ai.DescriptionRequest) (string, error) {
			return "Test description", nil
		},
		GenerateTagsFunc: func(ctx context.Context, req ai.TagsRequest) ([]string, error) {
			return []string{"fresh"}, nil
		},
	}
	cfg := testutil.TestConfig()
	productService := service.NewProductService(cfg, repo, priceRepo, text)
	priceService := service.NewPriceService(cfg, priceRepo)
	return NewProductHandler(productService, priceService), repo, priceRepo
}

// attachTestUser injects a fixed seller into the request context, standing in
// for the auth middleware chain.
func attachTestUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", testutil.TestUser())
		c.Next()
	}
}

func TestCreateProduct_Handler_Success(t *testing.T) {
	handler, _, _ := newTestProductHandler()

	r := gin.New()
	r.POST("/products", attachTestUser(), handler.CreateProduct)

	body := `{
		"name": "tomatoes",
		"quantity": "1",
		"unit": "kg",
		"price": "30"
	}`
	req := httptest.NewRequest("POST", "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		Product service.ProductResponse `json:"product"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Product.Name != "tomatoes" {
		t.Errorf("product name = %q", resp.Product.Name)
	}
	if resp.Product.Category != "Vegetables" {
		t.Errorf("category = %q, want 'Vegetables'", resp.Product.Category)
	}
	if resp.Product.Source != "manual" {
		t.Errorf("source = %q, want 'manual'", resp.Product.Source)
	}
}

func TestCreateProduct_Handler_InvalidPrice(t *testing.T) {
	handler, _, _ := newTestProductHandler()

	r := gin.New()
	r.POST("/products", attachTestUser(), handler.CreateProduct)

	body := `{"name": "tomatoes", "price": "free"}`
	req := httptest.NewRequest("POST", "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGetProduct_Handler_NotFound(t *testing.T) {
	handler, _, _ := newTestProductHandler()

	r := gin.New()
	r.GET("/products/:id", attachTestUser(), handler.GetProduct)

	req := httptest.NewRequest("GET", "/products/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGetProduct_Handler_BadID(t *testing.T) {
	handler, _, _ := newTestProductHandler()

	r := gin.New()
	r.GET("/products/:id", attachTestUser(), handler.GetProduct)

	req := httptest.NewRequest("GET", "/products/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestListProducts_Handler(t *testing.T) {
	handler, repo, _ := newTestProductHandler()

	for i := 0; i < 3; i++ {
		p := testutil.TestProduct()
		p.ID = 0
		repo.CreateProduct(p)
	}

	r := gin.New()
	r.GET("/products", attachTestUser(), handler.ListProducts)

	req := httptest.NewRequest("GET", "/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp service.ProductListResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}
	if len(resp.Products) != 3 {
		t.Errorf("products len = %d, want 3", len(resp.Products))
	}
}

func TestCategorizeProduct_Handler(t *testing.T) {
	handler, _, _ := newTestProductHandler()

	r := gin.New()
	r.POST("/products/categorize", attachTestUser(), handler.CategorizeProduct)

	body := `{"name": "alphonso mango"}`
	req := httptest.NewRequest("POST", "/products/categorize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["category"] != "Fruits" {
		t.Errorf("category = %q, want 'Fruits'", resp["category"])
	}
}

func TestListCategories_Handler(t *testing.T) {
	handler, _, _ := newTestProductHandler()

	r := gin.New()
	r.GET("/categories", attachTestUser(), handler.ListCategories)

	req := httptest.NewRequest("GET", "/categories", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Categories []string `json:"categories"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Categories) == 0 {
		t.Fatal("categories should not be empty")
	}
	if resp.Categories[0] != "Vegetables" {
		t.Errorf("first category = %q, want 'Vegetables'", resp.Categories[0])
	}
	if resp.Categories[len(resp.Categories)-1] != "Other" {
		t.Errorf("last category = %q, want 'Other'", resp.Categories[len(resp.Categories)-1])
	}
}

func TestSuggestPrice_Handler(t *testing.T) {
	handler, _, _ := newTestProductHandler()

	r := gin.New()
	r.GET("/prices/suggest", attachTestUser(), handler.SuggestPrice)

	req := httptest.NewRequest("GET", "/prices/suggest?name=tomato&quantity=1kg", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var suggestion service.PriceSuggestion
	json.Unmarshal(w.Body.Bytes(), &suggestion)
	if suggestion.SuggestedPrice != 35 {
		t.Errorf("suggested_price = %v, want 35", suggestion.SuggestedPrice)
	}
}

func TestSuggestPrice_Handler_MissingName(t *testing.T) {
	handler, _, _ := newTestProductHandler()

	r := gin.New()
	r.GET("/prices/suggest", attachTestUser(), handler.SuggestPrice)

	req := httptest.NewRequest("GET", "/prices/suggest", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDeleteProduct_Handler(t *testing.T) {
	handler, repo, _ := newTestProductHandler()

	p := testutil.TestProduct()
	p.ID = 0
	repo.CreateProduct(p)

	r := gin.New()
	r.DELETE("/products/:id", attachTestUser(), handler.DeleteProduct)

	req := httptest.NewRequest("DELETE", "/products/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if len(repo.Products) != 0 {
		t.Errorf("products remaining = %d, want 0", len(repo.Products))
	}
}
