package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bolbazaar/catalog-api/internal/ai"
	"github.com/bolbazaar/catalog-api/internal/config"
	"github.com/bolbazaar/catalog-api/internal/models"
	"github.com/bolbazaar/catalog-api/internal/repository"
	"github.com/bolbazaar/catalog-api/internal/testutil"
	"github.com/bolbazaar/catalog-api/internal/voice"
)

func newTestProductService(repo *testutil.MockProductRepo, priceRepo *testutil.MockPriceRepo, text *testutil.MockTextProvider) *ProductService {
	if text == nil {
		text = &testutil.MockTextProvider{
			GenerateDescriptionFunc: func(ctx context.Context, req ai.DescriptionRequest) (string, error) {
				return "Generated description for " + req.Name, nil
			},
			GenerateTagsFunc: func(ctx context.Context, req ai.TagsRequest) ([]string, error) {
				return []string{"fresh", "local"}, nil
			},
		}
	}
	return NewProductService(testutil.TestConfig(), repo, priceRepo, text)
}

func TestAddProduct_Success(t *testing.T) {
	repo := testutil.NewMockProductRepo()
	priceRepo := testutil.NewMockPriceRepo()
	svc := newTestProductService(repo, priceRepo, nil)
	user := testutil.TestUser()

	product, err := svc.AddProduct(context.Background(), user, ProductInput{
		Name:     "tomatoes",
		Quantity: "1",
		Unit:     "kg",
		Price:    "30",
	}, models.SourceVoice)
	if err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}
	if product.Name != "tomatoes" {
		t.Errorf("Name = %q", product.Name)
	}
	if product.Price != 30 {
		t.Errorf("Price = %v, want 30", product.Price)
	}
	if product.Category != "Vegetables" {
		t.Errorf("Category = %q, want 'Vegetables' (inferred)", product.Category)
	}
	if product.Source != models.SourceVoice {
		t.Errorf("Source = %q, want 'voice'", product.Source)
	}
	if product.Description == "" {
		t.Error("Description should be auto-generated")
	}
	if len(product.Tags) == 0 {
		t.Error("Tags should be auto-generated")
	}
	if len(priceRepo.Records) != 1 {
		t.Errorf("price history records = %d, want 1", len(priceRepo.Records))
	}
}

func TestAddProduct_InvalidPrice(t *testing.T) {
	svc := newTestProductService(testutil.NewMockProductRepo(), testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()

	for _, price := range []string{"", "abc", "-5"} {
		_, err := svc.AddProduct(context.Background(), user, ProductInput{
			Name:  "tomatoes",
			Price: price,
		}, models.SourceManual)
		if err == nil {
			t.Errorf("AddProduct with price %q should fail", price)
		}
	}
}

func TestAddProduct_EmptyName(t *testing.T) {
	svc := newTestProductService(testutil.NewMockProductRepo(), testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()

	_, err := svc.AddProduct(context.Background(), user, ProductInput{
		Name:  "   ",
		Price: "30",
	}, models.SourceManual)
	if err == nil {
		t.Fatal("AddProduct with blank name should fail")
	}
}

func TestAddProduct_ExplicitCategoryWins(t *testing.T) {
	svc := newTestProductService(testutil.NewMockProductRepo(), testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()

	product, err := svc.AddProduct(context.Background(), user, ProductInput{
		Name:     "tomatoes",
		Price:    "30",
		Category: "Snacks",
	}, models.SourceManual)
	if err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}
	if product.Category != "Snacks" {
		t.Errorf("Category = %q, explicit category should not be re-inferred", product.Category)
	}
}

func TestAddProduct_AIFailureFallsBackToTemplate(t *testing.T) {
	text := &testutil.MockTextProvider{
		GenerateDescriptionFunc: func(ctx context.Context, req ai.DescriptionRequest) (string, error) {
			return "", errors.New("provider down")
		},
		GenerateTagsFunc: func(ctx context.Context, req ai.TagsRequest) ([]string, error) {
			return nil, errors.New("provider down")
		},
	}
	svc := newTestProductService(testutil.NewMockProductRepo(), testutil.NewMockPriceRepo(), text)
	user := testutil.TestUser()

	product, err := svc.AddProduct(context.Background(), user, ProductInput{
		Name:     "tomatoes",
		Quantity: "1",
		Unit:     "kg",
		Price:    "30",
	}, models.SourceVoice)
	if err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}
	if !strings.Contains(product.Description, "tomatoes") {
		t.Errorf("fallback description should mention the product, got %q", product.Description)
	}
	if len(product.Tags) == 0 {
		t.Error("fallback tags should not be empty")
	}
}

func TestAddProduct_AutoDescribeOff(t *testing.T) {
	svc := newTestProductService(testutil.NewMockProductRepo(), testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()
	user.Settings.AutoDescribe = false

	product, err := svc.AddProduct(context.Background(), user, ProductInput{
		Name:  "tomatoes",
		Price: "30",
	}, models.SourceManual)
	if err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}
	if product.Description != "" {
		t.Errorf("Description should be empty with auto-describe off, got %q", product.Description)
	}
}

func TestAddFromUtterance_Success(t *testing.T) {
	repo := testutil.NewMockProductRepo()
	svc := newTestProductService(repo, testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()

	product, err := svc.AddFromUtterance(context.Background(), user, "Add 1kg tomatoes for ₹30")
	if err != nil {
		t.Fatalf("AddFromUtterance error: %v", err)
	}
	if product.Name != "tomatoes" {
		t.Errorf("Name = %q", product.Name)
	}
	if product.Quantity != "1" || product.Unit != "kg" {
		t.Errorf("Quantity/Unit = %q/%q, want 1/kg", product.Quantity, product.Unit)
	}
	if product.Price != 30 {
		t.Errorf("Price = %v, want 30", product.Price)
	}
	if product.Source != models.SourceVoice {
		t.Errorf("Source = %q, want 'voice'", product.Source)
	}
}

func TestAddFromUtterance_NormalizesUnits(t *testing.T) {
	svc := newTestProductService(testutil.NewMockProductRepo(), testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()

	product, err := svc.AddFromUtterance(context.Background(), user, "add 2 kilos onions 50 rupees")
	if err != nil {
		t.Fatalf("AddFromUtterance error: %v", err)
	}
	if product.Unit != "kg" {
		t.Errorf("Unit = %q, want 'kg' (normalized from kilos)", product.Unit)
	}
}

func TestAddFromUtterance_NoMatch(t *testing.T) {
	svc := newTestProductService(testutil.NewMockProductRepo(), testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()

	_, err := svc.AddFromUtterance(context.Background(), user, "hello there")
	if !errors.Is(err, voice.ErrNoMatch) {
		t.Fatalf("error = %v, want ErrNoMatch", err)
	}
}

func TestGetProduct_OwnershipEnforced(t *testing.T) {
	repo := testutil.NewMockProductRepo()
	svc := newTestProductService(repo, testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()

	other := testutil.TestProduct()
	other.SellerID = 99
	repo.CreateProduct(other)

	_, err := svc.GetProduct(user, other.ID)
	var notFound repository.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want NotFoundError for another seller's product", err)
	}
}

func TestListProducts_Pagination(t *testing.T) {
	repo := testutil.NewMockProductRepo()
	svc := newTestProductService(repo, testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()

	for i := 0; i < 25; i++ {
		p := testutil.TestProduct()
		p.ID = 0
		repo.CreateProduct(p)
	}

	resp, err := svc.ListProducts(user, 2, 10)
	if err != nil {
		t.Fatalf("ListProducts error: %v", err)
	}
	if resp.Total != 25 {
		t.Errorf("Total = %d, want 25", resp.Total)
	}
	if len(resp.Products) != 10 {
		t.Errorf("page len = %d, want 10", len(resp.Products))
	}
	if resp.Page != 2 {
		t.Errorf("Page = %d, want 2", resp.Page)
	}
}

func TestSearchProducts_EmptyQuery(t *testing.T) {
	svc := newTestProductService(testutil.NewMockProductRepo(), testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()

	if _, err := svc.SearchProducts(user, "   "); err == nil {
		t.Fatal("SearchProducts with blank query should fail")
	}
}

func TestUpdateProduct_PartialUpdate(t *testing.T) {
	repo := testutil.NewMockProductRepo()
	priceRepo := testutil.NewMockPriceRepo()
	svc := newTestProductService(repo, priceRepo, nil)
	user := testutil.TestUser()

	p := testutil.TestProduct()
	p.ID = 0
	repo.CreateProduct(p)

	updated, err := svc.UpdateProduct(context.Background(), user, p.ID, ProductInput{Price: "45"})
	if err != nil {
		t.Fatalf("UpdateProduct error: %v", err)
	}
	if updated.Price != 45 {
		t.Errorf("Price = %v, want 45", updated.Price)
	}
	if updated.Name != "tomatoes" {
		t.Errorf("Name changed unexpectedly: %q", updated.Name)
	}
	if len(priceRepo.Records) != 1 {
		t.Errorf("price update should be recorded, got %d records", len(priceRepo.Records))
	}
}

func TestUpdateProduct_NameChangeReinfersCategory(t *testing.T) {
	repo := testutil.NewMockProductRepo()
	svc := newTestProductService(repo, testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()

	p := testutil.TestProduct()
	p.ID = 0
	repo.CreateProduct(p)

	updated, err := svc.UpdateProduct(context.Background(), user, p.ID, ProductInput{Name: "basmati rice"})
	if err != nil {
		t.Fatalf("UpdateProduct error: %v", err)
	}
	if updated.Category != "Grains" {
		t.Errorf("Category = %q, want 'Grains' after rename", updated.Category)
	}
}

func TestDeleteProduct(t *testing.T) {
	repo := testutil.NewMockProductRepo()
	svc := newTestProductService(repo, testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()

	p := testutil.TestProduct()
	p.ID = 0
	repo.CreateProduct(p)

	var deletedKeys []string
	svc.deleteImage = func(ctx context.Context, cfg *config.Config, s3Key string) error {
		deletedKeys = append(deletedKeys, s3Key)
		return nil
	}

	if err := svc.DeleteProduct(context.Background(), user, p.ID); err != nil {
		t.Fatalf("DeleteProduct error: %v", err)
	}
	if _, err := svc.GetProduct(user, p.ID); err == nil {
		t.Error("product should be gone after delete")
	}
	if len(deletedKeys) != 0 {
		t.Errorf("no image delete expected for a product without an image, got %v", deletedKeys)
	}
}

func TestDeleteProduct_RemovesStoredImage(t *testing.T) {
	repo := testutil.NewMockProductRepo()
	svc := newTestProductService(repo, testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()

	p := testutil.TestProduct()
	p.ID = 0
	repo.CreateProduct(p)
	repo.UpdateProductImageURL(p.ID, "https://bucket.s3.amazonaws.com/products/1/images/product_image_1.png")

	var deletedKeys []string
	svc.deleteImage = func(ctx context.Context, cfg *config.Config, s3Key string) error {
		deletedKeys = append(deletedKeys, s3Key)
		return nil
	}

	if err := svc.DeleteProduct(context.Background(), user, p.ID); err != nil {
		t.Fatalf("DeleteProduct error: %v", err)
	}
	if len(deletedKeys) != 1 {
		t.Fatalf("image deletes = %d, want 1", len(deletedKeys))
	}
	want := "products/1/images/product_image_1.png"
	if deletedKeys[0] != want {
		t.Errorf("deleted key = %q, want %q", deletedKeys[0], want)
	}
}

func TestDeleteProduct_ImageDeleteFailure(t *testing.T) {
	repo := testutil.NewMockProductRepo()
	svc := newTestProductService(repo, testutil.NewMockPriceRepo(), nil)
	user := testutil.TestUser()

	p := testutil.TestProduct()
	p.ID = 0
	repo.CreateProduct(p)
	repo.UpdateProductImageURL(p.ID, "https://bucket.s3.amazonaws.com/products/1/images/product_image_1.jpg")

	svc.deleteImage = func(ctx context.Context, cfg *config.Config, s3Key string) error {
		return errTest
	}

	if err := svc.DeleteProduct(context.Background(), user, p.ID); err == nil {
		t.Fatal("DeleteProduct should surface the image delete failure")
	}
}

func TestCategorizeProduct(t *testing.T) {
	svc := newTestProductService(testutil.NewMockProductRepo(), testutil.NewMockPriceRepo(), nil)

	category, err := svc.CategorizeProduct("fresh paneer")
	if err != nil {
		t.Fatalf("CategorizeProduct error: %v", err)
	}
	if category != "Dairy" {
		t.Errorf("category = %q, want 'Dairy'", category)
	}

	if _, err := svc.CategorizeProduct(""); err == nil {
		t.Error("CategorizeProduct with empty name should fail")
	}
}
