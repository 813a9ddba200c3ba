package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/bolbazaar/catalog-api/internal/ai"
	"github.com/bolbazaar/catalog-api/internal/config"
	"github.com/bolbazaar/catalog-api/internal/logger"
	"github.com/bolbazaar/catalog-api/internal/models"
	"github.com/bolbazaar/catalog-api/internal/repository"
	"github.com/bolbazaar/catalog-api/internal/s3"
	"github.com/bolbazaar/catalog-api/internal/voice"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ProductService is the business logic layer for catalog products.
type ProductService struct {
	Cfg          *config.Config
	Repo         repository.ProductRepo
	PriceRepo    repository.PriceRepo
	TextProvider ai.TextProvider

	deleteImage func(ctx context.Context, cfg *config.Config, s3Key string) error
}

// NewProductService is the constructor function for initializing a new ProductService.
func NewProductService(cfg *config.Config, repo repository.ProductRepo, priceRepo repository.PriceRepo, textProvider ai.TextProvider) *ProductService {
	return &ProductService{
		Cfg:          cfg,
		Repo:         repo,
		PriceRepo:    priceRepo,
		TextProvider: textProvider,
		deleteImage:  s3.DeleteProductImageFromS3,
	}
}

// ProductInput holds the fields accepted when creating or updating a product.
type ProductInput struct {
	Name        string `json:"name"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// ProductResponse is the response object for product operations.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Quantity    string    `json:"quantity"`
	Unit        string    `json:"unit"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Language    string    `json:"language"`
	ImageURL    string    `json:"image_url,omitempty"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductListResponse is a page of products plus the total count.
type ProductListResponse struct {
	Products []*ProductResponse `json:"products"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// ToProductResponse converts a Product to a ProductResponse.
func ToProductResponse(product *models.Product) *ProductResponse {
	tags := []string(product.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &ProductResponse{
		ID:          strconv.FormatUint(uint64(product.ID), 10),
		Name:        product.Name,
		Quantity:    product.Quantity,
		Unit:        product.Unit,
		Price:       product.Price,
		Category:    product.Category,
		Description: product.Description,
		Tags:        tags,
		Language:    product.Language,
		ImageURL:    product.ImageURL,
		Source:      string(product.Source),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// AddProduct validates the input, fills in the category, generates a
// description and tags when the seller has auto-describe on, and persists the
// product. AI failures never block the listing; the static templates cover
// for them.
func (s *ProductService) AddProduct(ctx context.Context, user *models.User, input ProductInput, source models.ProductSource) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("product name is required")
	}

	price, err := strconv.ParseFloat(input.Price, 64)
	if err != nil || price < 0 {
		return nil, fmt.Errorf("invalid price: %q", input.Price)
	}

	category := input.Category
	if category == "" {
		category = voice.InferCategory(name)
	}

	language := input.Language
	if language == "" && user.Settings != nil {
		language = user.Settings.PreferredLanguage
	}
	if !models.IsSupportedLanguage(language) {
		language = s.Cfg.EnvVars.DefaultLanguage
	}

	product := &models.Product{
		SellerID: user.ID,
		Name:     name,
		Quantity: input.Quantity,
		Unit:     input.Unit,
		Price:    price,
		Category: category,
		Language: language,
		Source:   source,
	}

	autoDescribe := user.Settings == nil || user.Settings.AutoDescribe
	if input.Description != "" {
		product.Description = input.Description
	} else if autoDescribe {
		product.Description = s.describeProduct(ctx, product)
	}
	if autoDescribe {
		product.Tags = s.tagProduct(ctx, product)
	}

	if err := s.Repo.CreateProduct(product); err != nil {
		return nil, err
	}

	// Feed the price history for future suggestions. Failures here are
	// logged in the repository and do not fail the add.
	s.PriceRepo.RecordPrice(&models.PriceRecord{
		ProductName: product.Name,
		Category:    product.Category,
		Price:       product.Price,
	})

	return product, nil
}

// AddFromUtterance parses a voice-style command and adds the resulting
// product. The utterance is normalized first so transcripts with spelled-out
// units still match.
func (s *ProductService) AddFromUtterance(ctx context.Context, user *models.User, utterance string) (*models.Product, error) {
	cmd, err := voice.Parse(voice.Normalize(utterance))
	if err != nil {
		return nil, err
	}

	return s.AddProduct(ctx, user, ProductInput{
		Name:     cmd.ProductName,
		Quantity: cmd.Quantity,
		Unit:     cmd.Unit,
		Price:    cmd.Price,
		Category: cmd.Category,
	}, models.SourceVoice)
}

// describeProduct generates a product description, falling back to a static
// template if the AI provider is unavailable or errors.
func (s *ProductService) describeProduct(ctx context.Context, product *models.Product) string {
	displayQuantity := strings.TrimSpace(product.Quantity + " " + product.Unit)
	req := ai.DescriptionRequest{
		Name:     product.Name,
		Category: product.Category,
		Quantity: displayQuantity,
		Price:    strconv.FormatFloat(product.Price, 'f', -1, 64),
		Language: models.SupportedLanguages[product.Language],
	}

	description, err := s.TextProvider.GenerateDescription(ctx, req)
	if err != nil {
		logger.Get().Warn("description generation failed, using template",
			zap.String("product", product.Name),
			zap.Error(err),
		)
		return FallbackDescription(product.Name, product.Category, product.Price, displayQuantity, product.Language)
	}
	return description
}

// tagProduct generates search tags, falling back to the static
// category-based tags on error.
func (s *ProductService) tagProduct(ctx context.Context, product *models.Product) []string {
	tags, err := s.TextProvider.GenerateTags(ctx, ai.TagsRequest{
		Name:     product.Name,
		Category: product.Category,
	})
	if err != nil || len(tags) == 0 {
		if err != nil {
			logger.Get().Warn("tag generation failed, using fallback",
				zap.String("product", product.Name),
				zap.Error(err),
			)
		}
		return FallbackTags(product.Name, product.Category)
	}
	return tags
}

// GetProduct retrieves a product owned by the user.
func (s *ProductService) GetProduct(user *models.User, productID uint) (*models.Product, error) {
	product, err := s.Repo.GetProductByID(productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID != user.ID {
		return nil, repository.NewNotFoundError("Product not found")
	}
	return product, nil
}

// ListProducts returns a page of the user's products.
func (s *ProductService) ListProducts(user *models.User, page, pageSize int) (*ProductListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	products, total, err := s.Repo.GetSellerProducts(user.ID, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := &ProductListResponse{
		Products: make([]*ProductResponse, 0, len(products)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range products {
		resp.Products = append(resp.Products, ToProductResponse(&products[i]))
	}
	return resp, nil
}

// SearchProducts searches the user's products by name or category.
func (s *ProductService) SearchProducts(user *models.User, query string) ([]*ProductResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is required")
	}

	products, err := s.Repo.SearchProducts(user.ID, query, 50)
	if err != nil {
		return nil, err
	}

	results := make([]*ProductResponse, 0, len(products))
	for i := range products {
		results = append(results, ToProductResponse(&products[i]))
	}
	return results, nil
}

// UpdateProduct applies partial updates to a product the user owns. Only
// non-empty input fields are applied. A changed name re-infers the category
// unless the input sets one explicitly.
func (s *ProductService) UpdateProduct(ctx context.Context, user *models.User, productID uint, input ProductInput) (*models.Product, error) {
	product, err := s.GetProduct(user, productID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name := strings.TrimSpace(input.Name); name != "" && name != product.Name {
		updates["Name"] = name
		if input.Category == "" {
			updates["Category"] = voice.InferCategory(name)
		}
	}
	if input.Category != "" {
		updates["Category"] = input.Category
	}
	if input.Quantity != "" {
		updates["Quantity"] = input.Quantity
	}
	if input.Unit != "" {
		updates["Unit"] = input.Unit
	}
	if input.Description != "" {
		updates["Description"] = input.Description
	}
	if input.Language != "" {
		if !models.IsSupportedLanguage(input.Language) {
			return nil, fmt.Errorf("unsupported language: %q", input.Language)
		}
		updates["Language"] = input.Language
	}
	if input.Price != "" {
		price, err := strconv.ParseFloat(input.Price, 64)
		if err != nil || price < 0 {
			return nil, fmt.Errorf("invalid price: %q", input.Price)
		}
		updates["Price"] = price
	}

	if len(updates) == 0 {
		return product, nil
	}

	if err := s.Repo.UpdateProduct(productID, updates); err != nil {
		return nil, err
	}

	if price, ok := updates["Price"]; ok {
		s.PriceRepo.RecordPrice(&models.PriceRecord{
			ProductName: product.Name,
			Category:    product.Category,
			Price:       price.(float64),
		})
	}

	return s.Repo.GetProductByID(productID)
}

// RegenerateDescription replaces a product's description and tags with
// freshly generated ones, in the given language if set.
func (s *ProductService) RegenerateDescription(ctx context.Context, user *models.User, productID uint, language string) (*models.Product, error) {
	product, err := s.GetProduct(user, productID)
	if err != nil {
		return nil, err
	}

	if language != "" {
		if !models.IsSupportedLanguage(language) {
			return nil, fmt.Errorf("unsupported language: %q", language)
		}
		product.Language = language
	}

	description := s.describeProduct(ctx, product)
	tags := s.tagProduct(ctx, product)

	err = s.Repo.UpdateProduct(productID, map[string]interface{}{
		"Description": description,
		"Tags":        pq.StringArray(tags),
		"Language":    product.Language,
	})
	if err != nil {
		return nil, err
	}

	return s.Repo.GetProductByID(productID)
}

// DeleteProduct deletes a product the user owns.
func (s *ProductService) DeleteProduct(ctx context.Context, user *models.User, productID uint) error {
	product, err := s.GetProduct(user, productID)
	if err != nil {
		return err
	}

	if err := s.Repo.DeleteProduct(productID); err != nil {
		return err
	}

	// Remove the stored image alongside the row
	if product.ImageURL != "" {
		s3Key := s3.GenerateS3Key(product.ID, path.Ext(product.ImageURL))
		if err := s.deleteImage(ctx, s.Cfg, s3Key); err != nil {
			return fmt.Errorf("failed to delete product image from S3: %w", err)
		}
	}

	return nil
}

// CategorizeProduct returns the inferred category for a product name without
// persisting anything.
func (s *ProductService) CategorizeProduct(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("product name is required")
	}
	return voice.InferCategory(name), nil
}
