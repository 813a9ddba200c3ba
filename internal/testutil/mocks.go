package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bolbazaar/catalog-api/internal/ai"
	"github.com/bolbazaar/catalog-api/internal/models"
	"github.com/bolbazaar/catalog-api/internal/repository"
	"github.com/lib/pq"
)

// --- MockTextProvider ---

// MockTextProvider is a mock implementation of ai.TextProvider.
type MockTextProvider struct {
	GenerateDescriptionFunc func(ctx context.Context, req ai.DescriptionRequest) (string, error)
	GenerateTagsFunc        func(ctx context.Context, req ai.TagsRequest) ([]string, error)
}

func (m *MockTextProvider) GenerateDescription(ctx context.Context, req ai.DescriptionRequest) (string, error) {
	if m.GenerateDescriptionFunc != nil {
		return m.GenerateDescriptionFunc(ctx, req)
	}
	return "", fmt.Errorf("GenerateDescription not configured")
}

func (m *MockTextProvider) GenerateTags(ctx context.Context, req ai.TagsRequest) ([]string, error) {
	if m.GenerateTagsFunc != nil {
		return m.GenerateTagsFunc(ctx, req)
	}
	return nil, fmt.Errorf("GenerateTags not configured")
}

// --- MockSpeechProvider ---

// MockSpeechProvider is a mock implementation of ai.SpeechProvider.
type MockSpeechProvider struct {
	TranscribeAudioFunc func(ctx context.Context, audioData []byte) (string, error)
}

func (m *MockSpeechProvider) TranscribeAudio(ctx context.Context, audioData []byte) (string, error) {
	if m.TranscribeAudioFunc != nil {
		return m.TranscribeAudioFunc(ctx, audioData)
	}
	return "", fmt.Errorf("TranscribeAudio not configured")
}

// --- MockProductRepo ---

// MockProductRepo is an in-memory mock implementation of repository.ProductRepo.
type MockProductRepo struct {
	mu       sync.Mutex
	Products map[uint]*models.Product
	NextID   uint

	// Error overrides: set these to force specific methods to return errors.
	CreateProductErr  error
	GetProductByIDErr error
	UpdateProductErr  error
	DeleteProductErr  error
}

// NewMockProductRepo creates a new MockProductRepo with initialized maps.
func NewMockProductRepo() *MockProductRepo {
	return &MockProductRepo{
		Products: make(map[uint]*models.Product),
		NextID:   1,
	}
}

func (m *MockProductRepo) CreateProduct(product *models.Product) error {
	if m.CreateProductErr != nil {
		return m.CreateProductErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	product.ID = m.NextID
	m.NextID++
	m.Products[product.ID] = product
	return nil
}

func (m *MockProductRepo) GetProductByID(productID uint) (*models.Product, error) {
	if m.GetProductByIDErr != nil {
		return nil, m.GetProductByIDErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.Products[productID]
	if !ok {
		return nil, repository.NewNotFoundError("Product not found")
	}
	return p, nil
}

func (m *MockProductRepo) GetSellerProducts(sellerID uint, page, pageSize int) ([]models.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var products []models.Product
	for _, p := range m.Products {
		if p.SellerID == sellerID {
			products = append(products, *p)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
	total := int64(len(products))

	start := (page - 1) * pageSize
	if start >= len(products) {
		return []models.Product{}, total, nil
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end], total, nil
}

func (m *MockProductRepo) SearchProducts(sellerID uint, query string, limit int) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	queryLower := strings.ToLower(query)
	var results []models.Product
	for _, p := range m.Products {
		if p.SellerID != sellerID {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), queryLower) ||
			strings.Contains(strings.ToLower(p.Category), queryLower) {
			results = append(results, *p)
		}
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

func (m *MockProductRepo) UpdateProduct(productID uint, updates map[string]interface{}) error {
	if m.UpdateProductErr != nil {
		return m.UpdateProductErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.Products[productID]
	if !ok {
		return repository.NewNotFoundError("Product not found")
	}
	for field, value := range updates {
		switch field {
		case "Name":
			p.Name = value.(string)
		case "Quantity":
			p.Quantity = value.(string)
		case "Unit":
			p.Unit = value.(string)
		case "Price":
			p.Price = value.(float64)
		case "Category":
			p.Category = value.(string)
		case "Description":
			p.Description = value.(string)
		case "Language":
			p.Language = value.(string)
		case "Tags":
			p.Tags = value.(pq.StringArray)
		}
	}
	return nil
}

func (m *MockProductRepo) UpdateProductImageURL(productID uint, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.Products[productID]; ok {
		p.ImageURL = imageURL
	}
	return nil
}

func (m *MockProductRepo) DeleteProduct(productID uint) error {
	if m.DeleteProductErr != nil {
		return m.DeleteProductErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Products, productID)
	return nil
}

// --- MockUserRepo ---

// MockUserRepo is an in-memory mock implementation of repository.UserRepo.
type MockUserRepo struct {
	mu     sync.Mutex
	Users  map[uint]*models.User
	NextID uint

	CreateUserErr error
}

// NewMockUserRepo creates a new MockUserRepo with initialized maps.
func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{
		Users:  make(map[uint]*models.User),
		NextID: 1,
	}
}

func (m *MockUserRepo) CreateUser(user *models.User) (*models.User, error) {
	if m.CreateUserErr != nil {
		return nil, m.CreateUserErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	user.ID = m.NextID
	m.NextID++
	m.Users[user.ID] = user
	return user, nil
}

func (m *MockUserRepo) GetUserByID(userID uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.Users[userID]
	if !ok {
		return nil, repository.NewNotFoundError("User not found")
	}
	return u, nil
}

func (m *MockUserRepo) GetUserAuthByUsername(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (m *MockUserRepo) UpdateUserFirstName(userID uint, firstName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.Users[userID]; ok {
		u.FirstName = firstName
	}
	return nil
}

func (m *MockUserRepo) UpdateUserEmail(userID uint, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.Users[userID]; ok {
		u.Email = email
	}
	return nil
}

func (m *MockUserRepo) UpdateUserSettings(userID uint, preferredLanguage string, autoDescribe bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.Users[userID]; ok && u.Settings != nil {
		u.Settings.PreferredLanguage = preferredLanguage
		u.Settings.AutoDescribe = autoDescribe
	}
	return nil
}

func (m *MockUserRepo) UsernameExists(username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

// --- MockPriceRepo ---

// MockPriceRepo is an in-memory mock implementation of repository.PriceRepo.
type MockPriceRepo struct {
	mu      sync.Mutex
	Records []*models.PriceRecord

	RecordPriceErr     error
	GetRecentPricesErr error
}

// NewMockPriceRepo creates a new MockPriceRepo.
func NewMockPriceRepo() *MockPriceRepo {
	return &MockPriceRepo{}
}

func (m *MockPriceRepo) RecordPrice(record *models.PriceRecord) error {
	if m.RecordPriceErr != nil {
		return m.RecordPriceErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	m.Records = append(m.Records, record)
	return nil
}

func (m *MockPriceRepo) GetRecentPrices(productName, category string, since time.Time) ([]float64, error) {
	if m.GetRecentPricesErr != nil {
		return nil, m.GetRecentPricesErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	nameLower := strings.ToLower(productName)
	var prices []float64
	for _, r := range m.Records {
		if r.CreatedAt.Before(since) {
			continue
		}
		if strings.Contains(strings.ToLower(r.ProductName), nameLower) || r.Category == category {
			prices = append(prices, r.Price)
		}
	}
	return prices, nil
}

// Compile-time interface checks.
var _ ai.TextProvider = (*MockTextProvider)(nil)
var _ ai.SpeechProvider = (*MockSpeechProvider)(nil)
var _ repository.ProductRepo = (*MockProductRepo)(nil)
var _ repository.UserRepo = (*MockUserRepo)(nil)
var _ repository.PriceRepo = (*MockPriceRepo)(nil)
