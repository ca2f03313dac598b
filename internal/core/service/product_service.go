package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
	"go.uber.org/zap"
)

type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	draftRepo    repository.DraftRepository
	log          *zap.Logger
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	draftRepo repository.DraftRepository,
	log *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		draftRepo:    draftRepo,
		log:          log,
	}
}

func (s *ProductService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list categories", Err: err}
	}
	return categories, nil
}

func (s *ProductService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError(msgCompleteAllFields, "name")
	}

	category := &domain.Category{Name: name}
	err := s.categoryRepo.Create(ctx, category)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, &DuplicateError{Message: "category with this name already exists"}
	}
	if err != nil {
		return nil, &StoreError{Op: "create category", Err: err}
	}

	s.log.Info("category created", zap.Int64("category_id", category.ID), zap.String("name", name))
	return category, nil
}

// RegisterProduct validates the form, stores the product and removes the
// draft kept under draftKey. An empty draftKey leaves drafts untouched.
func (s *ProductService) RegisterProduct(ctx context.Context, form domain.ProductForm, draftKey string) (*domain.Product, error) {
	product, err := s.productFromForm(form)
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindByID(ctx, product.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "category", Key: formatID(product.CategoryID)}
		}
		return nil, &StoreError{Op: "find category", Err: err}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.log.Error("failed to register product", zap.Error(err))
		return nil, &StoreError{Op: "register product", Err: err}
	}

	if draftKey != "" {
		if err := s.draftRepo.Delete(ctx, draftKey); err != nil {
			// Registration stands even when the draft lingers.
			s.log.Warn("failed to discard product draft", zap.String("key", draftKey), zap.Error(err))
		}
	}

	s.log.Info("product registered",
		zap.Int64("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("quantity", product.Quantity),
	)

	return product, nil
}

func (s *ProductService) productFromForm(form domain.ProductForm) (*domain.Product, error) {
	required := []struct {
		field, value string
	}{
		{"name", form.Name},
		{"description", form.Description},
		{"purchase_price", form.PurchasePrice},
		{"sale_price", form.SalePrice},
		{"quantity", form.Quantity},
		{"entry_date", form.EntryDate},
		{"expiry_date", form.ExpiryDate},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if form.CategoryID == nil {
		missing = append(missing, "category_id")
	}
	if len(missing) > 0 {
		return nil, NewValidationError(msgCompleteAllFields, missing...)
	}

	var invalid []string

	purchasePrice, err := domain.ParseCents(form.PurchasePrice)
	if err != nil {
		invalid = append(invalid, "purchase_price")
	}
	salePrice, err := domain.ParseCents(form.SalePrice)
	if err != nil {
		invalid = append(invalid, "sale_price")
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(form.Quantity))
	if err != nil || quantity < 0 {
		invalid = append(invalid, "quantity")
	}
	entry, entryErr := parseDate(form.EntryDate)
	if entryErr != nil {
		invalid = append(invalid, "entry_date")
	}
	expiry, expiryErr := parseDate(form.ExpiryDate)
	if expiryErr != nil {
		invalid = append(invalid, "expiry_date")
	}
	if entryErr == nil && expiryErr == nil && expiry.Before(entry) {
		invalid = append(invalid, "expiry_date")
	}
	if len(invalid) > 0 {
		return nil, NewValidationError("invalid values", invalid...)
	}

	var image *string
	if form.Image != nil && strings.TrimSpace(*form.Image) != "" {
		uri := strings.TrimSpace(*form.Image)
		image = &uri
	}

	return &domain.Product{
		Name:          strings.TrimSpace(form.Name),
		Description:   strings.TrimSpace(form.Description),
		PurchasePrice: purchasePrice,
		SalePrice:     salePrice,
		Quantity:      quantity,
		Image:         image,
		EntryDate:     entry.Format(domain.DateLayout),
		ExpiryDate:    expiry.Format(domain.DateLayout),
		CategoryID:    *form.CategoryID,
		CreatedAt:     time.Now(),
	}, nil
}

// parseDate accepts a calendar date or a full RFC3339 timestamp.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(domain.DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "product", Key: formatID(id)}
	}
	if err != nil {
		return nil, &StoreError{Op: "get product", Err: err}
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, &StoreError{Op: "list products", Err: err}
	}
	return products, nil
}

func (s *ProductService) CountProducts(ctx context.Context, filter repository.ProductFilter) (int, error) {
	count, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return 0, &StoreError{Op: "count products", Err: err}
	}
	return count, nil
}

// SaveDraft stores the form as typed so far under key.
func (s *ProductService) SaveDraft(ctx context.Context, key string, form domain.ProductForm) error {
	payload, err := json.Marshal(form)
	if err != nil {
		return &StoreError{Op: "encode draft", Err: err}
	}
	if err := s.draftRepo.Put(ctx, key, payload); err != nil {
		return &StoreError{Op: "save draft", Err: err}
	}
	return nil
}

// LoadDraft returns the form stored under key, or an empty form.
func (s *ProductService) LoadDraft(ctx context.Context, key string) (domain.ProductForm, error) {
	var form domain.ProductForm

	payload, err := s.draftRepo.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return form, nil
	}
	if err != nil {
		return form, &StoreError{Op: "load draft", Err: err}
	}

	if err := json.Unmarshal(payload, &form); err != nil {
		// Unreadable drafts are treated as absent.
		s.log.Warn("discarding unreadable product draft", zap.String("key", key), zap.Error(err))
		return domain.ProductForm{}, nil
	}
	return form, nil
}

func (s *ProductService) DiscardDraft(ctx context.Context, key string) error {
	if err := s.draftRepo.Delete(ctx, key); err != nil {
		return &StoreError{Op: "discard draft", Err: err}
	}
	return nil
}
