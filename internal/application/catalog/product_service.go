package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/catalog"
	"github.com/shoemarket/backend/internal/domain/identity"
	"github.com/shoemarket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ViewCounter tracks product page views. Implementations may batch or
// approximate; failures never surface to the caller.
type ViewCounter interface {
	RecordView(ctx context.Context, productID uuid.UUID) error
}

// ProductService implements product catalog use cases
type ProductService struct {
	productRepo catalog.ProductRepository
	userRepo    identity.UserRepository
	views       ViewCounter
	logger      *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
	views ViewCounter,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		userRepo:    userRepo,
		views:       views,
		logger:      logger,
	}
}

// Create publishes a new product listing for the acting seller
func (s *ProductService) Create(ctx context.Context, actor identity.Actor, req CreateProductRequest) (*Response, error) {
	if !actor.IsSeller() && !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	seller, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller: %w", err)
	}

	product, err := catalog.NewProduct(seller.ID, seller.DisplayName(), req.Name, req.Brand, req.Category, req.BasePrice)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.ImageURL = req.ImageURL

	for _, v := range req.Variants {
		if _, err := product.AddVariant(v.SKU, v.Size, v.Color, v.Material, v.Price, v.Stock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("seller_id", seller.ID.String()))

	resp := ToResponse(product)
	return &resp, nil
}

// GetByID returns a product detail and records the view. Inactive products
// are only visible to their seller and admins.
func (s *ProductService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Response, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, actor, product)
}

// GetBySlug returns a product detail by its URL slug
func (s *ProductService) GetBySlug(ctx context.Context, actor identity.Actor, slug string) (*Response, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, actor, product)
}

func (s *ProductService) present(ctx context.Context, actor identity.Actor, product *catalog.Product) (*Response, error) {
	if !product.IsActive && !actor.IsAdmin() && actor.UserID != product.SellerID {
		return nil, shared.ErrNotFound
	}

	if s.views != nil && actor.UserID != product.SellerID {
		if err := s.views.RecordView(ctx, product.ID); err != nil {
			s.logger.Warn("failed to record product view",
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
		}
	}

	resp := ToResponse(product)
	return &resp, nil
}

// List returns a paginated product listing
func (s *ProductService) List(ctx context.Context, filter ListFilter) (*shared.Paginated[ListItemResponse], error) {
	f := toSharedFilter(filter)
	f.Filters["is_active"] = true

	var (
		products []catalog.Product
		err      error
	)
	if filter.SellerID != nil {
		products, err = s.productRepo.FindBySeller(ctx, *filter.SellerID, f)
	} else {
		products, err = s.productRepo.FindAll(ctx, f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	total, err := s.productRepo.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	result := shared.NewPaginated(ToListItemResponses(products), total, f.Page, f.PageSize)
	return &result, nil
}

// ListBySeller returns the acting seller's own listings, including inactive ones
func (s *ProductService) ListBySeller(ctx context.Context, actor identity.Actor, filter ListFilter) (*shared.Paginated[ListItemResponse], error) {
	if !actor.IsSeller() && !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	f := toSharedFilter(filter)
	f.Filters["seller_id"] = actor.UserID

	products, err := s.productRepo.FindBySeller(ctx, actor.UserID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller products: %w", err)
	}
	total, err := s.productRepo.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to count seller products: %w", err)
	}

	result := shared.NewPaginated(ToListItemResponses(products), total, f.Page, f.PageSize)
	return &result, nil
}

// Update changes listing fields; only the owning seller or an admin may update
func (s *ProductService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateProductRequest) (*Response, error) {
	product, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := product.UpdateDetails(req.Name, req.Description, req.Brand, req.Category, req.ImageURL, req.BasePrice); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if *req.IsActive {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	resp := ToResponse(product)
	return &resp, nil
}

// AddVariant appends a new variant to a product
func (s *ProductService) AddVariant(ctx context.Context, actor identity.Actor, id uuid.UUID, req VariantRequest) (*Response, error) {
	product, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if _, err := product.AddVariant(req.SKU, req.Size, req.Color, req.Material, req.Price, req.Stock); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	resp := ToResponse(product)
	return &resp, nil
}

// UpdateVariant changes one variant's price, stock, or availability
func (s *ProductService) UpdateVariant(ctx context.Context, actor identity.Actor, id uuid.UUID, sku string, req UpdateVariantRequest) (*Response, error) {
	product, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := product.UpdateVariant(sku, req.Price, req.Stock, req.IsAvailable); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	resp := ToResponse(product)
	return &resp, nil
}

// RemoveVariant deletes a variant from a product
func (s *ProductService) RemoveVariant(ctx context.Context, actor identity.Actor, id uuid.UUID, sku string) (*Response, error) {
	product, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := product.RemoveVariant(sku); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	resp := ToResponse(product)
	return &resp, nil
}

// Delete removes a listing. Existing order items keep their snapshots, so
// deletion never rewrites order history.
func (s *ProductService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *ProductService) loadOwned(ctx context.Context, actor identity.Actor, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && product.SellerID != actor.UserID {
		return nil, shared.ErrForbidden
	}
	return product, nil
}

func toSharedFilter(filter ListFilter) shared.Filter {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.Brand != "" {
		f.Filters["brand"] = filter.Brand
	}
	if filter.Category != "" {
		f.Filters["category"] = filter.Category
	}
	return f
}
