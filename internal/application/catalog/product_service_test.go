package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/catalog"
	"github.com/shoemarket/backend/internal/domain/identity"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, sellerID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, sku string, qty int) error {
	args := m.Called(ctx, productID, sku, qty)
	return args.Error(0)
}

func (m *MockProductRepository) RestoreStock(ctx context.Context, productID uuid.UUID, sku string, qty int) error {
	args := m.Called(ctx, productID, sku, qty)
	return args.Error(0)
}

func (m *MockProductRepository) AdjustSoldCount(ctx context.Context, productID uuid.UUID, delta int64) error {
	args := m.Called(ctx, productID, delta)
	return args.Error(0)
}

func (m *MockProductRepository) IncrementViewCount(ctx context.Context, productID uuid.UUID, delta int64) error {
	args := m.Called(ctx, productID, delta)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateRating(ctx context.Context, productID uuid.UUID, average decimal.Decimal, count int64) error {
	args := m.Called(ctx, productID, average, count)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockViewCounter records product views
type MockViewCounter struct {
	mock.Mock
}

func (m *MockViewCounter) RecordView(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func newProductFixture() (*ProductService, *MockProductRepository, *MockUserRepository, *MockViewCounter) {
	products := new(MockProductRepository)
	users := new(MockUserRepository)
	views := new(MockViewCounter)
	svc := NewProductService(products, users, views, zap.NewNop())
	return svc, products, users, views
}

func testSeller(t *testing.T) *identity.User {
	t.Helper()
	seller, err := identity.NewSeller("seller@example.com", "seller", "sup3rsecret", "Stride Lab")
	require.NoError(t, err)
	return seller
}

func testListing(t *testing.T, sellerID uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sellerID, "Stride Lab", "Trail Runner", "Stride", "running", decimal.NewFromFloat(89.90))
	require.NoError(t, err)
	_, err = p.AddVariant("TR-42-BLK", "42", "black", "", decimal.NewFromFloat(89.90), 10)
	require.NoError(t, err)
	return p
}

func TestProductServiceCreate(t *testing.T) {
	ctx := context.Background()

	req := CreateProductRequest{
		Name:      "Trail Runner",
		Brand:     "Stride",
		Category:  "running",
		BasePrice: decimal.NewFromFloat(89.90),
		Variants: []VariantRequest{
			{SKU: "tr-42-blk", Size: "42", Color: "black", Price: decimal.NewFromFloat(89.90), Stock: 10},
			{SKU: "tr-43-blk", Size: "43", Color: "black", Price: decimal.NewFromFloat(89.90), Stock: 5},
		},
	}

	t.Run("seller publishes a listing with variants", func(t *testing.T) {
		svc, products, users, _ := newProductFixture()
		seller := testSeller(t)
		actor := identity.Actor{UserID: seller.ID, Role: identity.RoleSeller}

		users.On("FindByID", ctx, seller.ID).Return(seller, nil)
		products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := svc.Create(ctx, actor, req)

		require.NoError(t, err)
		assert.Equal(t, seller.ID, resp.SellerID)
		assert.Equal(t, "Stride Lab", resp.SellerName)
		assert.Len(t, resp.Variants, 2)
		assert.Equal(t, "TR-42-BLK", resp.Variants[0].SKU)
		assert.True(t, resp.IsActive)
	})

	t.Run("customers cannot publish", func(t *testing.T) {
		svc, products, _, _ := newProductFixture()
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleCustomer}

		_, err := svc.Create(ctx, actor, req)

		assert.ErrorIs(t, err, shared.ErrForbidden)
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate SKUs", func(t *testing.T) {
		svc, _, users, _ := newProductFixture()
		seller := testSeller(t)
		actor := identity.Actor{UserID: seller.ID, Role: identity.RoleSeller}
		users.On("FindByID", ctx, seller.ID).Return(seller, nil)

		dup := req
		dup.Variants = []VariantRequest{
			{SKU: "TR-42-BLK", Price: decimal.NewFromFloat(89.90), Stock: 10},
			{SKU: "tr-42-blk", Price: decimal.NewFromFloat(89.90), Stock: 5},
		}

		_, err := svc.Create(ctx, actor, dup)

		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "DUPLICATE_SKU", derr.Code)
	})
}

func TestProductServiceGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("records a view for shoppers", func(t *testing.T) {
		svc, products, _, views := newProductFixture()
		p := testListing(t, uuid.New())
		shopper := identity.Actor{UserID: uuid.New(), Role: identity.RoleCustomer}

		products.On("FindByID", ctx, p.ID).Return(p, nil)
		views.On("RecordView", ctx, p.ID).Return(nil)

		resp, err := svc.GetByID(ctx, shopper, p.ID)

		require.NoError(t, err)
		assert.Equal(t, p.Slug, resp.Slug)
		views.AssertCalled(t, "RecordView", ctx, p.ID)
	})

	t.Run("does not count the seller's own views", func(t *testing.T) {
		svc, products, _, views := newProductFixture()
		sellerID := uuid.New()
		p := testListing(t, sellerID)

		products.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := svc.GetByID(ctx, identity.Actor{UserID: sellerID, Role: identity.RoleSeller}, p.ID)

		require.NoError(t, err)
		views.AssertNotCalled(t, "RecordView", mock.Anything, mock.Anything)
	})

	t.Run("view recording failure does not fail the request", func(t *testing.T) {
		svc, products, _, views := newProductFixture()
		p := testListing(t, uuid.New())

		products.On("FindByID", ctx, p.ID).Return(p, nil)
		views.On("RecordView", ctx, p.ID).Return(assert.AnError)

		_, err := svc.GetByID(ctx, identity.Actor{UserID: uuid.New(), Role: identity.RoleCustomer}, p.ID)

		assert.NoError(t, err)
	})

	t.Run("inactive listing is hidden from shoppers", func(t *testing.T) {
		svc, products, _, _ := newProductFixture()
		p := testListing(t, uuid.New())
		p.Deactivate()

		products.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := svc.GetByID(ctx, identity.Actor{UserID: uuid.New(), Role: identity.RoleCustomer}, p.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("inactive listing remains visible to its seller", func(t *testing.T) {
		svc, products, _, _ := newProductFixture()
		sellerID := uuid.New()
		p := testListing(t, sellerID)
		p.Deactivate()

		products.On("FindByID", ctx, p.ID).Return(p, nil)

		resp, err := svc.GetByID(ctx, identity.Actor{UserID: sellerID, Role: identity.RoleSeller}, p.ID)

		require.NoError(t, err)
		assert.False(t, resp.IsActive)
	})
}

func TestProductServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("lists only active products", func(t *testing.T) {
		svc, products, _, _ := newProductFixture()
		p := testListing(t, uuid.New())

		products.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["is_active"] == true
		})).Return([]catalog.Product{*p}, nil)
		products.On("Count", ctx, mock.Anything).Return(int64(1), nil)

		result, err := svc.List(ctx, ListFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		require.Len(t, result.Items, 1)
		assert.True(t, result.Items[0].InStock)
	})

	t.Run("caps the page size", func(t *testing.T) {
		svc, products, _, _ := newProductFixture()

		products.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.PageSize == 20
		})).Return([]catalog.Product{}, nil)
		products.On("Count", ctx, mock.Anything).Return(int64(0), nil)

		_, err := svc.List(ctx, ListFilter{PageSize: 500})

		assert.NoError(t, err)
	})
}

func TestProductServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("owning seller updates details", func(t *testing.T) {
		svc, products, _, _ := newProductFixture()
		sellerID := uuid.New()
		p := testListing(t, sellerID)
		actor := identity.Actor{UserID: sellerID, Role: identity.RoleSeller}

		products.On("FindByID", ctx, p.ID).Return(p, nil)
		products.On("Save", ctx, p).Return(nil)

		newPrice := decimal.NewFromFloat(79.90)
		inactive := false
		resp, err := svc.Update(ctx, actor, p.ID, UpdateProductRequest{
			Description: "Lightweight trail shoe",
			BasePrice:   &newPrice,
			IsActive:    &inactive,
		})

		require.NoError(t, err)
		assert.Equal(t, "Lightweight trail shoe", resp.Description)
		assert.True(t, resp.BasePrice.Equal(newPrice))
		assert.False(t, resp.IsActive)
	})

	t.Run("another seller is rejected", func(t *testing.T) {
		svc, products, _, _ := newProductFixture()
		p := testListing(t, uuid.New())
		stranger := identity.Actor{UserID: uuid.New(), Role: identity.RoleSeller}

		products.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := svc.Update(ctx, stranger, p.ID, UpdateProductRequest{Name: "Hijacked"})

		assert.ErrorIs(t, err, shared.ErrForbidden)
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("admin may update any listing", func(t *testing.T) {
		svc, products, _, _ := newProductFixture()
		p := testListing(t, uuid.New())
		admin := identity.Actor{UserID: uuid.New(), Role: identity.RoleAdmin}

		products.On("FindByID", ctx, p.ID).Return(p, nil)
		products.On("Save", ctx, p).Return(nil)

		_, err := svc.Update(ctx, admin, p.ID, UpdateProductRequest{Brand: "Stride Pro"})

		assert.NoError(t, err)
	})
}

func TestProductServiceVariants(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a variant", func(t *testing.T) {
		svc, products, _, _ := newProductFixture()
		sellerID := uuid.New()
		p := testListing(t, sellerID)
		actor := identity.Actor{UserID: sellerID, Role: identity.RoleSeller}

		products.On("FindByID", ctx, p.ID).Return(p, nil)
		products.On("Save", ctx, p).Return(nil)

		resp, err := svc.AddVariant(ctx, actor, p.ID, VariantRequest{
			SKU: "TR-44-BLK", Size: "44", Price: decimal.NewFromFloat(89.90), Stock: 3,
		})

		require.NoError(t, err)
		assert.Len(t, resp.Variants, 2)
	})

	t.Run("updates stock on one variant", func(t *testing.T) {
		svc, products, _, _ := newProductFixture()
		sellerID := uuid.New()
		p := testListing(t, sellerID)
		actor := identity.Actor{UserID: sellerID, Role: identity.RoleSeller}

		products.On("FindByID", ctx, p.ID).Return(p, nil)
		products.On("Save", ctx, p).Return(nil)

		stock := 25
		resp, err := svc.UpdateVariant(ctx, actor, p.ID, "TR-42-BLK", UpdateVariantRequest{Stock: &stock})

		require.NoError(t, err)
		assert.Equal(t, 25, resp.Variants[0].Stock)
	})

	t.Run("removes a variant", func(t *testing.T) {
		svc, products, _, _ := newProductFixture()
		sellerID := uuid.New()
		p := testListing(t, sellerID)
		actor := identity.Actor{UserID: sellerID, Role: identity.RoleSeller}

		products.On("FindByID", ctx, p.ID).Return(p, nil)
		products.On("Save", ctx, p).Return(nil)

		resp, err := svc.RemoveVariant(ctx, actor, p.ID, "TR-42-BLK")

		require.NoError(t, err)
		assert.Empty(t, resp.Variants)
	})
}

func TestProductServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("owning seller deletes a listing", func(t *testing.T) {
		svc, products, _, _ := newProductFixture()
		sellerID := uuid.New()
		p := testListing(t, sellerID)
		actor := identity.Actor{UserID: sellerID, Role: identity.RoleSeller}

		products.On("FindByID", ctx, p.ID).Return(p, nil)
		products.On("Delete", ctx, p.ID).Return(nil)

		err := svc.Delete(ctx, actor, p.ID)

		assert.NoError(t, err)
	})

	t.Run("strangers cannot delete", func(t *testing.T) {
		svc, products, _, _ := newProductFixture()
		p := testListing(t, uuid.New())
		stranger := identity.Actor{UserID: uuid.New(), Role: identity.RoleSeller}

		products.On("FindByID", ctx, p.ID).Return(p, nil)

		err := svc.Delete(ctx, stranger, p.ID)

		assert.ErrorIs(t, err, shared.ErrForbidden)
		products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
