package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/cart"
	"github.com/shoemarket/backend/internal/domain/catalog"
	"github.com/shoemarket/backend/internal/domain/identity"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CartService manages the per-user cart. Stock is validated against the live
// catalog on every mutation but never reserved here; deduction happens only
// at order creation.
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get returns the actor's cart. Lines whose product no longer exists (or was
// deactivated) are silently dropped: carts tolerate stale references.
func (s *CartService) Get(ctx context.Context, actor identity.Actor) (*Response, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}

	userCart, err := s.findOrCreate(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	products, err := s.loadProducts(ctx, userCart)
	if err != nil {
		return nil, err
	}

	resp := Response{
		ID:       userCart.ID,
		UserID:   userCart.UserID,
		Items:    make([]ItemResponse, 0, len(userCart.Items)),
		Subtotal: decimal.Zero,
	}

	stale := false
	kept := make([]cart.CartItem, 0, len(userCart.Items))
	for _, item := range userCart.Items {
		product, ok := products[item.ProductID]
		if !ok || !product.IsActive {
			stale = true
			continue
		}
		kept = append(kept, item)
		line := toItemResponse(item, product)
		resp.Items = append(resp.Items, line)
		resp.Subtotal = resp.Subtotal.Add(line.LineTotal)
	}

	// Persist the pruned cart so stale lines don't resurface
	if stale {
		userCart.Items = kept
		if err := s.cartRepo.Save(ctx, userCart); err != nil {
			return nil, err
		}
	}

	return &resp, nil
}

// AddItem validates availability and stock against the live variant, then
// merges the quantity into an existing line or appends a new one
func (s *CartService) AddItem(ctx context.Context, actor identity.Actor, req AddItemRequest) (*Response, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, shared.ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.ErrNotFound
	}

	var variant *catalog.Variant
	if req.VariantSKU == "" {
		variant = product.FirstAvailableVariant()
		if variant == nil {
			return nil, shared.ErrOutOfStock
		}
	} else {
		variant = product.FindVariant(req.VariantSKU)
		if variant == nil {
			return nil, shared.NewDomainError("VARIANT_NOT_FOUND", "Product variant not found")
		}
		if !variant.InStock() {
			return nil, shared.ErrOutOfStock
		}
	}

	userCart, err := s.findOrCreate(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	// The merged line quantity must still fit in current stock
	requested := quantity
	if existing := userCart.FindItemByVariant(product.ID, variant.SKU); existing != nil {
		requested += existing.Quantity
	}
	if requested > variant.Stock {
		return nil, shared.ErrInsufficientStock
	}

	if _, err := userCart.AddItem(product.ID, product.SellerID, variant.SKU, quantity, variant.Price); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, userCart); err != nil {
		return nil, err
	}

	return s.Get(ctx, actor)
}

// UpdateItem re-validates the new quantity against live stock before applying
func (s *CartService) UpdateItem(ctx context.Context, actor identity.Actor, itemID uuid.UUID, req UpdateItemRequest) (*Response, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}
	if req.Quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}

	userCart, err := s.cartRepo.FindByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	item := userCart.FindItem(itemID)
	if item == nil {
		return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")
	}

	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	variant := product.FindVariant(item.VariantSKU)
	if variant == nil || !variant.IsAvailable {
		return nil, shared.ErrOutOfStock
	}
	if req.Quantity > variant.Stock {
		return nil, shared.ErrInsufficientStock
	}

	if err := userCart.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, userCart); err != nil {
		return nil, err
	}

	return s.Get(ctx, actor)
}

// RemoveItem drops a line unconditionally; no stock side effects
func (s *CartService) RemoveItem(ctx context.Context, actor identity.Actor, itemID uuid.UUID) (*Response, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}

	userCart, err := s.cartRepo.FindByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := userCart.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, userCart); err != nil {
		return nil, err
	}

	return s.Get(ctx, actor)
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, actor identity.Actor) error {
	if !actor.IsAuthenticated() {
		return shared.ErrUnauthorized
	}
	return s.cartRepo.DeleteByUser(ctx, actor.UserID)
}

func (s *CartService) findOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	userCart, err := s.cartRepo.FindByUser(ctx, userID)
	if err == nil {
		return userCart, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return cart.NewCart(userID)
}

func (s *CartService) loadProducts(ctx context.Context, userCart *cart.Cart) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(userCart.Items))
	seen := make(map[uuid.UUID]struct{}, len(userCart.Items))
	for _, item := range userCart.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*catalog.Product{}, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for idx := range products {
		byID[products[idx].ID] = &products[idx]
	}
	return byID, nil
}
