package order

import (
	"context"

	"github.com/shoemarket/backend/internal/domain/cart"
	"github.com/shoemarket/backend/internal/domain/catalog"
	"github.com/shoemarket/backend/internal/domain/order"
)

// TransactionScope provides transactional access to the repositories touched
// by order creation and cancellation. All repository operations performed
// inside Execute share one database transaction: either every stock decrement
// and the order write commit together, or none of them apply.
type TransactionScope interface {
	// Execute runs fn within a database transaction. An error from fn rolls
	// the whole transaction back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories scoped to the current
// transaction. The product repository's conditional stock updates are the
// oversell guard; running them inside the shared transaction makes order
// creation all-or-nothing.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Orders() order.OrderRepository
	Carts() cart.CartRepository
}

// NoOpTransactionScope runs the function without a real transaction. Used in
// tests where the repositories are mocks.
type NoOpTransactionScope struct {
	products catalog.ProductRepository
	orders   order.OrderRepository
	carts    cart.CartRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	products catalog.ProductRepository,
	orders order.OrderRepository,
	carts cart.CartRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		products: products,
		orders:   orders,
		carts:    carts,
	}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Products returns the product repository
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.products
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() order.OrderRepository {
	return s.orders
}

// Carts returns the cart repository
func (s *NoOpTransactionScope) Carts() cart.CartRepository {
	return s.carts
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
