package persistence

import (
	"context"

	appOrder "github.com/shoemarket/backend/internal/application/order"
	"github.com/shoemarket/backend/internal/domain/cart"
	"github.com/shoemarket/backend/internal/domain/catalog"
	"github.com/shoemarket/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormTransactionScope implements the order application's TransactionScope
// on a GORM database. Every repository handed to fn is bound to the same
// transaction, so the stock decrements and the order write commit or roll
// back as one unit.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appOrder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) Orders() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Carts() cart.CartRepository {
	return NewGormCartRepository(r.tx)
}

var _ appOrder.TransactionScope = (*GormTransactionScope)(nil)
var _ appOrder.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
