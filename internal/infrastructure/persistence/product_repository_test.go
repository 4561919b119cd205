package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/catalog"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock, mockDB
}

func createTestProduct(t *testing.T) *catalog.Product {
	t.Helper()

	product, err := catalog.NewProduct(uuid.New(), "Northline Footwear", "Trail Runner", "Northline", "running", decimal.NewFromFloat(89.90))
	require.NoError(t, err)
	_, err = product.AddVariant("TR-42-BLK", "42", "Black", "mesh", decimal.NewFromFloat(89.90), 10)
	require.NoError(t, err)
	_, err = product.AddVariant("TR-43-BLK", "43", "Black", "mesh", decimal.NewFromFloat(89.90), 4)
	require.NoError(t, err)
	return product
}

func TestProductRepositorySave(t *testing.T) {
	t.Run("deletes variant rows dropped from the aggregate", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		product := createTestProduct(t)
		require.NoError(t, product.RemoveVariant("TR-43-BLK"))
		require.Len(t, product.Variants, 1)
		keptID := product.Variants[0].ID

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "product_variants"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		// The removed variant's row must go; the surviving one is kept
		mock.ExpectExec(`DELETE FROM "product_variants" WHERE product_id = \$1 AND id NOT IN \(\$2\)`).
			WithArgs(product.ID, keptID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Save(context.Background(), product)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clears every row when the last variant is removed", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		product := createTestProduct(t)
		require.NoError(t, product.RemoveVariant("TR-42-BLK"))
		require.NoError(t, product.RemoveVariant("TR-43-BLK"))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "product_variants" WHERE product_id = \$1`).
			WithArgs(product.ID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := repo.Save(context.Background(), product)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the cleanup fails", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		product := createTestProduct(t)
		require.NoError(t, product.RemoveVariant("TR-43-BLK"))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "product_variants"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "product_variants"`).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.Save(context.Background(), product)

		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepositoryFindByID(t *testing.T) {
	t.Run("loads product with variants", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		productRows := sqlmock.NewRows([]string{"id", "name", "slug", "base_price"}).
			AddRow(productID, "Trail Runner", "trail-runner-ab12cd34", decimal.NewFromFloat(89.90))
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id`).
			WillReturnRows(productRows)

		variantRows := sqlmock.NewRows([]string{"id", "product_id", "sku", "stock"}).
			AddRow(uuid.New(), productID, "TR-42-BLK", 10).
			AddRow(uuid.New(), productID, "TR-43-BLK", 4)
		mock.ExpectQuery(`SELECT \* FROM "product_variants" WHERE "product_variants"."product_id"`).
			WillReturnRows(variantRows)

		product, err := repo.FindByID(context.Background(), productID)

		require.NoError(t, err)
		assert.Equal(t, "Trail Runner", product.Name)
		assert.Len(t, product.Variants, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing rows to ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepositoryDecrementStock(t *testing.T) {
	t.Run("decrements when stock suffices", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "product_variants" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DecrementStock(context.Background(), uuid.New(), "TR-42-BLK", 2)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrInsufficientStock when the guard matches no rows", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		// The WHERE clause includes stock >= qty, so a short variant
		// simply does not match
		mock.ExpectExec(`UPDATE "product_variants" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DecrementStock(context.Background(), uuid.New(), "TR-42-BLK", 99)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non-positive quantity without touching the database", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		err := repo.DecrementStock(context.Background(), uuid.New(), "TR-42-BLK", 0)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)

		err = repo.DecrementStock(context.Background(), uuid.New(), "TR-42-BLK", -1)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "product_variants" SET`).
			WillReturnError(assert.AnError)

		err := repo.DecrementStock(context.Background(), uuid.New(), "TR-42-BLK", 1)

		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepositoryRestoreStock(t *testing.T) {
	t.Run("adds quantity back", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "product_variants" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RestoreStock(context.Background(), uuid.New(), "TR-42-BLK", 2)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for an unknown variant", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "product_variants" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RestoreStock(context.Background(), uuid.New(), "GHOST-SKU", 2)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		err := repo.RestoreStock(context.Background(), uuid.New(), "TR-42-BLK", 0)

		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepositoryCounters(t *testing.T) {
	t.Run("AdjustSoldCount issues a single update", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AdjustSoldCount(context.Background(), uuid.New(), 3)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("IncrementViewCount skips non-positive deltas", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		err := repo.IncrementViewCount(context.Background(), uuid.New(), 0)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateRating writes the rounded aggregate", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateRating(context.Background(), uuid.New(), decimal.NewFromFloat(4.666), 3)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepositoryDelete(t *testing.T) {
	t.Run("deletes an existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "products"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), uuid.New())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for an unknown ID", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "products"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
