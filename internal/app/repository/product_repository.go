package repository

import (
	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductRepository reads products and owns the (rate_sum, rate_count) aggregate columns.
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	BulkCreate(category model.ProductCategory, products []model.Product, batchSize int) error
	FindByRef(ref model.ProductRef) (*model.Product, error)
	ListIDs(category model.ProductCategory) ([]uint, error)
	ApplyRatingDelta(ref model.ProductRef, sumDelta, countDelta int) error
	SetAggregate(ref model.ProductRef, sum, count int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

// Create inserts into the table of product.Category.
func (r *productRepository) Create(product *model.Product) error {
	if _, err := model.ParseProductCategory(string(product.Category)); err != nil {
		return err
	}
	if err := r.db.Table(product.Category.Table()).Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"category": product.Category,
			"name":     product.Name,
		})
		return err
	}
	return nil
}

func (r *productRepository) BulkCreate(category model.ProductCategory, products []model.Product, batchSize int) error {
	logger.Info("Bulk creating products in database", map[string]interface{}{
		"category":   category,
		"count":      len(products),
		"batch_size": batchSize,
	})

	if len(products) == 0 {
		return nil
	}
	if err := r.db.Table(category.Table()).CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products in database", err, map[string]interface{}{
			"category": category,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindByRef(ref model.ProductRef) (*model.Product, error) {
	logger.Debug("Finding product by ref in database", map[string]interface{}{
		"product": ref.String(),
	})

	var product model.Product
	if err := r.db.Table(ref.Category.Table()).First(&product, ref.ProductID).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product in database", err, map[string]interface{}{
				"product": ref.String(),
			})
		}
		return nil, err
	}
	product.Category = ref.Category
	return &product, nil
}

func (r *productRepository) ListIDs(category model.ProductCategory) ([]uint, error) {
	var ids []uint
	if err := r.db.Table(category.Table()).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ApplyRatingDelta adjusts the aggregate in a single UPDATE so concurrent writers never lose an increment.
func (r *productRepository) ApplyRatingDelta(ref model.ProductRef, sumDelta, countDelta int) error {
	logger.Debug("Applying rating delta in database", map[string]interface{}{
		"product":     ref.String(),
		"sum_delta":   sumDelta,
		"count_delta": countDelta,
	})

	result := r.db.Table(ref.Category.Table()).
		Where("id = ?", ref.ProductID).
		UpdateColumns(map[string]interface{}{
			"rate_sum":   gorm.Expr("rate_sum + ?", sumDelta),
			"rate_count": gorm.Expr("rate_count + ?", countDelta),
		})
	if result.Error != nil {
		logger.Error("Failed to apply rating delta in database", result.Error, map[string]interface{}{
			"product": ref.String(),
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) SetAggregate(ref model.ProductRef, sum, count int) error {
	return r.db.Table(ref.Category.Table()).
		Where("id = ?", ref.ProductID).
		UpdateColumns(map[string]interface{}{
			"rate_sum":   sum,
			"rate_count": count,
		}).Error
}
