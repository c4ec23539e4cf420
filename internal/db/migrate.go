package db

import (
	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductCategories lists every category that owns a product table.
var ProductCategories = []model.ProductCategory{model.CategoryLiving, model.CategoryCosmetic}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	if err := AutoMigrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"product_tables": len(ProductCategories),
	})
	return nil
}

// AutoMigrate creates the review schema on the given connection.
// Products share one struct but live in a table per category.
func AutoMigrate(conn *gorm.DB) error {
	for _, category := range ProductCategories {
		if err := conn.Table(category.Table()).AutoMigrate(&model.Product{}); err != nil {
			return err
		}
	}

	return conn.AutoMigrate(
		&model.Member{},
		&model.Review{},
		&model.ReviewImage{},
		&model.AdditionalReview{},
		&model.Reaction{},
		&model.Report{},
	)
}
