package model

import (
	"fmt"
	"time"
)

// ProductCategory 상품 카테고리 (생활용품 / 화장품)
type ProductCategory string

const (
	CategoryLiving   ProductCategory = "living"
	CategoryCosmetic ProductCategory = "cosmetic"
)

// ParseProductCategory validates a raw category string.
func ParseProductCategory(s string) (ProductCategory, error) {
	switch ProductCategory(s) {
	case CategoryLiving, CategoryCosmetic:
		return ProductCategory(s), nil
	default:
		return "", fmt.Errorf("unknown product category %q", s)
	}
}

// Table returns the table holding products of this category.
func (c ProductCategory) Table() string {
	return string(c)
}

// ProductRef points at exactly one product in exactly one category.
type ProductRef struct {
	Category  ProductCategory `gorm:"column:product_category;type:varchar(20);not null;uniqueIndex:idx_reviews_member_product,priority:2;index:idx_reviews_product,priority:1" json:"category"`
	ProductID uint            `gorm:"column:product_id;not null;uniqueIndex:idx_reviews_member_product,priority:3;index:idx_reviews_product,priority:2" json:"productId"`
}

func LivingRef(id uint) ProductRef {
	return ProductRef{Category: CategoryLiving, ProductID: id}
}

func CosmeticRef(id uint) ProductRef {
	return ProductRef{Category: CategoryCosmetic, ProductID: id}
}

// NewProductRef builds a ref from request values.
func NewProductRef(category string, id uint) (ProductRef, error) {
	c, err := ParseProductCategory(category)
	if err != nil {
		return ProductRef{}, err
	}
	if id == 0 {
		return ProductRef{}, fmt.Errorf("product id is required")
	}
	return ProductRef{Category: c, ProductID: id}, nil
}

func (r ProductRef) String() string {
	return fmt.Sprintf("%s:%d", r.Category, r.ProductID)
}

// Product 상품 모델. 카테고리별 테이블(living, cosmetic)에 같은 스키마로 저장된다.
type Product struct {
	ID        uint      `gorm:"primarykey" json:"index"`
	Name      string    `gorm:"not null" json:"name"`
	Brand     string    `json:"brand"`
	ImageURL  string    `json:"image"`
	RateSum   int       `gorm:"not null;default:0" json:"rateSum"`   // 평점 합계
	RateCount int       `gorm:"not null;default:0" json:"rateCount"` // 평점 개수
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Category ProductCategory `gorm:"-" json:"category"`
}

// Ref returns the tagged reference for a loaded product.
func (p *Product) Ref() ProductRef {
	return ProductRef{Category: p.Category, ProductID: p.ID}
}
