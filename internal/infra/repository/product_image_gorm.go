package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ProductImageGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductImageGormRepository(db *gorm.DB) *ProductImageGormRepository {
	return &ProductImageGormRepository{db: db}
}

// 商品の画像をposition昇順で返す
func (r *ProductImageGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	var images []model.ProductImage

	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position asc").
		Find(&images).Error; err != nil {
		return []model.ProductImage{}, err
	}

	return images, nil
}

// 画像を一括作成
func (r *ProductImageGormRepository) CreateBulk(ctx context.Context, productID int64, images []repo.ProductImageInput) error {
	if len(images) == 0 {
		return nil
	}

	rows := make([]model.ProductImage, 0, len(images))
	for _, img := range images {
		rows = append(rows, model.ProductImage{
			ProductID: productID,
			URL:       img.URL,
			Position:  img.Position,
		})
	}

	return r.db.WithContext(ctx).Create(&rows).Error
}

// 商品の画像を全削除
func (r *ProductImageGormRepository) DeleteByProductID(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.ProductImage{}).Error
}
