package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type AdminUserGormRepository struct {
	db *gorm.DB
}

func NewAdminUserGormRepository(db *gorm.DB) *AdminUserGormRepository {
	return &AdminUserGormRepository{db: db}
}

// 最初の1件を返す（管理者は1レコード運用）
func (r *AdminUserGormRepository) FindFirst(ctx context.Context) (model.AdminUser, error) {
	var admin model.AdminUser
	err := r.db.WithContext(ctx).Order("id asc").First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.AdminUser{}, repo.ErrNotFound
	}
	if err != nil {
		return model.AdminUser{}, err
	}
	return admin, nil
}

func (r *AdminUserGormRepository) UpdatePasswordHash(ctx context.Context, adminID int64, newHash string) error {
	res := r.db.WithContext(ctx).Model(&model.AdminUser{}).
		Where("id = ?", adminID).
		Update("password_hash", newHash)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
