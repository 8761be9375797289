package repository

import (
	"app/internal/domain/model"
	"context"
)

// 管理者は1レコード運用（最初の1件を使う）
type AdminUserRepository interface {
	FindFirst(ctx context.Context) (model.AdminUser, error)
	UpdatePasswordHash(ctx context.Context, adminID int64, newHash string) error
}
