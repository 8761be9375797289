package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Category    string
	InStockOnly bool
	Page        int
	Limit       int
}

// 画像のみ部分更新したいときの入力
type ProductImageInput struct {
	URL      string
	Position int
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// 新着順。画像（position昇順）込みで返す
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	// 渡したカラムだけ更新する（部分更新）
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

// 商品画像の永続化。ライフサイクルは商品側が握る
type ProductImageRepository interface {
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error)
	CreateBulk(ctx context.Context, productID int64, images []ProductImageInput) error
	DeleteByProductID(ctx context.Context, productID int64) error
}
