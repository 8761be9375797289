package repository

import "context"

// 商品詳細のreview_countにだけ使う
type ReviewRepository interface {
	CountByProductID(ctx context.Context, productID int64) (int64, error)
}
