package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 商品一覧レスポンスのキャッシュの約束。
// ミスは (nil, nil)。不調はエラーで返り、DBへフォールバックする
type ProductListCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
	InvalidateAll(ctx context.Context) error
}

type ProductUsecase struct {
	tx          repo.TransactionManager
	productRepo repo.ProductRepository
	reviewRepo  repo.ReviewRepository
	auditRepo   repo.AuditLogRepository
	cache       ProductListCache // nil可
}

// DI。cacheはnilでもよい（その場合は毎回DBを読む）
func NewProductUsecase(
	tx repo.TransactionManager,
	productRepo repo.ProductRepository,
	reviewRepo repo.ReviewRepository,
	auditRepo repo.AuditLogRepository,
	cache ProductListCache,
) *ProductUsecase {
	return &ProductUsecase{
		tx:          tx,
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		auditRepo:   auditRepo,
		cache:       cache,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Category string
	Admin    bool // trueなら在庫なしも返す
	Page     int
	Limit    int
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ProductListOutput struct {
	Products   []model.Product `json:"products"`
	Pagination Pagination      `json:"pagination"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	key := fmt.Sprintf("products:list:%s:admin=%t:%d:%d", in.Category, in.Admin, in.Page, in.Limit)

	if u.cache != nil {
		raw, err := u.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("product list cache read failed", "err", err)
		} else if raw != nil {
			var out ProductListOutput
			if err := json.Unmarshal(raw, &out); err == nil {
				return out, nil
			}
			slog.Warn("product list cache entry malformed", "key", key)
		}
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Category:    strings.TrimSpace(in.Category),
		InStockOnly: !in.Admin,
		Page:        in.Page,
		Limit:       in.Limit,
	})
	if err != nil {
		slog.Error("product list query failed", "err", err)
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	pages := int((total + int64(in.Limit) - 1) / int64(in.Limit))
	out := ProductListOutput{
		Products: items,
		Pagination: Pagination{
			Page:  in.Page,
			Limit: in.Limit,
			Total: total,
			Pages: pages,
		},
	}

	if u.cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := u.cache.Set(ctx, key, raw); err != nil {
				slog.Warn("product list cache write failed", "err", err)
			}
		}
	}

	return out, nil
}

// 商品詳細。画像はposition昇順、review_countはreviewsテーブルから数える
type ProductDetailOutput struct {
	model.Product
	ReviewCount int64 `json:"review_count"`
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		slog.Error("product detail query failed", "product_id", productID, "err", err)
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	count, err := u.reviewRepo.CountByProductID(ctx, productID)
	if err != nil {
		slog.Error("review count query failed", "product_id", productID, "err", err)
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductDetailOutput{Product: p, ReviewCount: count}, nil
}

type AdminCreateProductInput struct {
	Name        string
	Description string
	Brand       string
	Category    string
	Price       float64
	Rating      float64
	InStock     bool
	Sizes       []string
	Colors      []string
	Images      []repo.ProductImageInput
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, in AdminCreateProductInput) (int64, error) {
	if strings.TrimSpace(in.Name) == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price < 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Rating < 0 || in.Rating > 5 {
		return 0, NewHTTPError(http.StatusBadRequest, "rating must be between 0 and 5")
	}

	//sizes/colorsは省略時に空配列
	sizes := in.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	colors := in.Colors
	if colors == nil {
		colors = []string{}
	}

	var createdID int64

	//商品＋画像は同一トランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		now := time.Now()
		p, err := r.Products().Create(ctx, model.Product{
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Brand:       in.Brand,
			Category:    in.Category,
			Price:       in.Price,
			Rating:      in.Rating,
			InStock:     in.InStock,
			Sizes:       sizes,
			Colors:      colors,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.ProductImages().CreateBulk(ctx, p.ID, in.Images); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		createdID = p.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	u.audit(ctx, model.AuditActionCreateProduct, createdID, "", fmt.Sprintf(`{"name":%q}`, in.Name))
	u.invalidateListCache(ctx)

	return createdID, nil
}

// 部分更新の入力。nilのフィールドは触らない
type AdminUpdateProductInput struct {
	Name        *string
	Description *string
	Brand       *string
	Category    *string
	Price       *float64
	Rating      *float64
	InStock     *bool
	Sizes       *[]string
	Colors      *[]string
	Images      *[]repo.ProductImageInput
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, productID int64, in AdminUpdateProductInput) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price != nil && *in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Rating != nil && (*in.Rating < 0 || *in.Rating > 5) {
		return NewHTTPError(http.StatusBadRequest, "rating must be between 0 and 5")
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Brand != nil {
		fields["brand"] = *in.Brand
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.Rating != nil {
		fields["rating"] = *in.Rating
	}
	if in.InStock != nil {
		fields["in_stock"] = *in.InStock
	}
	if in.Sizes != nil {
		raw, _ := json.Marshal(*in.Sizes)
		fields["sizes"] = string(raw)
	}
	if in.Colors != nil {
		raw, _ := json.Marshal(*in.Colors)
		fields["colors"] = string(raw)
	}
	if len(fields) > 0 {
		fields["updated_at"] = time.Now()
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Products().Update(ctx, productID, fields); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//画像が渡されたときだけ総入れ替え
		if in.Images != nil {
			if err := r.ProductImages().DeleteByProductID(ctx, productID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.ProductImages().CreateBulk(ctx, productID, *in.Images); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	beforeJSON, _ := json.Marshal(map[string]interface{}{"name": before.Name, "price": before.Price, "inStock": before.InStock})
	afterJSON, _ := json.Marshal(fields)
	u.audit(ctx, model.AuditActionUpdateProduct, productID, string(beforeJSON), string(afterJSON))
	u.invalidateListCache(ctx)

	return nil
}

// 画像→商品の順で同一トランザクション内で消す
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var deletedURLs []string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//消す前に画像URLを控えて監査ログに残す
		images, err := r.ProductImages().ListByProductID(ctx, productID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		deletedURLs = make([]string, 0, len(images))
		for _, img := range images {
			deletedURLs = append(deletedURLs, img.URL)
		}

		if err := r.ProductImages().DeleteByProductID(ctx, productID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Products().Delete(ctx, productID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return err
	}

	beforeJSON, _ := json.Marshal(map[string]interface{}{"image_urls": deletedURLs})
	u.audit(ctx, model.AuditActionDeleteProduct, productID, string(beforeJSON), "")
	u.invalidateListCache(ctx)

	return nil
}

func (u *ProductUsecase) audit(ctx context.Context, action model.AuditAction, resourceID int64, beforeJSON, afterJSON string) {
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   resourceID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    time.Now(),
	}); err != nil {
		slog.Error("audit log write failed", "action", action, "err", err)
	}
}

func (u *ProductUsecase) invalidateListCache(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.InvalidateAll(ctx); err != nil {
		slog.Warn("product list cache invalidation failed", "err", err)
	}
}
