package usecase_test

import (
	"context"
	"strings"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type ProdProductRepoMock struct{ mock.Mock }

func (m *ProdProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProdProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProdProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProdProductRepoMock) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *ProdProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProdImageRepoMock struct{ mock.Mock }

func (m *ProdImageRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	args := m.Called(ctx, productID)
	images, _ := args.Get(0).([]model.ProductImage)
	return images, args.Error(1)
}

func (m *ProdImageRepoMock) CreateBulk(ctx context.Context, productID int64, images []repo.ProductImageInput) error {
	args := m.Called(ctx, productID, images)
	return args.Error(0)
}

func (m *ProdImageRepoMock) DeleteByProductID(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type ProdReviewRepoMock struct{ mock.Mock }

func (m *ProdReviewRepoMock) CountByProductID(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

type ProdAuditRepoMock struct{ mock.Mock }

func (m *ProdAuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *ProdAuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	panic("not used in ProductUsecase tests")
}

// Txの開始/commit/rollbackを飛ばしてfnを直接呼ぶ
type txReposStub struct {
	products   repo.ProductRepository
	images     repo.ProductImageRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
}

func (s txReposStub) Products() repo.ProductRepository           { return s.products }
func (s txReposStub) ProductImages() repo.ProductImageRepository { return s.images }
func (s txReposStub) Orders() repo.OrderRepository               { return s.orders }
func (s txReposStub) OrderItems() repo.OrderItemRepository       { return s.orderItems }

type TxManagerStub struct{ repos txReposStub }

func (m TxManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func newProductUC(pRepo *ProdProductRepoMock, iRepo *ProdImageRepoMock, rRepo *ProdReviewRepoMock, aRepo *ProdAuditRepoMock) *usecase.ProductUsecase {
	tx := TxManagerStub{repos: txReposStub{products: pRepo, images: iRepo}}
	return usecase.NewProductUsecase(tx, pRepo, rRepo, aRepo, nil)
}

// テスト用のインメモリキャッシュ
type fakeListCache struct {
	entries     map[string][]byte
	invalidated int
}

func newFakeListCache() *fakeListCache {
	return &fakeListCache{entries: map[string][]byte{}}
}

func (c *fakeListCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.entries[key], nil
}

func (c *fakeListCache) Set(ctx context.Context, key string, val []byte) error {
	c.entries[key] = val
	return nil
}

func (c *fakeListCache) InvalidateAll(ctx context.Context) error {
	c.entries = map[string][]byte{}
	c.invalidated++
	return nil
}

// =====================
// Public: List / Detail
// =====================

func TestProductUsecase_ListProducts_InvalidPage(t *testing.T) {
	uc := newProductUC(new(ProdProductRepoMock), new(ProdImageRepoMock), new(ProdReviewRepoMock), new(ProdAuditRepoMock))

	_, err := uc.ListProducts(context.Background(), usecase.ListProductsInput{Page: 0, Limit: 20})
	assertErrContains(t, err, "invalid page")
}

func TestProductUsecase_ListProducts_InvalidLimit(t *testing.T) {
	uc := newProductUC(new(ProdProductRepoMock), new(ProdImageRepoMock), new(ProdReviewRepoMock), new(ProdAuditRepoMock))

	_, err := uc.ListProducts(context.Background(), usecase.ListProductsInput{Page: 1, Limit: 101})
	assertErrContains(t, err, "invalid limit")
}

// 非管理者の一覧は在庫ありのみ
func TestProductUsecase_ListProducts_PublicFiltersOutOfStock(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdImageRepoMock), new(ProdReviewRepoMock), new(ProdAuditRepoMock))

	q := repo.ProductListQuery{Category: "sneakers", InStockOnly: true, Page: 1, Limit: 20}
	items := []model.Product{{ID: 1, Name: "Air Max", InStock: true}}
	pRepo.On("List", mock.Anything, q).Return(items, int64(45), nil)

	out, err := uc.ListProducts(ctx, usecase.ListProductsInput{Category: "sneakers", Page: 1, Limit: 20})
	assert.NoError(t, err)
	assert.Equal(t, int64(45), out.Pagination.Total)
	assert.Equal(t, 3, out.Pagination.Pages)
	assert.Equal(t, 1, len(out.Products))

	pRepo.AssertExpectations(t)
}

// 管理者は在庫なしも見える
func TestProductUsecase_ListProducts_AdminSeesAll(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdImageRepoMock), new(ProdReviewRepoMock), new(ProdAuditRepoMock))

	q := repo.ProductListQuery{InStockOnly: false, Page: 1, Limit: 50}
	pRepo.On("List", mock.Anything, q).Return([]model.Product{{ID: 1}, {ID: 2, InStock: false}}, int64(2), nil)

	out, err := uc.ListProducts(ctx, usecase.ListProductsInput{Admin: true, Page: 1, Limit: 50})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(out.Products))
	assert.Equal(t, 1, out.Pagination.Pages)

	pRepo.AssertExpectations(t)
}

// 2回目はキャッシュから返り、DBは1回しか読まれない
func TestProductUsecase_ListProducts_ServedFromCache(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProdProductRepoMock)
	cache := newFakeListCache()
	tx := TxManagerStub{repos: txReposStub{products: pRepo}}
	uc := usecase.NewProductUsecase(tx, pRepo, new(ProdReviewRepoMock), new(ProdAuditRepoMock), cache)

	pRepo.On("List", mock.Anything, mock.Anything).Return([]model.Product{{ID: 1}}, int64(1), nil).Once()

	in := usecase.ListProductsInput{Page: 1, Limit: 20}

	first, err := uc.ListProducts(ctx, in)
	assert.NoError(t, err)

	second, err := uc.ListProducts(ctx, in)
	assert.NoError(t, err)
	assert.Equal(t, first.Pagination, second.Pagination)

	pRepo.AssertExpectations(t)
}

// 商品を消したら一覧キャッシュも消える
func TestProductUsecase_AdminDeleteProduct_InvalidatesCache(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProdProductRepoMock)
	iRepo := new(ProdImageRepoMock)
	aRepo := new(ProdAuditRepoMock)
	cache := newFakeListCache()
	tx := TxManagerStub{repos: txReposStub{products: pRepo, images: iRepo}}
	uc := usecase.NewProductUsecase(tx, pRepo, new(ProdReviewRepoMock), aRepo, cache)

	iRepo.On("ListByProductID", mock.Anything, int64(1)).Return([]model.ProductImage{}, nil)
	iRepo.On("DeleteByProductID", mock.Anything, int64(1)).Return(nil)
	pRepo.On("Delete", mock.Anything, int64(1)).Return(nil)
	aRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := uc.AdminDeleteProduct(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)
}

func TestProductUsecase_GetProductDetail_NotFound(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdImageRepoMock), new(ProdReviewRepoMock), new(ProdAuditRepoMock))

	pRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetProductDetail(ctx, 99)
	assertErrContains(t, err, "not found")
}

func TestProductUsecase_GetProductDetail_IncludesReviewCount(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProdProductRepoMock)
	rRepo := new(ProdReviewRepoMock)
	uc := newProductUC(pRepo, new(ProdImageRepoMock), rRepo, new(ProdAuditRepoMock))

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "Air Max"}, nil)
	rRepo.On("CountByProductID", mock.Anything, int64(1)).Return(int64(7), nil)

	out, err := uc.GetProductDetail(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)
	assert.Equal(t, int64(7), out.ReviewCount)

	pRepo.AssertExpectations(t)
	rRepo.AssertExpectations(t)
}

// =====================
// Admin: Product CRUD
// =====================

func TestProductUsecase_AdminCreateProduct_Validation(t *testing.T) {
	uc := newProductUC(new(ProdProductRepoMock), new(ProdImageRepoMock), new(ProdReviewRepoMock), new(ProdAuditRepoMock))

	_, err := uc.AdminCreateProduct(context.Background(), usecase.AdminCreateProductInput{Name: " ", Price: 1})
	assertErrContains(t, err, "name required")

	_, err = uc.AdminCreateProduct(context.Background(), usecase.AdminCreateProductInput{Name: "x", Price: -1})
	assertErrContains(t, err, "price must be >= 0")

	_, err = uc.AdminCreateProduct(context.Background(), usecase.AdminCreateProductInput{Name: "x", Price: 1, Rating: 5.5})
	assertErrContains(t, err, "rating must be between 0 and 5")
}

// 商品＋画像＋監査ログ
func TestProductUsecase_AdminCreateProduct_Success(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProdProductRepoMock)
	iRepo := new(ProdImageRepoMock)
	aRepo := new(ProdAuditRepoMock)
	uc := newProductUC(pRepo, iRepo, new(ProdReviewRepoMock), aRepo)

	images := []repo.ProductImageInput{
		{URL: "/uploads/a.jpg", Position: 0},
		{URL: "/uploads/b.jpg", Position: 1},
	}

	pRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		// 名前はtrim、sizes/colors省略時は空配列
		return p.Name == "Air Max" && p.Price == 150 && p.Sizes != nil && len(p.Sizes) == 0
	})).Return(model.Product{ID: 123}, nil)
	iRepo.On("CreateBulk", mock.Anything, int64(123), images).Return(nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionCreateProduct && l.ResourceID == 123
	})).Return(nil)

	id, err := uc.AdminCreateProduct(ctx, usecase.AdminCreateProductInput{
		Name:    " Air Max ",
		Price:   150,
		InStock: true,
		Images:  images,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(123), id)

	pRepo.AssertExpectations(t)
	iRepo.AssertExpectations(t)
	aRepo.AssertExpectations(t)
}

func TestProductUsecase_AdminUpdateProduct_NotFound(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdImageRepoMock), new(ProdReviewRepoMock), new(ProdAuditRepoMock))

	pRepo.On("FindByID", mock.Anything, int64(999)).Return(model.Product{}, repo.ErrNotFound)

	name := "X"
	err := uc.AdminUpdateProduct(ctx, 999, usecase.AdminUpdateProductInput{Name: &name})
	assertErrContains(t, err, "not found")
}

// 渡したフィールドだけ更新される
func TestProductUsecase_AdminUpdateProduct_PartialFields(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProdProductRepoMock)
	aRepo := new(ProdAuditRepoMock)
	uc := newProductUC(pRepo, new(ProdImageRepoMock), new(ProdReviewRepoMock), aRepo)

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "Air Max", Price: 150}, nil)
	pRepo.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(fields map[string]interface{}) bool {
		_, hasName := fields["name"]
		_, hasPrice := fields["price"]
		return !hasName && hasPrice && fields["price"] == 120.0
	})).Return(nil)
	aRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	price := 120.0
	err := uc.AdminUpdateProduct(ctx, 1, usecase.AdminUpdateProductInput{Price: &price})
	assert.NoError(t, err)

	pRepo.AssertExpectations(t)
}

// 画像リストを渡すと総入れ替え
func TestProductUsecase_AdminUpdateProduct_ReplacesImages(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProdProductRepoMock)
	iRepo := new(ProdImageRepoMock)
	aRepo := new(ProdAuditRepoMock)
	uc := newProductUC(pRepo, iRepo, new(ProdReviewRepoMock), aRepo)

	newImages := []repo.ProductImageInput{{URL: "/uploads/new.jpg", Position: 0}}

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1}, nil)
	pRepo.On("Update", mock.Anything, int64(1), mock.Anything).Return(nil)
	iRepo.On("DeleteByProductID", mock.Anything, int64(1)).Return(nil)
	iRepo.On("CreateBulk", mock.Anything, int64(1), newImages).Return(nil)
	aRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := uc.AdminUpdateProduct(ctx, 1, usecase.AdminUpdateProductInput{Images: &newImages})
	assert.NoError(t, err)

	iRepo.AssertExpectations(t)
}

// 画像→商品の順で消え、消した画像URLが監査ログに残る
func TestProductUsecase_AdminDeleteProduct_Success(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProdProductRepoMock)
	iRepo := new(ProdImageRepoMock)
	aRepo := new(ProdAuditRepoMock)
	uc := newProductUC(pRepo, iRepo, new(ProdReviewRepoMock), aRepo)

	iRepo.On("ListByProductID", mock.Anything, int64(1)).Return([]model.ProductImage{
		{ID: 10, ProductID: 1, URL: "/uploads/a.jpg", Position: 0},
		{ID: 11, ProductID: 1, URL: "/uploads/b.jpg", Position: 1},
	}, nil)
	iRepo.On("DeleteByProductID", mock.Anything, int64(1)).Return(nil)
	pRepo.On("Delete", mock.Anything, int64(1)).Return(nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteProduct && l.ResourceID == 1 &&
			l.BeforeJSON == `{"image_urls":["/uploads/a.jpg","/uploads/b.jpg"]}`
	})).Return(nil)

	err := uc.AdminDeleteProduct(ctx, 1)
	assert.NoError(t, err)

	pRepo.AssertExpectations(t)
	iRepo.AssertExpectations(t)
	aRepo.AssertExpectations(t)
}

func TestProductUsecase_AdminDeleteProduct_NotFound(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProdProductRepoMock)
	iRepo := new(ProdImageRepoMock)
	uc := newProductUC(pRepo, iRepo, new(ProdReviewRepoMock), new(ProdAuditRepoMock))

	iRepo.On("ListByProductID", mock.Anything, int64(42)).Return([]model.ProductImage{}, nil)
	iRepo.On("DeleteByProductID", mock.Anything, int64(42)).Return(nil)
	pRepo.On("Delete", mock.Anything, int64(42)).Return(repo.ErrNotFound)

	err := uc.AdminDeleteProduct(ctx, 42)
	assertErrContains(t, err, "not found")
}
