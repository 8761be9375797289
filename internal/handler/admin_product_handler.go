package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ProductImageRequest struct {
	URL      string `json:"image_url"`
	Position int    `json:"position"`
}

// 商品作成の入力
type ProductCreateRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Brand       string                `json:"brand"`
	Category    string                `json:"category"`
	Price       float64               `json:"price"`
	Rating      float64               `json:"rating"`
	InStock     bool                  `json:"inStock"`
	Sizes       []string              `json:"sizes"`
	Colors      []string              `json:"colors"`
	Images      []ProductImageRequest `json:"images"`
}

// 部分更新の入力。nilのフィールドは触らない
type ProductUpdateRequest struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Brand       *string                `json:"brand"`
	Category    *string                `json:"category"`
	Price       *float64               `json:"price"`
	Rating      *float64               `json:"rating"`
	InStock     *bool                  `json:"inStock"`
	Sizes       *[]string              `json:"sizes"`
	Colors      *[]string              `json:"colors"`
	Images      *[]ProductImageRequest `json:"images"`
}

type ProductCreateResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// /admin/products をまとめる
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// adminを登録
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")
	admin.Use(middleware.AdminSessionGuard(cfg))

	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req ProductCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.uc.AdminCreateProduct(c.Request().Context(), usecase.AdminCreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Price:       req.Price,
		Rating:      req.Rating,
		InStock:     req.InStock,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
		Images:      toImageInputs(req.Images),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ProductCreateResponse{ID: id, Message: "created"})
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ProductUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.AdminUpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Price:       req.Price,
		Rating:      req.Rating,
		InStock:     req.InStock,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
	}
	if req.Images != nil {
		imgs := toImageInputs(*req.Images)
		in.Images = &imgs
	}

	if err := h.uc.AdminUpdateProduct(c.Request().Context(), id, in); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func toImageInputs(reqs []ProductImageRequest) []repo.ProductImageInput {
	out := make([]repo.ProductImageInput, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, repo.ProductImageInput{URL: r.URL, Position: r.Position})
	}
	return out
}
