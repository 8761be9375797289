package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 画像アップロード
type UploadHandler struct {
	uc *usecase.UploadUsecase
}

func NewUploadHandler(uc *usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

type UploadResponse struct {
	URL string `json:"url"`
}

func (h *UploadHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin")
	g.Use(middleware.AdminSessionGuard(cfg))
	g.POST("/upload", h.upload)
}

func (h *UploadHandler) upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file uploaded"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid file"})
	}
	defer src.Close()

	url, err := h.uc.SaveImage(fh.Filename, fh.Header.Get("Content-Type"), src)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, UploadResponse{URL: url})
}
