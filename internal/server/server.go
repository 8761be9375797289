package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlers はルート登録に必要なハンドラ一式
type Handlers struct {
	Product      *handler.ProductHandler
	Order        *handler.OrderHandler
	AdminProduct *handler.AdminProductHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminAuth    *handler.AdminAuthHandler
	AdminAudit   *handler.AdminAuditLogHandler
	Upload       *handler.UploadHandler
}

// StartはechoをセットアップしてListenする
func Start(cfg config.Config, h Handlers) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.FEURL},
	}))

	//アップロード画像の配信
	e.Static("/uploads", cfg.UploadDir)

	h.Product.RegisterRoutes(e)
	h.Order.RegisterRoutes(e)
	h.AdminProduct.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.AdminAuth.RegisterRoutes(e, cfg)
	h.AdminAudit.RegisterRoutes(e, cfg)
	h.Upload.RegisterRoutes(e, cfg)

	addr := ":" + cfg.Port
	return e.Start(addr)
}
