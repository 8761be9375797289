package main

import (
	"log/slog"
	"os"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/cache"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
)

func setupLogger(goEnv string) {
	var h slog.Handler
	switch goEnv {
	case "production", "prod":
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(h))
}

func main() {
	//.envは無くてもよい（コンテナ等では環境変数を直接渡す）
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	setupLogger(cfg.GoEnv)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.ProductImage{},
		&model.Order{},
		&model.OrderItem{},
		&model.Review{},
		&model.AdminUser{},
		&model.AuditLog{},
	); err != nil {
		slog.Error("automigrate failed", "err", err)
		os.Exit(1)
	}

	//商品一覧キャッシュ（REDIS_ADDR未設定ならなし）
	var listCache usecase.ProductListCache
	if cfg.RedisAddr != "" {
		c, err := cache.NewProductListCache(cfg.RedisAddr)
		if err != nil {
			slog.Warn("redis unavailable, serving without product cache", "err", err)
		} else {
			defer c.Close()
			listCache = c
		}
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	adminRepo := infraRepo.NewAdminUserGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	productUC := usecase.NewProductUsecase(txManager, productRepo, reviewRepo, auditRepo, listCache)
	orderUC := usecase.NewOrderUsecase(txManager, auditRepo)
	adminAuthUC := usecase.NewAdminAuthUsecase(cfg, adminRepo, auditRepo)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)
	uploadUC := usecase.NewUploadUsecase(cfg.UploadDir)

	//Handler生成
	handlers := server.Handlers{
		Product:      handler.NewProductHandler(productUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminOrder:   handler.NewAdminOrderHandler(orderUC),
		AdminAuth:    handler.NewAdminAuthHandler(adminAuthUC),
		AdminAudit:   handler.NewAdminAuditLogHandler(auditUC),
		Upload:       handler.NewUploadHandler(uploadUC),
	}

	//Server起動
	if err := server.Start(cfg, handlers); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
