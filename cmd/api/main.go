package main

import (
	"context"

	"github.com/joho/godotenv"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/session"
	"storefront/internal/server"
	"storefront/internal/usecase"
	"storefront/pkg/logger"
)

func main() {
	// .envは任意（本番は環境変数だけで動かす）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{
		Env:   cfg.GoEnv,
		Level: cfg.LogLevel,
	})

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.Category{},
		&model.Brand{},
		&model.Product{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	//カートセッション用Redis
	redisClient, err := session.Connect(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	brandRepo := infraRepo.NewBrandGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	cartStore := session.NewRedisCartStore(redisClient)

	//Usecase生成
	catalogUC := usecase.NewCatalogUsecase(productRepo, categoryRepo, brandRepo)
	cartUC := usecase.NewCartUsecase(cartStore, productRepo)
	productUC := usecase.NewProductUsecase(txManager, productRepo, auditRepo)

	//Handler生成
	handlers := server.Handlers{
		Product:      handler.NewProductHandler(catalogUC),
		Category:     handler.NewCategoryHandler(catalogUC),
		Cart:         handler.NewCartHandler(cartUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
	}

	//Server起動
	e := server.New(cfg, log, handlers)

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := server.Start(e, cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
