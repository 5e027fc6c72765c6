package main

import (
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/auth"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/config"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/handler"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/infra/db"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/infra/logger"
	infraRepo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/infra/repository"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/server"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envは無くても起動できる（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.DeliveryMethod{},
		&model.SessionState{},
		&model.Order{},
		&model.OrderItem{},
		&model.StockAdjustment{},
		&model.AuditLog{},
		&model.User{},
		&model.NewsletterSubscriber{},
	); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	deliveryRepo := infraRepo.NewDeliveryMethodGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	newsletterRepo := infraRepo.NewNewsletterGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	sessionStore := infraRepo.NewSessionGormStore(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//認可のケイパビリティ確認はDB問い合わせ
	roleChecker := auth.NewRepoRoleChecker(userRepo)

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, auditRepo)
	inventoryUC := usecase.NewInventoryUsecase(productRepo, inventoryRepo, log)
	cartUC := usecase.NewCartUsecase(sessionStore, productRepo, deliveryRepo)
	wishlistUC := usecase.NewWishlistUsecase(sessionStore, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, sessionStore, deliveryRepo, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo)
	deliveryUC := usecase.NewDeliveryUsecase(deliveryRepo)
	newsletterUC := usecase.NewNewsletterUsecase(newsletterRepo)

	//Handler生成
	handlers := server.Handlers{
		Product:    handler.NewProductHandler(productUC),
		Cart:       handler.NewCartHandler(cartUC),
		Wishlist:   handler.NewWishlistHandler(wishlistUC),
		Order:      handler.NewOrderHandler(orderUC),
		Delivery:   handler.NewDeliveryHandler(deliveryUC),
		Newsletter: handler.NewNewsletterHandler(newsletterUC),

		AdminProduct:  handler.NewAdminProductHandler(productUC, inventoryUC),
		AdminOrder:    handler.NewAdminOrderHandler(adminOrderUC, newsletterUC),
		AdminDelivery: handler.NewAdminDeliveryHandler(deliveryUC),
	}

	//Server起動
	e := server.New(cfg, log, roleChecker, handlers)

	addr := cfg.Port
	if addr == "" {
		addr = "8080"
	}
	if addr[0] != ':' {
		addr = ":" + addr
	}

	log.Info("server starting", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
