package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	appbilling "github.com/shopledger/backend/internal/application/billing"
	appcatalog "github.com/shopledger/backend/internal/application/catalog"
	appidentity "github.com/shopledger/backend/internal/application/identity"
	appinventory "github.com/shopledger/backend/internal/application/inventory"
	apppartner "github.com/shopledger/backend/internal/application/partner"
	"github.com/shopledger/backend/internal/infrastructure/auth"
	"github.com/shopledger/backend/internal/infrastructure/authz"
	"github.com/shopledger/backend/internal/infrastructure/config"
	"github.com/shopledger/backend/internal/infrastructure/logger"
	"github.com/shopledger/backend/internal/infrastructure/persistence"
	"github.com/shopledger/backend/internal/interfaces/http/handler"
	"github.com/shopledger/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	gormLevel := gormlogger.Warn
	if cfg.App.Env == "development" {
		gormLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabase(&cfg.Database, log, gormLevel)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("closing database", zap.Error(err))
		}
	}()

	// Redis is optional: without it logout and forced invalidation only
	// take effect per process.
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, using in-memory token blacklist", zap.Error(err))
			blacklist = auth.NewInMemoryTokenBlacklist()
		} else {
			blacklist = redisBlacklist
		}
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	codec := auth.NewTokenCodec(cfg.JWT)
	hasher := auth.NewPasswordHasher()
	policy := authz.NewPolicy()

	shopRepo := persistence.NewGormShopRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	reminderRepo := persistence.NewGormReminderRepository(db.DB)
	goodsRepo := persistence.NewGormGoodsReceivedRepository(db.DB)
	registrar := persistence.NewGormRegistrar(db.DB)

	authService := appidentity.NewAuthService(userRepo, shopRepo, registrar, codec, hasher, blacklist, log)
	shopService := appidentity.NewShopService(shopRepo)
	userService := appidentity.NewUserService(userRepo, shopRepo, policy, hasher, blacklist, log)
	customerService := apppartner.NewCustomerService(customerRepo, invoiceRepo, policy)
	productService := appcatalog.NewProductService(productRepo, categoryRepo, brandRepo, policy)
	referenceService := appcatalog.NewReferenceService(categoryRepo, brandRepo)
	invoiceService := appbilling.NewInvoiceService(invoiceRepo, reminderRepo, customerRepo, productRepo, policy, log)
	goodsService := appinventory.NewGoodsReceivedService(goodsRepo, productRepo, policy, log)

	engine := router.New(router.Dependencies{
		Config:    cfg,
		Logger:    log,
		Codec:     codec,
		Blacklist: blacklist,
		Policy:    policy,
	}, router.Handlers{
		Health:        handler.NewHealthHandler(db),
		Auth:          handler.NewAuthHandler(authService, cfg.Cookie),
		Invoice:       handler.NewInvoiceHandler(invoiceService),
		Customer:      handler.NewCustomerHandler(customerService),
		Product:       handler.NewProductHandler(productService),
		Reference:     handler.NewReferenceHandler(referenceService),
		GoodsReceived: handler.NewGoodsReceivedHandler(goodsService),
		Admin:         handler.NewAdminHandler(shopService, userService, invoiceService),
		ShopAdmin:     handler.NewShopAdminHandler(shopService, userService),
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.App.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
