package server

import (
	"testing"

	"tapforward/internal/config"
	"tapforward/internal/database"
	"tapforward/internal/middleware"
	"tapforward/internal/repository"
	"tapforward/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer wires a Server against in-memory sqlite with routes
// registered, for end-to-end handler tests.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A pooled second connection would see its own empty :memory: database.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		JWTSecret: "test-secret-key-with-enough-length",
		BaseURL:   "http://localhost:8460",
		Port:      "8460",
		Env:       "test",
	}
	middleware.InitMiddleware(cfg)

	s := &Server{
		config:           cfg,
		db:               db,
		userRepo:         repository.NewUserRepository(db),
		messageRepo:      repository.NewMessageRepository(db),
		forwardRepo:      repository.NewForwardRepository(db),
		viewRepo:         repository.NewForwardViewRepository(db),
		subscriptionRepo: repository.NewSubscriptionRepository(db),
	}
	s.messageService = service.NewMessageService(s.messageRepo)
	s.planService = service.NewPlanService(s.subscriptionRepo)
	s.forwardService = service.NewForwardService(
		s.forwardRepo, s.viewRepo, s.messageRepo, s.planService.ResolvePlan)
	s.analyticsService = service.NewAnalyticsService(
		s.messageRepo, s.forwardRepo, s.viewRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}
