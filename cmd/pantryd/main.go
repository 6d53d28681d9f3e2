package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"pantrypal/internal/auth"
	"pantrypal/internal/cache"
	"pantrypal/internal/config"
	"pantrypal/internal/db"
	"pantrypal/internal/handler"
	"pantrypal/internal/remote"
	"pantrypal/internal/router"
	"pantrypal/internal/service"
	"pantrypal/internal/store"
	syncer "pantrypal/internal/sync"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewSQLite(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("local database init: %v", err)
	}
	if err := store.Migrate(gormDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 10*time.Second)
	remoteStore, err := remote.Dial(dialCtx, cfg.MongoURI, cfg.MongoDatabase)
	dialCancel()
	if err != nil {
		log.Fatalf("remote store init: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize local stores
	pantryStore := store.NewPantryStore(gormDB)
	userStore := store.NewUserStore(gormDB)
	favoriteStore := store.NewFavoriteStore(gormDB)
	recipeStore := store.NewRecipeStore(gormDB)
	mealPlanStore := store.NewMealPlanStore(gormDB)

	coordinator := syncer.NewCoordinator(pantryStore, userStore, favoriteStore, mealPlanStore, remoteStore, cfg.SyncRetryDelay)

	// Initialize auth components
	tokenService := auth.NewTokenService(cfg.JWTSecret)

	// Initialize services
	recipeService := service.NewRecipeService(recipeStore, pantryStore, userStore, favoriteStore, cacheClient)
	nutritionService := service.NewNutritionService(userStore, recipeStore, coordinator)

	// Initialize handlers
	pantryHandler := handler.NewPantryHandler(pantryStore, coordinator)
	recipeHandler := handler.NewRecipeHandler(recipeService, coordinator)
	mealPlanHandler := handler.NewMealPlanHandler(mealPlanStore, coordinator)
	profileHandler := handler.NewProfileHandler(userStore, nutritionService, tokenService, coordinator)
	syncHandler := handler.NewSyncHandler(coordinator)

	// Register routes
	router.Register(
		e,
		cfg,
		pantryHandler,
		recipeHandler,
		mealPlanHandler,
		profileHandler,
		syncHandler,
	)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	coordinator.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := remoteStore.Close(shutdownCtx); err != nil {
		log.Printf("remote store close: %v", err)
	}
}
