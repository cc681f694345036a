package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"variantd/internal/api/handlers"
	"variantd/internal/api/middleware"
	"variantd/internal/config"
	"variantd/internal/database"
	"variantd/internal/drafts"
	"variantd/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, store *drafts.Store, publisher handlers.DraftPublisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))

	// Initialize handlers
	draftHandler := handlers.NewDraftHandler(store, db.DB, publisher, logger)
	productHandler := handlers.NewProductHandler(db.DB, logger)

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Draft editing sessions
		draftGroup := v1.Group("/drafts")
		{
			draftGroup.POST("", draftHandler.Open)
			draftGroup.GET("/:id", draftHandler.Get)
			draftGroup.DELETE("/:id", draftHandler.CloseDraft)
			draftGroup.PUT("/:id/base-price", draftHandler.SetBasePrice)
			draftGroup.POST("/:id/attribute-types", draftHandler.AddAttributeType)
			draftGroup.DELETE("/:id/attribute-types/:index", draftHandler.RemoveAttributeType)
			draftGroup.POST("/:id/generate", draftHandler.Generate)
			draftGroup.POST("/:id/variants", draftHandler.AddVariant)
			draftGroup.DELETE("/:id/variants/:index", draftHandler.RemoveVariant)
			draftGroup.PATCH("/:id/variants/:index", draftHandler.UpdateVariantField)
			draftGroup.POST("/:id/variants/:index/commit-label", draftHandler.CommitLabel)
			draftGroup.GET("/:id/duplicates", draftHandler.Duplicates)
			draftGroup.POST("/:id/submit", draftHandler.Submit)
		}

		// Submitted catalog products
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.DELETE("/:id", productHandler.Delete)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      cors.Default().Handler(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// GetRouter returns the Gin router, mainly for handler tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
