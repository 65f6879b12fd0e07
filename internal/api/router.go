package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/app"
	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/handlers"
	"github.com/Junior-189/CITT-Project-sub001/internal/middleware"
	"github.com/Junior-189/CITT-Project-sub001/internal/permissions"
	"github.com/Junior-189/CITT-Project-sub001/internal/services"
)

// NewRouter builds the Gin engine, wires the middleware chain and registers
// all resource routes. Role and permission requirements are declared at
// registration time in the per-resource route files.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// Health endpoints (public)
	if cfg.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health())
		r.GET("/ready", handlers.Ready(db))
	}

	// Metrics endpoint (public)
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	store, err := permissions.NewStore(db)
	if err != nil {
		return nil, err
	}
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}

	authHandler, err := handlers.NewAuthHandler(db, jwt)
	if err != nil {
		return nil, err
	}

	// Public auth routes
	r.POST("/api/auth/login", authHandler.Login)

	// Everything below requires a verified principal. Successful writes are
	// recorded by the audit trail.
	api := r.Group("/api")
	api.Use(middleware.Auth(jwt, db))
	api.Use(middleware.AuditTrail(audit))

	api.GET("/auth/me", authHandler.Me)
	api.POST("/auth/refresh", authHandler.Refresh)

	userHandler, err := handlers.NewUserHandler(db)
	if err != nil {
		return nil, err
	}
	projectHandler, err := handlers.NewProjectHandler(db)
	if err != nil {
		return nil, err
	}
	fundingHandler, err := handlers.NewFundingHandler(db)
	if err != nil {
		return nil, err
	}
	ipHandler, err := handlers.NewIPRecordHandler(db)
	if err != nil {
		return nil, err
	}
	eventHandler, err := handlers.NewEventHandler(db)
	if err != nil {
		return nil, err
	}
	notificationHandler, err := handlers.NewNotificationHandler(db)
	if err != nil {
		return nil, err
	}
	auditHandler, err := handlers.NewAuditHandler(db)
	if err != nil {
		return nil, err
	}
	permissionHandler, err := handlers.NewPermissionHandler(db)
	if err != nil {
		return nil, err
	}
	dashboardHandler, err := handlers.NewDashboardHandler(db)
	if err != nil {
		return nil, err
	}

	// Public event calendar: anonymous visitors browse upcoming events; a
	// valid token attaches the principal, a bad one degrades to anonymous.
	r.GET("/api/events", middleware.OptionalAuth(jwt, db), eventHandler.List)

	registerUserRoutes(api, userHandler, db, store, audit)
	registerProjectRoutes(api, projectHandler, db, store, audit)
	registerFundingRoutes(api, fundingHandler, db, store, audit)
	registerIPRecordRoutes(api, ipHandler, db, store, audit)
	registerEventRoutes(api, eventHandler, store, audit)
	registerNotificationRoutes(api, notificationHandler, db)
	registerAuditRoutes(api, auditHandler, store, audit)
	registerPermissionRoutes(api, permissionHandler)
	registerDashboardRoutes(api, dashboardHandler)

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
