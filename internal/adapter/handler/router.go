package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/sales-coach/pkg/config"
)

// HealthCheck pings one dependency
type HealthCheck func(ctx context.Context) error

// Router holds all handlers
type Router struct {
	cfg       *config.Config
	auth      echo.MiddlewareFunc
	fireflies *Fireflies
	webhook   *Webhook
	callPlan  *CallPlan
	coaching  *Coaching
	analysis  *Analysis
	checks    map[string]HealthCheck
}

// Handlers groups the endpoint handlers passed to NewRouter
type Handlers struct {
	Fireflies *Fireflies
	Webhook   *Webhook
	CallPlan  *CallPlan
	Coaching  *Coaching
	Analysis  *Analysis
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, auth echo.MiddlewareFunc, h Handlers, checks map[string]HealthCheck) *Router {
	return &Router{
		cfg:       cfg,
		auth:      auth,
		fireflies: h.Fireflies,
		webhook:   h.Webhook,
		callPlan:  h.CallPlan,
		coaching:  h.Coaching,
		analysis:  h.Analysis,
		checks:    checks,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1")

	// Signed by the sender, not by a bearer token
	v1.POST("/webhooks/fireflies", rt.webhook.Fireflies)

	api := v1.Group("", rt.auth)
	api.POST("/fireflies/sync", rt.fireflies.Sync)
	api.POST("/call-plans", rt.callPlan.Create)
	api.POST("/coaching", rt.coaching.Generate)
	api.GET("/coaching/:memberId/history", rt.coaching.History)
	api.GET("/analyses", rt.analysis.List)
	api.GET("/analyses/:id", rt.analysis.Get)
}

// healthCheck reports each dependency; any failure makes the service unavailable
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(rt.checks))
	for name, check := range rt.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	environment := ""
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}
	return c.JSON(status, map[string]interface{}{
		"status":       overall,
		"environment":  environment,
		"dependencies": deps,
		"time":         time.Now().UTC().Format(time.RFC3339),
	})
}
