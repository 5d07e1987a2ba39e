// Package httpapi exposes the portfolio services over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentfolio/internal/apperr"
	"rentfolio/internal/leasing"
	"rentfolio/internal/portfolio"
	"rentfolio/internal/rent"
	"rentfolio/internal/valuation"
)

// Services are the handlers' dependencies.
type Services struct {
	Generator  *rent.Generator
	Overdue    *rent.OverdueDetector
	Payments   *rent.Payments
	Valuations *valuation.Calculator
	Portfolio  *portfolio.Aggregator
	Leasing    *leasing.Service
}

// Options configure the router.
type Options struct {
	JWTSecret   []byte
	CORSOrigins []string
	Now         func() time.Time // defaults to time.Now
}

type handler struct {
	svc Services
	log *zap.Logger
	now func() time.Time
}

// NewRouter builds the gin engine with every route under /api.
func NewRouter(svc Services, opts Options, log *zap.Logger) *gin.Engine {
	h := &handler{svc: svc, log: log, now: opts.Now}
	if h.now == nil {
		h.now = time.Now
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(log))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = opts.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(Auth(opts.JWTSecret))
	{
		api.POST("/rent-payments/generate", h.generateRentPayments)
		api.GET("/rent-payments/overdue", h.overduePayments)
		api.GET("/rent-payments/export", h.exportRentPayments)
		api.GET("/rent-payments", h.listRentPayments)
		api.POST("/rent-payments", h.createRentPayment)
		api.GET("/rent-payments/:id", h.getRentPayment)
		api.PUT("/rent-payments/:id", h.updateRentPayment)
		api.PATCH("/rent-payments/:id/status", h.updatePaymentStatus)
		api.DELETE("/rent-payments/:id", h.deleteRentPayment)

		api.POST("/valuations/calculate", h.calculateValuation)
		api.GET("/valuations/portfolio", h.portfolioSummary)
		api.GET("/valuations", h.listValuations)
		api.GET("/valuations/:id", h.getValuation)
		api.DELETE("/valuations/:id", h.deleteValuation)

		api.GET("/expenses/summary", h.expenseSummary)

		api.POST("/leases", h.createLease)
		api.PUT("/leases/:id", h.updateLease)
		api.PATCH("/leases/:id/status", h.updateLeaseStatus)
		api.POST("/leases/:id/renew", h.renewLease)
		api.DELETE("/leases/:id", h.deleteLease)

		api.GET("/properties/:id/summary", h.propertySummary)
		api.DELETE("/properties/:id", h.deleteProperty)
		api.DELETE("/tenants/:id", h.deleteTenant)
	}
	return r
}

// fail maps service errors onto HTTP statuses.
func (h *handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidState), errors.Is(err, apperr.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// deleteBy runs an owner-scoped delete keyed by :id and answers 204.
func (h *handler) deleteBy(c *gin.Context, del func(ctx context.Context, ownerID, id uint) error) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := del(c.Request.Context(), ownerID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// optionalUint parses an optional numeric query parameter.
func optionalUint(c *gin.Context, key string) (*uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperr.InvalidInput("invalid %s %q", key, raw)
	}
	u := uint(v)
	return &u, nil
}

func optionalInt(c *gin.Context, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.InvalidInput("invalid %s %q", key, raw)
	}
	return &v, nil
}
