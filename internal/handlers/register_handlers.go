package handlers

import (
	"net/http"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	portssvc "github.com/SalonKit/salon_pos_app/internal/core/ports/services"
	"github.com/SalonKit/salon_pos_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	dbPool *pgxpool.Pool,
) {
	registerCustomValidations()

	// Add health check route
	r.GET("/health", healthCheck(cfg, dbPool))

	// Setup API v1 routes, passing service interfaces
	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	service *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerVisitRoutes(v1, service.Visit)
	registerPaymentRoutes(v1, service.Payment)
	registerCustomerRoutes(v1, service.Visit, service.Ledger)
}

// registerCustomValidations wires domain validations into gin's binding engine.
func registerCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
			return domain.PaymentMethod(fl.Field().String()).Valid()
		})
	}
}

// healthCheck reports liveness; with ENABLE_DB_CHECK it also pings the database.
func healthCheck(cfg *config.Config, dbPool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.EnableDBCheck && dbPool != nil {
			if err := dbPool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
