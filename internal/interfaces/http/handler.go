package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrbaker/internal/interfaces"
	"qrbaker/internal/usecases"
)

type Handler struct {
	lifecycle *usecases.RecordLifecycleManager
	registry  *usecases.DynamicLinkRegistry
	quota     *usecases.QuotaGuard
	profiles  interfaces.ProfileRepository
}

func NewHandler(lifecycle *usecases.RecordLifecycleManager, registry *usecases.DynamicLinkRegistry, quota *usecases.QuotaGuard, profiles interfaces.ProfileRepository) *Handler {
	return &Handler{
		lifecycle: lifecycle,
		registry:  registry,
		quota:     quota,
		profiles:  profiles,
	}
}

func SetupRoutes(r *gin.Engine, lifecycle *usecases.RecordLifecycleManager, registry *usecases.DynamicLinkRegistry, quota *usecases.QuotaGuard, auth *usecases.AuthUsecase, profiles interfaces.ProfileRepository, middleware *Middleware) {
	h := NewHandler(lifecycle, registry, quota, profiles)

	// Apply Security Middleware
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(10 << 20)) // 10MB max request size
	r.Use(middleware.CORSMiddleware())

	// Public redirect resolution: the printed QR codes point here
	r.GET("/r", h.ResolveRedirect)

	// Public Auth Routes
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", func(c *gin.Context) {
			var loginReq struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&loginReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			token, err := auth.Login(c.Request.Context(), loginReq.Email, loginReq.Password)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token})
		})

		authGroup.POST("/register", func(c *gin.Context) {
			var regReq struct {
				Email       string `json:"email"`
				Password    string `json:"password"`
				DisplayName string `json:"display_name"`
			}
			if err := c.ShouldBindJSON(&regReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			// Validate inputs
			if !ValidEmail(regReq.Email) || len(regReq.Password) < MinPasswordLen {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password (min 6 chars)"})
				return
			}
			regReq.DisplayName = SanitizeString(regReq.DisplayName)
			profile, err := auth.Register(c.Request.Context(), regReq.Email, regReq.Password, regReq.DisplayName)
			if err != nil {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"status": "registered", "profile": profile})
		})
	}

	// Protected Routes
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	api.Use(middleware.RateLimitPerUser(5, 10))
	{
		// QR Code Routes
		api.GET("/qrcodes", h.ListQRCodes)
		api.POST("/qrcodes", h.CreateQRCode)
		api.DELETE("/qrcodes/:id", h.DeleteQRCode)

		// Dynamic Redirect Routes
		api.PUT("/redirects/:code", h.UpdateRedirect)

		// Profile & Dashboard Routes
		api.GET("/profile", h.GetProfile)
		api.PUT("/profile/plan", h.UpdatePlan)
		api.GET("/dashboard/stats", h.GetUserStats)
	}
}
