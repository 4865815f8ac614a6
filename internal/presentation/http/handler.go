package httppresentation

import (
	"net/http"

	"github.com/Zhima-Mochi/storefront/internal/application"
	appauth "github.com/Zhima-Mochi/storefront/internal/application/auth"
	appcatalog "github.com/Zhima-Mochi/storefront/internal/application/catalog"
	appchat "github.com/Zhima-Mochi/storefront/internal/application/chat"
	apporder "github.com/Zhima-Mochi/storefront/internal/application/order"
	appreview "github.com/Zhima-Mochi/storefront/internal/application/review"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	componentHTTPHandler = "http_server"
	headerRequestID      = "X-Request-ID"
)

// Services are the application entry points served over HTTP.
type Services struct {
	Auth       *appauth.Service
	Catalog    *appcatalog.Service
	Orders     *apporder.Service
	PlaceOrder application.UseCase[apporder.PlaceOrderInput, *apporder.PlaceOrderResult]
	Reviews    *appreview.Service
	Chat       *appchat.Service
}

type Handler struct {
	svc     Services
	service string
	metrics http.Handler
	log     observability.Logger
	tel     observability.Observability

	reqCounter   observability.Counter   // http_requests_total{method,route,status}
	durHistogram observability.Histogram // http_request_duration_seconds{method,route,status}
}

// NewHandler builds the API handler. metrics, when non-nil, is served on GET /metrics.
func NewHandler(svc Services, service string, metrics http.Handler, tel observability.Observability) *Handler {
	m := observability.MetricsOf(tel)
	return &Handler{
		svc:          svc,
		service:      service,
		metrics:      metrics,
		log:          observability.LoggerOf(tel).With(observability.F("component", componentHTTPHandler)),
		tel:          tel,
		reqCounter:   m.Counter(observability.MHTTPRequests),
		durHistogram: m.Histogram(observability.MHTTPRequestDuration),
	}
}

// Router wires every route behind: Trace → Request Logger → Metrics → Access Log → Recovery → Handler.
func (h *Handler) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		otelgin.Middleware(h.service),
		h.withRequestLogger(),
		h.withHTTPMetrics(),
		h.withAccessLog(),
		gin.CustomRecovery(h.recovered),
	)
	r.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "route not found", apperr.KindNotFound)
	})

	r.GET("/health", h.handleHealth)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}

	r.POST("/register", h.handleRegister)
	r.POST("/login", h.handleLogin)
	r.GET("/categories", h.handleListCategories)
	r.GET("/products", h.handleListProducts)
	r.GET("/products/:id", h.handleGetProduct)

	authed := r.Group("/", h.requireIdentity())
	authed.POST("/categories", h.handleCreateCategory)
	authed.PUT("/categories/:id", h.handleUpdateCategory)
	authed.DELETE("/categories/:id", h.handleDeleteCategory)

	authed.POST("/products", h.handleCreateProduct)
	authed.PUT("/products/:id", h.handleUpdateProduct)
	authed.DELETE("/products/:id", h.handleDeleteProduct)
	authed.POST("/products/:id/reviews", h.handleSubmitReview)

	authed.POST("/orders", h.handlePlaceOrder)
	authed.GET("/orders/history", h.handleOrderHistory)
	authed.PUT("/orders/:id/status", h.handleUpdateOrderStatus)

	authed.GET("/chat/messages", h.handleListMessages)
	authed.POST("/chat/messages", h.handleSendMessage)

	authed.PUT("/users/profile", h.handleUpdateProfile)
	authed.DELETE("/users/:id", h.handleDeleteAccount)

	return r
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handler) recovered(c *gin.Context, rec any) {
	requestLogger(c, h.log).Error("http_panic_recovered", observability.F("panic", rec))
	writeError(c, http.StatusInternalServerError, "internal error", apperr.KindInternal)
}
