package server

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"price-dashboard/utils"
)

// RouterConfig carries the dependencies the router wires into handlers.
type RouterConfig struct {
	Logger    *utils.Logger
	Dashboard *DashboardHandler
}

// NewRouter builds the gin engine with middleware, templates and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Logger))
	r.Use(CORS())

	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.GET("/healthcheck", HealthCheck)

	if h := cfg.Dashboard; h != nil {
		r.GET("/", h.Index)

		chart := r.Group("/chart")
		{
			chart.GET("/price.png", h.PriceChart)
			chart.GET("/users.png", h.UsersChart)
		}

		api := r.Group("/api")
		{
			api.GET("/controls", h.Controls)
			api.GET("/rules", h.Rules)
			api.GET("/prescription", h.Prescription)
			api.GET("/dashboard", h.View)
		}
	}

	return r
}
