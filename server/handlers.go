package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"price-dashboard/chart"
	"price-dashboard/models"
	"price-dashboard/pricing"
	"price-dashboard/services"
	"price-dashboard/utils"
)

// HealthCheck answers liveness probes with a plain "ok".
func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// DashboardHandler serves the dashboard page, its charts and JSON API.
type DashboardHandler struct {
	logger    *utils.Logger
	source    *services.DataSource
	panel     *services.Panel
	dashboard *services.Dashboard
	charts    *chart.Renderer
	rules     *pricing.Registry
}

func NewDashboardHandler(logger *utils.Logger, source *services.DataSource, panel *services.Panel,
	dashboard *services.Dashboard, charts *chart.Renderer, rules *pricing.Registry) *DashboardHandler {
	return &DashboardHandler{
		logger:    logger,
		source:    source,
		panel:     panel,
		dashboard: dashboard,
		charts:    charts,
		rules:     rules,
	}
}

func (h *DashboardHandler) scenario(c *gin.Context) models.Scenario {
	return h.panel.Parse(c.Query("location"), c.Query("users"), c.Query("posts"))
}

// render runs one full pass: load data, filter, price, build the view.
func (h *DashboardHandler) render(c *gin.Context) ([]*models.Observation, *models.DashboardView, bool) {
	obs, err := h.source.Observations(c.Request.Context())
	if err != nil {
		h.logger.Error("[http] Dataset unavailable: %v", err)
		RespondError(c, http.StatusInternalServerError, "dataset_unavailable", err)
		return nil, nil, false
	}
	return obs, h.dashboard.Build(obs, h.scenario(c)), true
}

type indexPage struct {
	Title    string
	Rule     *pricing.Rule
	View     *models.DashboardView
	Users    services.Control
	Posts    services.Control
	PricePNG template.URL
	UsersPNG template.URL
}

// Index renders the full page server-side; every control change resubmits
// the form and reruns the whole pipeline.
func (h *DashboardHandler) Index(c *gin.Context) {
	obs, view, ok := h.render(c)
	if !ok {
		return
	}

	pricePNG, err := h.pngDataURL(chart.PriceChart(view))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "chart_failed", err)
		return
	}
	usersPNG, err := h.pngDataURL(chart.ActiveUsersChart(obs))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "chart_failed", err)
		return
	}

	c.HTML(http.StatusOK, "index.html", indexPage{
		Title:    "Prescriptive Pricing Dashboard",
		Rule:     h.dashboard.Rule(),
		View:     view,
		Users:    h.panel.Users,
		Posts:    h.panel.Posts,
		PricePNG: pricePNG,
		UsersPNG: usersPNG,
	})
}

func (h *DashboardHandler) pngDataURL(ch chart.Chart) (template.URL, error) {
	var buf bytes.Buffer
	if err := h.charts.Render(&buf, ch); err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

type controlsResponse struct {
	Locations []string         `json:"locations"`
	Users     services.Control `json:"active_users"`
	Posts     services.Control `json:"number_of_posts"`
	Default   models.Scenario  `json:"default"`
}

func (h *DashboardHandler) Controls(c *gin.Context) {
	RespondOK(c, controlsResponse{
		Locations: h.panel.Locations(),
		Users:     h.panel.Users,
		Posts:     h.panel.Posts,
		Default:   h.panel.DefaultScenario(),
	})
}

type rulesResponse struct {
	Active string          `json:"active"`
	Rules  []*pricing.Rule `json:"rules"`
}

func (h *DashboardHandler) Rules(c *gin.Context) {
	RespondOK(c, rulesResponse{Active: h.dashboard.Rule().Name, Rules: h.rules.Rules()})
}

// Prescription prices the live control values without touching the dataset.
func (h *DashboardHandler) Prescription(c *gin.Context) {
	s := h.scenario(c)
	RespondOK(c, h.dashboard.Prescribe(s.ActiveUsers, s.NumberOfPosts))
}

func (h *DashboardHandler) View(c *gin.Context) {
	_, view, ok := h.render(c)
	if !ok {
		return
	}
	RespondOK(c, view)
}

func (h *DashboardHandler) PriceChart(c *gin.Context) {
	_, view, ok := h.render(c)
	if !ok {
		return
	}
	h.writePNG(c, chart.PriceChart(view))
}

func (h *DashboardHandler) UsersChart(c *gin.Context) {
	obs, err := h.source.Observations(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "dataset_unavailable", err)
		return
	}
	h.writePNG(c, chart.ActiveUsersChart(obs))
}

func (h *DashboardHandler) writePNG(c *gin.Context, ch chart.Chart) {
	var buf bytes.Buffer
	if err := h.charts.Render(&buf, ch); err != nil {
		RespondError(c, http.StatusInternalServerError, "chart_failed", fmt.Errorf("render %q: %w", ch.Title, err))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
