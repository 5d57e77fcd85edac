package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devlog/portfolio-backend/internal/config"
)

const upstreamProbeTimeout = 3 * time.Second

type HealthHandler struct {
	upstreams []config.Upstream
	client    *http.Client
}

func NewHealthHandler(upstreams []config.Upstream) *HealthHandler {
	return &HealthHandler{
		upstreams: upstreams,
		client:    &http.Client{Timeout: upstreamProbeTimeout},
	}
}

type upstreamStatus struct {
	Name      string `json:"name"`
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

func (h *HealthHandler) probe(ctx context.Context, up config.Upstream) upstreamStatus {
	status := upstreamStatus{Name: up.Name}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, up.URL, nil)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	status.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer resp.Body.Close()

	status.Healthy = resp.StatusCode < 500
	if !status.Healthy {
		status.Error = resp.Status
	}
	return status
}

// ServicesHealth godoc
// @Summary      Upstream service health
// @Description  Probes each configured upstream and reports reachability
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /services/health [get]
func (h *HealthHandler) ServicesHealth(c *gin.Context) {
	ctx := c.Request.Context()

	results := make([]upstreamStatus, len(h.upstreams))
	allHealthy := true
	for i, up := range h.upstreams {
		results[i] = h.probe(ctx, up)
		if !results[i].Healthy {
			allHealthy = false
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"healthy":  allHealthy,
		"services": results,
		"time":     time.Now().Unix(),
	})
}
