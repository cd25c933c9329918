package server

import (
	_ "embed"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultPriceLimit = 50

//go:embed static/dashboard.html
var dashboardHTML []byte

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *RelayServer) getHealth(c *gin.Context) {
	body := gin.H{
		"status":         "ok",
		"connections":    s.ActiveConnections(),
		"subscribers":    s.Registry.Count(),
		"pool_remaining": s.Pool.Remaining(),
	}
	if s.Config.Version != "" {
		body["version"] = s.Config.Version
	}
	c.JSON(http.StatusOK, body)
}

// -----------------------------------------------------------------------------

func (s *RelayServer) getPool(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"available": s.Pool.Available(),
		"remaining": s.Pool.Remaining(),
	})
}

// -----------------------------------------------------------------------------

func (s *RelayServer) getPrices(c *gin.Context) {
	if s.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price history disabled"})
		return
	}

	limit := defaultPriceLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if ceiling := s.Config.Storage.HistorySize; ceiling > 0 && limit > ceiling {
		limit = ceiling
	}

	symbol := c.Param("symbol")
	ticks, err := s.Store.RecentPrices(symbol, limit)
	if err != nil {
		s.Logger.Error("Failed to load prices for %s: %v", symbol, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load prices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol": symbol,
		"prices": ticks,
	})
}

// -----------------------------------------------------------------------------

func (s *RelayServer) getMetrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// -----------------------------------------------------------------------------

// getDashboard serves static_dir/index.html when configured, else the built-in page.
func (s *RelayServer) getDashboard(c *gin.Context) {
	if dir := s.Config.Hub.StaticDir; dir != "" {
		file := filepath.Join(dir, "index.html")
		if _, err := os.Stat(file); err == nil {
			c.File(file)
			return
		}
		s.Logger.Warning("Static dashboard %s not found, serving built-in page", file)
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", dashboardHTML)
}
