package rest

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exceedrpg/exceedsheet/server/cache"
	"github.com/exceedrpg/exceedsheet/server/config"
)

// ruleNameRe keeps rule lookups inside the rules directory.
var ruleNameRe = regexp.MustCompile(`^[a-z0-9_-]+$`)

// RulesHandler serves rulebook markdown from the configured directory,
// cached so repeated page views never hit the disk.
type RulesHandler struct {
	cache cache.Cache
	cfg   config.RulesConfig
}

// NewRulesHandler creates a new RulesHandler.
func NewRulesHandler(c cache.Cache, cfg config.RulesConfig) *RulesHandler {
	return &RulesHandler{cache: c, cfg: cfg}
}

// Get handles GET /api/rules/:name.
func (h *RulesHandler) Get(c *gin.Context) {
	name := c.Param("name")
	if !ruleNameRe.MatchString(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule name"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	cacheKey := "rules:" + name

	if text, err := h.cache.Get(ctx, cacheKey); err == nil {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(text))
		return
	}

	raw, err := os.ReadFile(filepath.Join(h.cfg.Dir, name+".md"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
		return
	}
	_ = h.cache.Set(ctx, cacheKey, string(raw), h.cfg.CacheTTL)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", raw)
}

// List handles GET /api/rules. Lists the available rule page names.
func (h *RulesHandler) List(c *gin.Context) {
	entries, err := os.ReadDir(h.cfg.Dir)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"rules": []string{}})
		return
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		names = append(names, e.Name()[:len(e.Name())-3])
	}
	c.JSON(http.StatusOK, gin.H{"rules": names})
}
