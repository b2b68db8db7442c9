package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reelsmith/config"
	"reelsmith/pipeline"
)

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(opts config.Options) *gin.Engine {
	return newRouterWith(PipelineFactory(opts), NewTracker())
}

func newRouterWith(factory CreatorFactory, runs *Tracker) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterReelRoutes(r, factory, runs)
	RegisterHealthRoutes(r)
	return r
}

// PipelineFactory builds a fresh pipeline per run so sourcing state never
// leaks between runs.
func PipelineFactory(opts config.Options) CreatorFactory {
	return func(progress pipeline.Progress) ReelCreator {
		p := pipeline.New(opts)
		p.Progress = progress
		return p
	}
}

// RegisterHealthRoutes registers the liveness endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}
