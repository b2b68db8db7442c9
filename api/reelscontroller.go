package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reelsmith/pipeline"
	"reelsmith/types"
)

// ReelCreator is the slice of the pipeline the API needs.
type ReelCreator interface {
	CreateReel(ctx context.Context, script types.Script) (types.RenderResult, error)
}

// CreatorFactory builds one creator per run with that run's progress sink
// attached.
type CreatorFactory func(progress pipeline.Progress) ReelCreator

// RegisterReelRoutes registers composition endpoints. Runs execute
// asynchronously; submission returns 202 with a run ID to poll.
func RegisterReelRoutes(r *gin.Engine, factory CreatorFactory, runs *Tracker) {
	g := r.Group("/api/reels")
	g.POST("", handleCreateReel(factory, runs))
	g.GET("", handleListRuns(runs))
	g.GET("/:id", handleGetRun(runs))
}

func handleCreateReel(factory CreatorFactory, runs *Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var script types.Script
		if err := c.ShouldBindJSON(&script); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid script payload: " + err.Error()})
			return
		}
		if len(script.Slides) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "script has no slides"})
			return
		}

		runID := uuid.NewString()
		runs.Create(runID, script.Title)

		creator := factory(func(frac float64, msg string) {
			runs.SetProgress(runID, frac, msg)
		})

		go func() {
			result, err := creator.CreateReel(context.Background(), script)
			if err != nil {
				log.Printf("[api] run %s failed: %v", runID, err)
				runs.Fail(runID, err)
				return
			}
			runs.Finish(runID, result)
		}()

		c.JSON(http.StatusAccepted, gin.H{"run_id": runID, "status": RunQueued})
	}
}

func handleGetRun(runs *Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, ok := runs.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown run"})
			return
		}
		c.JSON(http.StatusOK, run)
	}
}

func handleListRuns(runs *Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"runs": runs.List()})
	}
}
