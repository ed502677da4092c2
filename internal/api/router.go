package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-university-etl/docs"
	"go-university-etl/internal/api/handler"
	"go-university-etl/pkg/router"
)

// RegisterRoutes mounts the control surface on the router.
func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.POST("/api/v1/etl/trigger", h.TriggerETL)
	r.GET("/api/v1/etl/status", h.ETLStatus)

	r.POST("/api/v1/scheduler/start", h.StartScheduler)
	r.POST("/api/v1/scheduler/stop", h.StopScheduler)
	r.GET("/api/v1/scheduler/status", h.SchedulerStatus)

	r.GET("/api/v1/universities", h.ListUniversities)
	r.GET("/api/v1/universities/download/csv", h.DownloadCSV)
	r.GET("/api/v1/universities/download/json", h.DownloadJSON)

	r.GET("/api/v1/runs", h.ListRuns)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.Handler()))
}
