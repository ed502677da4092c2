package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-university-etl/internal/model"
	"go-university-etl/internal/pipeline"
	"go-university-etl/internal/scheduler"
	"go-university-etl/internal/store"
)

// Handler wires the ETL engine to the HTTP control surface. Every
// method is a thin pass-through; the engine owns all the invariants.
type Handler struct {
	Scheduler *scheduler.Scheduler
	Loader    *pipeline.Loader
	Store     *store.Store
}

func New(s *scheduler.Scheduler, l *pipeline.Loader, st *store.Store) *Handler {
	return &Handler{Scheduler: s, Loader: l, Store: st}
}

// TriggerETL starts a manual pipeline run
// @Summary Trigger a pipeline run
// @Description Run the full extract-transform-load cycle once. Fails with 409 while another run is in flight.
// @Tags etl
// @Produce json
// @Success 200 {object} model.RunOutcome "Run outcome, success or failure"
// @Failure 409 {object} map[string]interface{} "A run is already in progress"
// @Router /etl/trigger [post]
func (h *Handler) TriggerETL(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.Scheduler.TriggerManual(r.Context())
	if err != nil {
		if errors.Is(err, model.ErrPipelineRunning) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Failed runs come back as data so callers can inspect duration
	// and message.
	writeJSON(w, http.StatusOK, outcome)
}

// ETLStatus reports whether data exists and how fresh it is
// @Summary Engine status
// @Tags etl
// @Produce json
// @Success 200 {object} map[string]interface{} "Data presence, record count, last update"
// @Router /etl/status [get]
func (h *Handler) ETLStatus(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Loader.Read()
	if err != nil {
		if errors.Is(err, model.ErrNoSnapshot) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"dataExists":  false,
				"recordCount": 0,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dataExists":  true,
		"recordCount": snapshot.RecordCount,
		"lastUpdated": snapshot.SavedAt,
	})
}

// StartScheduler arms the timed trigger
// @Summary Start the scheduler
// @Tags scheduler
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /scheduler/start [post]
func (h *Handler) StartScheduler(w http.ResponseWriter, r *http.Request) {
	if err := h.Scheduler.Start(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "scheduler started"})
}

// StopScheduler disarms the timed trigger
// @Summary Stop the scheduler
// @Description Deregisters the timed trigger. A run already in flight is not interrupted.
// @Tags scheduler
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /scheduler/stop [post]
func (h *Handler) StopScheduler(w http.ResponseWriter, r *http.Request) {
	h.Scheduler.Stop()
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "scheduler stopped"})
}

// SchedulerStatus reports the scheduler state
// @Summary Scheduler status
// @Tags scheduler
// @Produce json
// @Success 200 {object} model.SchedulerStatus
// @Router /scheduler/status [get]
func (h *Handler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Scheduler.Status())
}

// ListUniversities lists records from the current snapshot
// @Summary List universities
// @Tags universities
// @Produce json
// @Param search query string false "Case-insensitive substring match on name or country"
// @Param limit query int false "Maximum records returned" default(100)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "No snapshot yet"
// @Router /universities [get]
func (h *Handler) ListUniversities(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.readSnapshot(w)
	if !ok {
		return
	}

	search := strings.ToLower(r.URL.Query().Get("search"))
	limit := queryInt(r, "limit", 100)

	results := make([]model.University, 0, limit)
	for _, u := range snapshot.Batch.Records {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Country), search) {
			continue
		}
		results = append(results, u)
		if len(results) >= limit {
			break
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":        snapshot.RecordCount,
		"count":        len(results),
		"universities": results,
	})
}

// DownloadCSV serves the tabular rendering of the current snapshot
// @Summary Download CSV
// @Tags universities
// @Produce text/csv
// @Success 200 {string} string "CSV file"
// @Failure 404 {object} map[string]interface{} "No snapshot yet"
// @Router /universities/download/csv [get]
func (h *Handler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.readSnapshot(w)
	if !ok {
		return
	}

	data, err := pipeline.RenderCSV(snapshot.Batch.Records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", attachment("csv"))
	w.Write(data)
}

// DownloadJSON serves the structured rendering of the current snapshot
// @Summary Download JSON
// @Tags universities
// @Produce json
// @Success 200 {object} model.Snapshot
// @Failure 404 {object} map[string]interface{} "No snapshot yet"
// @Router /universities/download/json [get]
func (h *Handler) DownloadJSON(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.readSnapshot(w)
	if !ok {
		return
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", attachment("json"))
	w.Write(data)
}

// ListRuns lists the persisted run history
// @Summary List past runs
// @Tags runs
// @Produce json
// @Param limit query int false "Maximum runs returned" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	runs, err := h.Store.ListRuns(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(runs),
		"runs":  runs,
	})
}

// readSnapshot loads the live snapshot, writing the appropriate error
// response itself when there is nothing to serve.
func (h *Handler) readSnapshot(w http.ResponseWriter) (*model.Snapshot, bool) {
	snapshot, err := h.Loader.Read()
	if err != nil {
		if errors.Is(err, model.ErrNoSnapshot) {
			writeError(w, http.StatusNotFound, "no data available yet, trigger a run first")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return snapshot, true
}

func attachment(ext string) string {
	filename := fmt.Sprintf("universities_%s.%s", time.Now().Format("2006-01-02"), ext)
	return fmt.Sprintf("attachment; filename=%q", filename)
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"error": message})
}
