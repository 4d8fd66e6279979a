package controllers

import (
	"adforge/internal/orchestrator"
	"adforge/internal/services"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	store        services.SessionStoreInterface
	orchestrator orchestrator.OrchestratorInterface
	startTime    time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Sessions      int     `json:"sessions"`
	Revision      uint64  `json:"revision"`
	RunningTasks  int     `json:"running_tasks"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	running := 0
	for _, t := range hc.orchestrator.Tasks() {
		if t.State == orchestrator.TaskRunning {
			running++
		}
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Sessions:      hc.store.Len(),
		Revision:      hc.store.Revision(),
		RunningTasks:  running,
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(store services.SessionStoreInterface, orch orchestrator.OrchestratorInterface) *HealthController {
	return &HealthController{
		store:        store,
		orchestrator: orch,
		startTime:    time.Now(),
	}
}
