package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stratus-io/stratus/internal/buildinfo"
	"github.com/stratus-io/stratus/internal/models"
	"github.com/stratus-io/stratus/internal/orchestrator"
)

// busyDetail is the conflict body for a batch requested mid-batch.
const busyDetail = "Orchestrator is already running. Please wait for current execution to complete."

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /retrieve-status", s.handleRetrieveStatus)
	mux.HandleFunc("GET /agent-status", s.handleAllAgentStatus)
	mux.HandleFunc("GET /agent-status/{agent}", s.handleAgentStatus)
	mux.HandleFunc("GET /agent-logs/{agent}", s.handleAgentLogs)
	mux.HandleFunc("GET /execution-history", s.handleExecutionHistory)
	mux.HandleFunc("GET /agents", s.handleListAgents)
	mux.HandleFunc("POST /agents/{agent}/execute", s.handleExecuteAgent)
	mux.HandleFunc("/", s.handleNotFound)
	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":      "stratus",
		"version":   buildinfo.Version,
		"status":    "operational",
		"timestamp": time.Now().Format(time.RFC3339),
		"endpoints": map[string]string{
			"retrieve_status":   "/retrieve-status",
			"agent_status":      "/agent-status",
			"agent_logs":        "/agent-logs/{agent_name}",
			"execution_history": "/execution-history",
			"health":            "/health",
		},
		"agents": s.agentNames(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var current any
	if id := s.orch.ExecutionID(); id != "" {
		current = id
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"orchestrator": map[string]any{
			"is_running":        s.orch.Executing(),
			"agents_count":      s.orch.Registry().Len(),
			"current_execution": current,
		},
	})
}

func (s *Server) handleRetrieveStatus(w http.ResponseWriter, r *http.Request) {
	log.Printf("[server] Starting orchestrator execution via API")
	report, err := s.orch.RunAll(r.Context())
	if err != nil {
		if errors.Is(err, orchestrator.ErrBusy) {
			writeError(w, http.StatusConflict, busyDetail)
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Execution failed: %s", err))
		return
	}
	log.Printf("[server] Execution completed: %s (%s, %.2fs)",
		report.ExecutionID, report.OverallStatus, report.TotalDuration)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAllAgentStatus(w http.ResponseWriter, r *http.Request) {
	statuses := s.orch.Statuses()
	if len(statuses) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "No agent statuses available. Run /retrieve-status first.",
			"agents":  s.agentNames(),
		})
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleAgentStatus(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("agent")
	if _, ok := s.orch.Registry().Get(name); !ok {
		writeError(w, http.StatusNotFound, s.unknownAgentDetail(name))
		return
	}
	st, ok := s.orch.Status(name)
	if !ok {
		writeError(w, http.StatusNotFound,
			fmt.Sprintf("No status available for agent '%s'. Run /retrieve-status first.", name))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleAgentLogs(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("agent")
	if _, ok := s.orch.Registry().Get(name); !ok {
		writeError(w, http.StatusNotFound, s.unknownAgentDetail(name))
		return
	}
	st, ok := s.orch.Status(name)
	if !ok {
		writeJSON(w, http.StatusOK, models.IdleLogs(name))
		return
	}
	writeJSON(w, http.StatusOK, models.LogsFromStatus(st))
}

func (s *Server) handleExecutionHistory(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid limit: %q", v))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, s.orch.History(limit))
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	descs := s.orch.Agents()
	infos := make([]models.AgentInfo, 0, len(descs))
	for _, d := range descs {
		info := models.AgentInfo{
			Name:        d.Name,
			Type:        d.Kind,
			Status:      models.StateIdle,
			Description: d.Description,
		}
		if st, ok := s.orch.Status(d.Name); ok {
			info.Status = st.State
			info.LastExecution = st.EndTime
		}
		infos = append(infos, info)
	}
	writeJSON(w, http.StatusOK, models.AgentList{Agents: infos, Total: len(infos)})
}

func (s *Server) handleExecuteAgent(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("agent")
	log.Printf("[server] Executing single agent: %s", name)
	st, err := s.orch.RunOne(r.Context(), name)
	if err != nil {
		if errors.Is(err, orchestrator.ErrUnknownAgent) {
			writeError(w, http.StatusNotFound, s.unknownAgentDetail(name))
			return
		}
		if errors.Is(err, orchestrator.ErrBusy) {
			writeError(w, http.StatusConflict, busyDetail)
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Execution failed: %s", err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"detail": "Endpoint not found",
		"path":   r.URL.String(),
	})
}

func (s *Server) agentNames() []string {
	descs := s.orch.Agents()
	names := make([]string, 0, len(descs))
	for _, d := range descs {
		names = append(names, d.Name)
	}
	return names
}

func (s *Server) unknownAgentDetail(name string) string {
	return fmt.Sprintf("Agent '%s' not found. Available agents: [%s]",
		name, strings.Join(s.agentNames(), ", "))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[server] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
