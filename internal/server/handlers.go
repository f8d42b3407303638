package server

import (
	"encoding/json"
	"net/http"

	"github.com/haskel/goblin/internal/setting"
)

type infoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type readyResponse struct {
	Ready     bool `json:"ready"`
	Scheduled bool `json:"scheduled"`
}

type statusResponse struct {
	Anomaly    anomalyDTO `json:"anomaly"`
	CPUPercent float64    `json:"cpu_percent"`
	MemPercent float64    `json:"mem_percent"`
	TickCount  int64      `json:"tick_count"`
}

type anomalyDTO struct {
	Latest float64 `json:"latest"`
	Recent float64 `json:"recent"`
}

type estimateDTO struct {
	FullCount    float64 `json:"full_count"`
	FullMean     float64 `json:"full_mean"`
	FullStdDev   float64 `json:"full_stddev"`
	RecentMean   float64 `json:"recent_mean"`
	RecentStdDev float64 `json:"recent_stddev"`
}

type taskDTO struct {
	DataCount     int           `json:"data_count"`
	FullyExplored bool          `json:"fully_explored"`
	Options       []estimateDTO `json:"options"`
}

type settingDTO struct {
	ID            string    `json:"id"`
	Options       []float64 `json:"option_values"`
	ChoiceDefault int       `json:"choice_default"`
	Choice        *int      `json:"choice,omitempty"`
}

func (s *Server[B, C]) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, http.StatusOK, infoResponse{Name: "goblin", Version: s.version})
}

func (s *Server[B, C]) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server[B, C]) handleReady(w http.ResponseWriter, r *http.Request) {
	scheduled := s.tickScheduler != nil && s.tickScheduler.IsRunning()
	s.writeJSON(w, http.StatusOK, readyResponse{Ready: true, Scheduled: scheduled})
}

func (s *Server[B, C]) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Anomaly: anomalyDTO{Latest: s.ctrl.Anomaly.Latest, Recent: s.ctrl.Anomaly.Recent},
	}
	if s.sampler != nil {
		load := s.sampler.State()
		resp.CPUPercent = load.CPUPercent
		resp.MemPercent = load.MemPercent
	}
	if s.tickScheduler != nil {
		resp.TickCount = s.tickScheduler.Stats().TickCount
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server[B, C]) handleProfile(w http.ResponseWriter, r *http.Request) {
	tasks := s.ctrl.Profile().Tasks()
	out := make(map[string]taskDTO, len(tasks))
	for id, task := range tasks {
		dto := taskDTO{
			DataCount:     task.DataCount,
			FullyExplored: task.FullyExplored,
			Options:       make([]estimateDTO, len(task.Estimates)),
		}
		for i, est := range task.Estimates {
			dto.Options[i] = estimateDTO{
				FullCount:    est.Full.Count(),
				FullMean:     est.Full.Mean(),
				FullStdDev:   est.Full.Deviation(),
				RecentMean:   est.Recent.Mean(),
				RecentStdDev: est.Recent.Deviation(),
			}
		}
		out[id] = dto
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server[B, C]) handleSettings(w http.ResponseWriter, r *http.Request) {
	settings := s.ctrl.Settings()
	out := make([]settingDTO, len(settings))
	for i, st := range settings {
		opts := st.Options()
		values := make([]float64, len(opts))
		for j, opt := range opts {
			values[j] = opt.Value
		}
		dto := settingDTO{
			ID:            st.ID(),
			Options:       values,
			ChoiceDefault: st.ChoiceDefault(),
		}
		if reader, ok := st.(setting.ChoiceReader); ok {
			choice := reader.Choice()
			dto.Choice = &choice
		}
		out[i] = dto
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server[B, C]) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err, "status", status)
	}
}
