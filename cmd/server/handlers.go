package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strings"

	"metal-ratio-lab/internal/config"
	"metal-ratio-lab/internal/datecode"
	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/ingestion"
	"metal-ratio-lab/internal/pipeline"
	"metal-ratio-lab/internal/simulation"
	"metal-ratio-lab/internal/storage"
)

// server wires the stores, runners, and websocket hub behind the HTTP
// API.
type server struct {
	cfg          *config.Config
	seriesStore  storage.SeriesStore
	runStore     storage.SimulationRunStore
	trajStore    storage.TrajectoryStore
	ingestRunner *ingestion.Runner
	simRunner    *simulation.Runner
	hub          *hub
	logger       *log.Logger
}

// refresh re-ingests the series and notifies websocket subscribers.
// Failures are logged, the previously stored series stays current.
func (s *server) refresh(ctx context.Context) {
	series, err := s.ingestRunner.Run(ctx)
	if err != nil {
		s.logger.Printf("refresh failed: %v", err)
		return
	}
	s.hub.broadcast("series_refreshed", len(series), datecode.ToKey(series.Last().Date))
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, err := s.seriesStore.GetAll(r.Context()); err != nil {
		http.Error(w, "series store unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type seriesPoint struct {
	Date   string  `json:"date"`
	Gold   float64 `json:"gold"`
	Silver float64 `json:"silver"`
	GSR    float64 `json:"gsr"`
}

func (s *server) handleSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		recs []*domain.PriceRecord
		err  error
	)
	startKey := r.URL.Query().Get("start")
	endKey := r.URL.Query().Get("end")
	if startKey != "" || endKey != "" {
		if startKey == "" {
			startKey = "0000-00-00"
		}
		if endKey == "" {
			endKey = "9999-99-99"
		}
		recs, err = s.seriesStore.GetByKeyRange(r.Context(), startKey, endKey)
	} else {
		recs, err = s.seriesStore.GetAll(r.Context())
	}
	if err != nil {
		s.logger.Printf("load series: %v", err)
		http.Error(w, "failed to load series", http.StatusInternalServerError)
		return
	}

	points := make([]seriesPoint, 0, len(recs))
	for _, rec := range recs {
		points = append(points, seriesPoint{
			Date:   datecode.ToKey(rec.Date),
			Gold:   rec.Gold,
			Silver: rec.Silver,
			GSR:    rec.GSR,
		})
	}
	writeJSON(w, http.StatusOK, points)
}

// exploreRequest is the wire form of one exploration. Threshold fields
// are pointers: absent means disabled, since JSON cannot carry NaN.
type exploreRequest struct {
	Start         string   `json:"start"`
	End           string   `json:"end"`
	Amount        float64  `json:"amount"`
	GoldToSilver  *float64 `json:"gold_to_silver"`
	SilverToGold  *float64 `json:"silver_to_gold"`
	StartMetal    string   `json:"start_metal"`
	SwitchCostPct float64  `json:"switch_cost_pct"`

	ShowGold     *bool `json:"show_gold"`
	ShowSilver   *bool `json:"show_silver"`
	ShowStrategy *bool `json:"show_strategy"`
	ShowRatio    *bool `json:"show_ratio"`

	Persist bool `json:"persist"`
}

type exploreResponse struct {
	Start     string              `json:"start"`
	End       string              `json:"end"`
	RunID     string              `json:"run_id,omitempty"`
	Summary   *summaryPayload     `json:"summary"`
	Records   []trajectoryPayload `json:"records"`
	ValueAxis axisPayload         `json:"value_axis"`
	RatioAxis axisPayload         `json:"ratio_axis"`
}

type summaryPayload struct {
	Duration          string  `json:"duration"`
	EndGoldValue      float64 `json:"end_gold_value"`
	EndSilverValue    float64 `json:"end_silver_value"`
	EndStrategyValue  float64 `json:"end_strategy_value"`
	GoldReturnPct     float64 `json:"gold_return_pct"`
	SilverReturnPct   float64 `json:"silver_return_pct"`
	StrategyReturnPct float64 `json:"strategy_return_pct"`
	VsGoldPct         float64 `json:"vs_gold_pct"`
	VsSilverPct       float64 `json:"vs_silver_pct"`
	BeatsGoldPct      float64 `json:"beats_gold_pct"`
	BeatsSilverPct    float64 `json:"beats_silver_pct"`
	SwitchCount       int     `json:"switch_count"`
	FinalMetal        string  `json:"final_metal"`
}

type trajectoryPayload struct {
	Date          string  `json:"date"`
	Gold          float64 `json:"gold"`
	Silver        float64 `json:"silver"`
	GSR           float64 `json:"gsr"`
	GoldValue     float64 `json:"gold_value"`
	SilverValue   float64 `json:"silver_value"`
	StrategyValue float64 `json:"strategy_value"`
	HeldMetal     string  `json:"held_metal"`
	SwitchCount   int     `json:"switch_count"`
}

type axisPayload struct {
	Auto  bool      `json:"auto"`
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`
	Ticks []float64 `json:"ticks,omitempty"`
}

func (s *server) handleExplore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req exploreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	params := domain.SimulationParams{
		Amount:        req.Amount,
		GoldToSilver:  thresholdValue(req.GoldToSilver),
		SilverToGold:  thresholdValue(req.SilverToGold),
		StartMetal:    domain.Metal(strings.ToUpper(req.StartMetal)),
		SwitchCostPct: req.SwitchCostPct,
	}
	if req.StartMetal == "" {
		params.StartMetal = domain.MetalGold
	}

	recs, err := s.seriesStore.GetAll(r.Context())
	if err != nil {
		s.logger.Printf("load series: %v", err)
		http.Error(w, "failed to load series", http.StatusInternalServerError)
		return
	}

	res, err := pipeline.Explore(recs, pipeline.ExploreRequest{
		StartKey:     req.Start,
		EndKey:       req.End,
		Params:       params,
		ShowGold:     toggleValue(req.ShowGold),
		ShowSilver:   toggleValue(req.ShowSilver),
		ShowStrategy: toggleValue(req.ShowStrategy),
		ShowRatio:    toggleValue(req.ShowRatio),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := buildExploreResponse(res)

	if req.Persist {
		runID, err := s.simRunner.Persist(r.Context(), res.StartKey, res.EndKey, params, res.Records, res.Summary)
		if err != nil {
			s.logger.Printf("persist run: %v", err)
			http.Error(w, "failed to persist run", http.StatusInternalServerError)
			return
		}
		resp.RunID = runID
	}

	writeJSON(w, http.StatusOK, resp)
}

type runPayload struct {
	RunID             string  `json:"run_id"`
	Start             string  `json:"start"`
	End               string  `json:"end"`
	Amount            float64 `json:"amount"`
	StartMetal        string  `json:"start_metal"`
	StrategyReturnPct float64 `json:"strategy_return_pct"`
	SwitchCount       int     `json:"switch_count"`
	FinalMetal        string  `json:"final_metal"`
	CreatedAt         string  `json:"created_at"`
}

func (s *server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runs, err := s.runStore.GetAll(r.Context())
	if err != nil {
		s.logger.Printf("load runs: %v", err)
		http.Error(w, "failed to load runs", http.StatusInternalServerError)
		return
	}

	payload := make([]runPayload, 0, len(runs))
	for _, run := range runs {
		payload = append(payload, runPayload{
			RunID:             run.RunID,
			Start:             run.StartKey,
			End:               run.EndKey,
			Amount:            run.Amount,
			StartMetal:        string(run.StartMetal),
			StrategyReturnPct: run.StrategyReturnPct,
			SwitchCount:       run.SwitchCount,
			FinalMetal:        string(run.FinalMetal),
			CreatedAt:         run.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	writeJSON(w, http.StatusOK, payload)
}

// handleRunTrajectory serves GET /api/runs/{id}/trajectory.
func (s *server) handleRunTrajectory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "trajectory" {
		http.NotFound(w, r)
		return
	}
	runID := parts[0]

	if _, err := s.runStore.GetByID(r.Context(), runID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.Printf("load run %s: %v", runID, err)
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}

	points, err := s.trajStore.GetByRunID(r.Context(), runID)
	if err != nil {
		s.logger.Printf("load trajectory %s: %v", runID, err)
		http.Error(w, "failed to load trajectory", http.StatusInternalServerError)
		return
	}

	payload := make([]trajectoryPayload, 0, len(points))
	for _, p := range points {
		payload = append(payload, trajectoryPayload{
			Date:          p.DateKey,
			Gold:          p.Gold,
			Silver:        p.Silver,
			GSR:           p.GSR,
			GoldValue:     p.GoldValue,
			SilverValue:   p.SilverValue,
			StrategyValue: p.StrategyValue,
			HeldMetal:     string(p.HeldMetal),
			SwitchCount:   p.SwitchCount,
		})
	}
	writeJSON(w, http.StatusOK, payload)
}

func buildExploreResponse(res *pipeline.ExploreResult) *exploreResponse {
	s := res.Summary
	resp := &exploreResponse{
		Start: res.StartKey,
		End:   res.EndKey,
		Summary: &summaryPayload{
			Duration:          s.Duration,
			EndGoldValue:      s.EndGoldValue,
			EndSilverValue:    s.EndSilverValue,
			EndStrategyValue:  s.EndStrategyValue,
			GoldReturnPct:     s.GoldReturnPct,
			SilverReturnPct:   s.SilverReturnPct,
			StrategyReturnPct: s.StrategyReturnPct,
			VsGoldPct:         s.VsGoldPct,
			VsSilverPct:       s.VsSilverPct,
			BeatsGoldPct:      s.BeatsGoldPct,
			BeatsSilverPct:    s.BeatsSilverPct,
			SwitchCount:       s.SwitchCount,
			FinalMetal:        string(s.FinalMetal),
		},
		Records:   make([]trajectoryPayload, 0, len(res.Records)),
		ValueAxis: axisPayload{Auto: res.ValueAxis.Auto, Min: res.ValueAxis.Min, Max: res.ValueAxis.Max, Ticks: res.ValueAxis.Ticks},
		RatioAxis: axisPayload{Auto: res.RatioAxis.Auto, Min: res.RatioAxis.Min, Max: res.RatioAxis.Max, Ticks: res.RatioAxis.Ticks},
	}

	for _, rec := range res.Records {
		resp.Records = append(resp.Records, trajectoryPayload{
			Date:          datecode.ToKey(rec.Date),
			Gold:          rec.Gold,
			Silver:        rec.Silver,
			GSR:           rec.GSR,
			GoldValue:     rec.GoldValue,
			SilverValue:   rec.SilverValue,
			StrategyValue: rec.StrategyValue,
			HeldMetal:     string(rec.HeldMetal),
			SwitchCount:   rec.SwitchCount,
		})
	}
	return resp
}

// thresholdValue maps an absent threshold to NaN, which disables the
// trigger.
func thresholdValue(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// toggleValue defaults an absent visibility toggle to on.
func toggleValue(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
