package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"DoubleDown/internal/collector"
	"DoubleDown/internal/fund"
	"DoubleDown/internal/model"
	"DoubleDown/internal/recorder"
	"DoubleDown/internal/simulator"
)

const msgMissingParameters = "Missing parameters"

func (s *Server) handleStockData(w http.ResponseWriter, r *http.Request) {
	var req collector.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setErrorResponse(http.StatusBadRequest, msgMissingParameters, w)
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)
	if req.Code == "" || req.StartDate == "" || req.EndDate == "" {
		setErrorResponse(http.StatusBadRequest, msgMissingParameters, w)
		return
	}

	bars, err := s.Fetcher.FetchDailyBars(r.Context(), req.Code, req.StartDate, req.EndDate)
	if err != nil {
		log.Errorf("handleStockData: %s: %v", s.Fetcher.Name(), err)
		setErrorResponse(http.StatusInternalServerError, err.Error(), w)
		return
	}
	if len(bars) == 0 {
		setErrorResponse(http.StatusNotFound, collector.ErrNoData.Error(), w)
		return
	}

	if err := setResponse(bars, w); err != nil {
		log.Errorf("handleStockData: %v", err)
	}
}

// SimulateRequest is the body of POST /api/simulate. Zero params fall back to
// the server defaults.
type SimulateRequest struct {
	collector.Request
	TotalFunds        float64 `json:"total_funds"`
	InitialStockCount int     `json:"initial_stock_count"`
	Strategy          string  `json:"strategy"`
	Record            bool    `json:"record"`
}

// SimulateResponse carries the whole replay computed in one go.
type SimulateResponse struct {
	RunID  string        `json:"run_id,omitempty"`
	State  model.State   `json:"state"`
	Points []model.Point `json:"points"`
	Steps  []model.Step  `json:"steps"`
	Result *model.Result `json:"result"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setErrorResponse(http.StatusBadRequest, "invalid request body", w)
		return
	}
	if err := collector.Validate(req.Request); err != nil {
		setErrorResponse(http.StatusBadRequest, err.Error(), w)
		return
	}

	bars, err := s.Fetcher.FetchDailyBars(r.Context(), req.Code, req.StartDate, req.EndDate)
	if err != nil {
		log.Errorf("handleSimulate: fetch: %v", err)
		setErrorResponse(http.StatusInternalServerError, err.Error(), w)
		return
	}
	if len(bars) == 0 {
		setErrorResponse(http.StatusNotFound, collector.ErrNoData.Error(), w)
		return
	}

	params := s.params(req.TotalFunds, req.InitialStockCount, req.Strategy, 0)
	report, err := simulator.Run(bars, params)
	var ife *fund.InsufficientFundsError
	switch {
	case errors.As(err, &ife):
		setErrorResponse(http.StatusUnprocessableEntity, err.Error(), w)
		return
	case err != nil:
		setErrorResponse(http.StatusBadRequest, err.Error(), w)
		return
	}

	resp := SimulateResponse{
		State:  report.State,
		Points: report.Points,
		Steps:  report.Steps,
		Result: report.Result,
	}
	if req.Record {
		id, err := recorder.Save(s.Recorder, s.runRecord(req.Request, params), report.Points, report.Result)
		if err != nil {
			log.Errorf("handleSimulate: record: %v", err)
		}
		resp.RunID = id
	}

	if err := setResponse(resp, w); err != nil {
		log.Errorf("handleSimulate: %v", err)
	}
}

type runsQuery struct {
	Limit int `schema:"limit"`
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	var q runsQuery
	if err := s.decoder.Decode(&q, r.URL.Query()); err != nil {
		setErrorResponse(http.StatusBadRequest, err.Error(), w)
		return
	}
	runs, err := s.Recorder.ListRuns(q.Limit)
	if err != nil {
		setErrorResponse(http.StatusInternalServerError, err.Error(), w)
		return
	}
	if runs == nil {
		runs = []recorder.RunRecord{}
	}
	if err := setResponse(runs, w); err != nil {
		log.Errorf("handleRuns: %v", err)
	}
}

func (s *Server) handleRunPoints(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	points, err := s.Recorder.Points(id)
	if err != nil {
		setErrorResponse(http.StatusInternalServerError, err.Error(), w)
		return
	}
	if len(points) == 0 {
		setErrorResponse(http.StatusNotFound, "run not found", w)
		return
	}
	if err := setResponse(points, w); err != nil {
		log.Errorf("handleRunPoints: %v", err)
	}
}

// params overlays non-zero request values on the server defaults.
func (s *Server) params(totalFunds float64, count int, strategy string, intervalMs int) model.Params {
	p := s.Defaults
	if totalFunds > 0 {
		p.TotalFunds = totalFunds
	}
	if count > 0 {
		p.InitialStockCount = count
	}
	if strategy != "" {
		p.Strategy = model.ParsePriceField(strategy)
	}
	if p.Strategy == "" {
		p.Strategy = model.PriceClose
	}
	if intervalMs > 0 {
		p.Interval = msToDuration(intervalMs)
	}
	return p
}

func (s *Server) runRecord(req collector.Request, p model.Params) recorder.RunRecord {
	return recorder.RunRecord{
		Code:              req.Code,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Strategy:          p.Strategy,
		TotalFunds:        p.TotalFunds,
		InitialStockCount: p.InitialStockCount,
	}
}
