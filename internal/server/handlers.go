package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const pageTitle = "Dynamic Text Input Boxes (Side by Side)"

type pagePair struct {
	Index    int
	Std      string
	UGC      string
	Distance string
}

type pageData struct {
	Title    string
	Model    string
	Count    int
	MaxPairs int
	CanAdd   bool
	Pairs    []pagePair
	Error    string
}

// pairCount reads the requested number of pairs, clamped to [1, limit]. The add button asks
// for one more pair than currently shown.
func pairCount(r *http.Request, limit int) int {
	n, err := strconv.Atoi(r.Form.Get("pairs"))
	if err != nil || n < 1 {
		n = 1
	}
	if r.Form.Has("add") {
		n++
	}
	if n > limit {
		n = limit
	}
	return n
}

func (s *Server) maxPairs() int {
	if s.config == nil || s.config.MaxPairs < 1 {
		return 10
	}
	return s.config.MaxPairs
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	limit := s.maxPairs()
	count := pairCount(r, limit)
	std, ugc := r.Form["std"], r.Form["ugc"]

	data := pageData{Title: pageTitle, Count: count, MaxPairs: limit, CanAdd: count < limit}
	for i := 0; i < count; i++ {
		p := pagePair{Index: i + 1}
		if i < len(std) {
			p.Std = std[i]
		}
		if i < len(ugc) {
			p.UGC = ugc[i]
		}
		data.Pairs = append(data.Pairs, p)
	}
	if s.evaluator != nil {
		data.Model = s.evaluator.Model()
		if err := s.fillDistances(r, data.Pairs); err != nil {
			s.logger.Error("scoring page pairs failed", zap.Error(err))
			scoringErrors.Inc()
			data.Error = err.Error()
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("render page failed", zap.Error(err))
	}
}

// fillDistances scores the pairs whose two sides are both filled in.
func (s *Server) fillDistances(r *http.Request, pairs []pagePair) error {
	var idx []int
	var std, ugc []string
	for i, p := range pairs {
		if p.Std == "" || p.UGC == "" {
			continue
		}
		idx = append(idx, i)
		std = append(std, p.Std)
		ugc = append(ugc, p.UGC)
	}
	if len(idx) == 0 {
		return nil
	}
	result, err := s.evaluator.Evaluate(r.Context(), std, ugc)
	if err != nil {
		return err
	}
	values := make([]float64, len(result.Pairs))
	for j, ps := range result.Pairs {
		pairs[idx[j]].Distance = strconv.FormatFloat(ps.Cos, 'f', 4, 64)
		values[j] = ps.Cos
	}
	observeDistances(values)
	return nil
}

type distancePair struct {
	Std string `json:"std"`
	UGC string `json:"ugc"`
}

type distanceRequest struct {
	Pairs []distancePair `json:"pairs"`
}

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	if s.evaluator == nil {
		s.respondError(w, http.StatusNotImplemented, "no encoder configured")
		return
	}
	var req distanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Pairs) == 0 {
		s.respondError(w, http.StatusBadRequest, "pairs is required")
		return
	}
	std := make([]string, len(req.Pairs))
	ugc := make([]string, len(req.Pairs))
	for i, p := range req.Pairs {
		std[i], ugc[i] = p.Std, p.UGC
	}
	s.logger.Debug("distance request", zap.Int("pairs", len(req.Pairs)))
	result, err := s.evaluator.Evaluate(r.Context(), std, ugc)
	if err != nil {
		s.logger.Error("scoring failed", zap.Error(err))
		scoringErrors.Inc()
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	values := make([]float64, len(result.Pairs))
	for i, p := range result.Pairs {
		values[i] = p.Cos
	}
	observeDistances(values)
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
