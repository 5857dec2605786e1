package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/agbru/besselj/internal/bessel"
	"github.com/agbru/besselj/internal/membrane"
	"github.com/agbru/besselj/internal/service"
)

// handleHealth responds to health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, r, http.StatusOK, response)
}

// handleAlgorithms returns the registered evaluators and the default one.
func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"algorithms": s.factory.List(),
		"default":    bessel.AlgoMiller,
	}

	s.writeJSONResponse(w, r, http.StatusOK, response)
}

// handleEvaluate computes J_n(x) for the query parameters 'x', 'n' and
// 'algo' and returns the result in JSON format.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	x, requested, algo, err := parseEvaluateParams(r)
	if err != nil {
		s.writeParseError(w, err)
		return
	}
	n := bessel.RoundOrder(requested)

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	value, err := s.service.Evaluate(ctx, algo, x, n)
	duration := time.Since(start)

	var unknown *bessel.UnknownEvaluatorError
	switch {
	case errors.Is(err, service.ErrMaxOrderExceeded):
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Order |n| exceeds the maximum allowed (%d). This limit bounds the recurrence cost.", s.securityConfig.MaxOrder))
		return
	case errors.As(err, &unknown):
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := buildEvaluateResponse(x, n, requested, algo, value, duration, err)
	s.writeJSONResponse(w, r, http.StatusOK, resp)
}

// parseEvaluateParams extracts and validates the evaluation parameters.
// The order may be fractional; it is rounded by the caller.
func parseEvaluateParams(r *http.Request) (x, n float64, algo string, err error) {
	q := r.URL.Query()

	xStr := q.Get("x")
	if xStr == "" {
		return 0, 0, "", RequestParseError{Message: "Missing 'x' parameter", StatusCode: http.StatusBadRequest}
	}
	x, parseErr := strconv.ParseFloat(xStr, 64)
	if parseErr != nil {
		return 0, 0, "", RequestParseError{Message: "Invalid 'x' parameter: must be a number", StatusCode: http.StatusBadRequest}
	}

	nStr := q.Get("n")
	if nStr == "" {
		return 0, 0, "", RequestParseError{Message: "Missing 'n' parameter", StatusCode: http.StatusBadRequest}
	}
	n, parseErr = strconv.ParseFloat(nStr, 64)
	if parseErr != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, 0, "", RequestParseError{Message: "Invalid 'n' parameter: must be a finite number", StatusCode: http.StatusBadRequest}
	}
	if !bessel.OrderInRange(n) {
		return 0, 0, "", RequestParseError{Message: "Invalid 'n' parameter: order out of range", StatusCode: http.StatusBadRequest}
	}

	algo = q.Get("algo")
	if algo == "" {
		algo = bessel.AlgoMiller
	}
	return x, n, algo, nil
}

// buildEvaluateResponse constructs the response struct for an evaluation.
func buildEvaluateResponse(x float64, n int, requested float64, algo string, value float64, duration time.Duration, err error) EvaluateResponse {
	resp := EvaluateResponse{
		X:          Float(x),
		N:          n,
		RequestedN: requested,
		Algorithm:  algo,
		Duration:   duration.String(),
	}
	if err != nil {
		resp.Error = err.Error()
	} else {
		v := Float(value)
		resp.Value = &v
	}
	return resp
}

// handleMembrane samples a membrane mode and returns the frame with its
// statistics.
func (s *Server) handleMembrane(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	cfg, t, algo, err := parseMembraneParams(r, s.securityConfig.MaxSegments)
	if err != nil {
		s.writeParseError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	frame, err := s.service.Sample(ctx, algo, cfg, t)
	duration := time.Since(start)

	var unknown *bessel.UnknownEvaluatorError
	switch {
	case errors.As(err, &unknown):
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, context.DeadlineExceeded):
		s.writeErrorResponse(w, http.StatusGatewayTimeout, "Sampling the membrane timed out")
		return
	case err != nil:
		s.logger.Error("membrane sampling failed", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	st, err := frame.Stats()
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSONResponse(w, r, http.StatusOK, MembraneResponse{
		Algorithm: algo,
		Duration:  duration.String(),
		Frame:     frame,
		Stats:     st,
	})
}

// parseMembraneParams builds a membrane configuration from the query,
// starting from membrane.DefaultConfig. Grid dimensions are capped at
// maxSegments.
func parseMembraneParams(r *http.Request, maxSegments int) (cfg membrane.Config, t float64, algo string, err error) {
	q := r.URL.Query()
	cfg = membrane.DefaultConfig()

	ints := []struct {
		name string
		dst  *int
	}{
		{"m", &cfg.Mode.M},
		{"k", &cfg.Mode.K},
		{"rings", &cfg.RadialSegments},
		{"spokes", &cfg.AngularSegments},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		parsed, perr := strconv.Atoi(v)
		if perr != nil {
			return cfg, 0, "", RequestParseError{
				Message:    fmt.Sprintf("Invalid '%s' parameter: must be an integer", p.name),
				StatusCode: http.StatusBadRequest,
			}
		}
		*p.dst = parsed
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"t", &t},
		{"radius", &cfg.Radius},
		{"velocity", &cfg.WaveVelocity},
	}
	for _, p := range floats {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		parsed, perr := strconv.ParseFloat(v, 64)
		if perr != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return cfg, 0, "", RequestParseError{
				Message:    fmt.Sprintf("Invalid '%s' parameter: must be a finite number", p.name),
				StatusCode: http.StatusBadRequest,
			}
		}
		*p.dst = parsed
	}

	if maxSegments > 0 && (cfg.RadialSegments > maxSegments || cfg.AngularSegments > maxSegments) {
		return cfg, 0, "", RequestParseError{
			Message:    fmt.Sprintf("Grid too large: rings and spokes must be at most %d", maxSegments),
			StatusCode: http.StatusBadRequest,
		}
	}
	if verr := cfg.Validate(); verr != nil {
		return cfg, 0, "", RequestParseError{Message: verr.Error(), StatusCode: http.StatusBadRequest}
	}

	algo = q.Get("algo")
	if algo == "" {
		algo = bessel.AlgoMiller
	}
	return cfg, t, algo, nil
}

func (s *Server) writeParseError(w http.ResponseWriter, err error) {
	var parseErr RequestParseError
	if errors.As(err, &parseErr) {
		s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		return
	}
	s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
}

// timed is implemented by responses that report how long they took. The
// timing is left out of their entity tag so repeated requests can match.
type timed interface {
	withoutTiming() any
}

// writeJSONResponse writes data as JSON. Successful responses carry a BLAKE3
// ETag and a matching If-None-Match is answered with 304 Not Modified.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The request, consulted for If-None-Match; may be nil.
//   - statusCode: The HTTP status code to write.
//   - data: The data to be encoded as JSON.
func (s *Server) writeJSONResponse(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("encoding JSON response", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}
	body = append(body, '\n')

	if statusCode == http.StatusOK {
		tagged := body
		if t, ok := data.(timed); ok {
			if stable, err := json.Marshal(t.withoutTiming()); err == nil {
				tagged = stable
			}
		}
		etag := etagFor(tagged)
		w.Header().Set("ETag", etag)
		if r != nil && etagMatches(r, etag) {
			notModifiedResponses.Inc()
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		s.logger.Printf("Error writing JSON response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.writeJSONResponse(w, nil, statusCode, errResp)
}
