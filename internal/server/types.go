package server

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/agbru/besselj/internal/membrane"
)

// Float is a float64 that survives JSON encoding when it is not finite:
// NaN and ±Inf are written as the strings "NaN", "+Inf" and "-Inf".
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler and accepts both encodings
// produced by MarshalJSON.
func (f *Float) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch s {
		case "NaN":
			*f = Float(math.NaN())
		case "+Inf", "Inf":
			*f = Float(math.Inf(1))
		case "-Inf":
			*f = Float(math.Inf(-1))
		default:
			return fmt.Errorf("server: invalid float string %q", s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// EvaluateResponse is the JSON body returned by /evaluate.
type EvaluateResponse struct {
	// X is the argument as received.
	X Float `json:"x"`
	// N is the integer order used after rounding the requested one.
	N int `json:"n"`
	// RequestedN is the order exactly as requested.
	RequestedN float64 `json:"requested_n"`
	// Value is J_n(x). It is omitted if an error occurred.
	Value *Float `json:"value,omitempty"`
	// Algorithm is the registry name of the evaluator used.
	Algorithm string `json:"algorithm"`
	// Duration is the formatted evaluation time.
	Duration string `json:"duration"`
	// Error contains the error message if the evaluation failed.
	Error string `json:"error,omitempty"`
}

func (r EvaluateResponse) withoutTiming() any {
	r.Duration = ""
	return r
}

// MembraneResponse is the JSON body returned by /membrane.
type MembraneResponse struct {
	Algorithm string              `json:"algorithm"`
	Duration  string              `json:"duration"`
	Frame     *membrane.Frame     `json:"frame"`
	Stats     membrane.FrameStats `json:"stats"`
}

func (r MembraneResponse) withoutTiming() any {
	r.Duration = ""
	return r
}

// ErrorResponse represents the standardized JSON response for an API error.
type ErrorResponse struct {
	// Error is the HTTP status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
}

// RequestParseError is a query-parameter error carrying its HTTP status.
type RequestParseError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e RequestParseError) Error() string {
	return e.Message
}
