package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/compozy/demoutils/engine/core"
	"github.com/compozy/demoutils/engine/demo"
	"github.com/spf13/cast"
)

type errorResponse struct {
	Error string         `json:"error"`
	Code  core.ErrorCode `json:"code,omitempty"`
}

type greetResponse struct {
	Message string `json:"message"`
}

type resultResponse[T any] struct {
	Result T `json:"result"`
}

type isEvenResponse struct {
	N    int  `json:"n"`
	Even bool `json:"even"`
}

type dateResponse struct {
	Date string `json:"date"`
}

// writeJSON writes v as a JSON response with the given status. The body is
// encoded before the header goes out so an encoding failure still yields a 500.
func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		code = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{Error: "failed to encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

// writeError maps input errors to 400 and everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	var ce *core.Error
	if errors.As(err, &ce) && (ce.Code == core.ErrorCodeInvalidInput || ce.Code == core.ErrorCodeInvalidRange) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ce.Err.Error(), Code: ce.Code})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func invalidParam(key string, cause error) error {
	return core.NewError(fmt.Errorf("invalid %q parameter: %w", key, cause), core.ErrorCodeInvalidInput, map[string]any{
		"param": key,
	})
}

func missingParam(key string) error {
	return core.NewError(fmt.Errorf("missing %q parameter", key), core.ErrorCodeInvalidInput, map[string]any{
		"param": key,
	})
}

func queryFloat(r *http.Request, key string) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, missingParam(key)
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, invalidParam(key, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalidParam(key, errors.New("value must be finite"))
	}
	return v, nil
}

// decimal strips leading zeros from a base-10 integer literal so cast does not
// read it as octal. Anything but an optional sign and digits is rejected.
func decimal(raw string) (string, error) {
	sign, digits := "", raw
	if digits != "" && (digits[0] == '-' || digits[0] == '+') {
		sign, digits = digits[:1], digits[1:]
	}
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return "", fmt.Errorf("%q is not a decimal integer", raw)
	}
	if digits = strings.TrimLeft(digits, "0"); digits == "" {
		digits = "0"
	}
	return sign + digits, nil
}

// queryInt coerces key to an int, returning def when the parameter is absent.
func queryInt(r *http.Request, key string, def *int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		if def == nil {
			return 0, missingParam(key)
		}
		return *def, nil
	}
	s, err := decimal(raw)
	if err != nil {
		return 0, invalidParam(key, err)
	}
	v, err := cast.ToIntE(s)
	if err != nil {
		return 0, invalidParam(key, err)
	}
	return v, nil
}

// Handlers serves the demo helpers as JSON endpoints
type Handlers struct {
	RandomMin int
	RandomMax int
}

// Greet handles GET /api/greet?name=
func (h *Handlers) Greet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, greetResponse{Message: demo.Greet(r.URL.Query().Get("name"))})
}

// Add handles GET /api/add?a=&b=
func (h *Handlers) Add(w http.ResponseWriter, r *http.Request) {
	h.binary(w, r, demo.Add[float64])
}

// Multiply handles GET /api/multiply?a=&b=
func (h *Handlers) Multiply(w http.ResponseWriter, r *http.Request) {
	h.binary(w, r, demo.Multiply[float64])
}

func (h *Handlers) binary(w http.ResponseWriter, r *http.Request, op func(a, b float64) float64) {
	a, err := queryFloat(r, "a")
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := queryFloat(r, "b")
	if err != nil {
		writeError(w, err)
		return
	}
	res := op(a, b)
	if math.IsInf(res, 0) {
		writeError(w, core.NewError(errors.New("result overflows float64"), core.ErrorCodeInvalidInput, map[string]any{
			"a": a,
			"b": b,
		}))
		return
	}
	writeJSON(w, http.StatusOK, resultResponse[float64]{Result: res})
}

// IsEven handles GET /api/is-even?n=
func (h *Handlers) IsEven(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "n", nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, isEvenResponse{N: n, Even: demo.IsEven(n)})
}

// Date handles GET /api/date?date=. The date may be YYYY-MM-DD or RFC3339;
// without it the current date is returned.
func (h *Handlers) Date(w http.ResponseWriter, r *http.Request) {
	var t time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		var err error
		t, err = parseDate(raw)
		if err != nil {
			writeError(w, invalidParam("date", err))
			return
		}
	}
	writeJSON(w, http.StatusOK, dateResponse{Date: demo.FormatDate(t)})
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(demo.DateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// Random handles GET /api/random?min=&max=
func (h *Handlers) Random(w http.ResponseWriter, r *http.Request) {
	lo, err := queryInt(r, "min", &h.RandomMin)
	if err != nil {
		writeError(w, err)
		return
	}
	hi, err := queryInt(r, "max", &h.RandomMax)
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := demo.RandomBetween(lo, hi)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse[int]{Result: n})
}
