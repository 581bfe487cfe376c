package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Metric is a float value that may be undefined. An undefined metric holds NaN,
// marshals to JSON null and renders as an empty string.
type Metric float64

// Undefined returns the sentinel for a metric that cannot be computed.
func Undefined() Metric {
	return Metric(math.NaN())
}

// Valid reports whether the metric carries a finite value.
func (m Metric) Valid() bool {
	f := float64(m)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (m Metric) Float64() float64 {
	return float64(m)
}

// String formats the metric with the shortest representation, or "" when undefined.
func (m Metric) String() string {
	if !m.Valid() {
		return ""
	}
	return strconv.FormatFloat(float64(m), 'f', -1, 64)
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(m))
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = Undefined()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = Metric(f)
	return nil
}
