package dashboard

import (
	"net/http"

	"StockDashboard/internal/chart"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

type Response[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	Interval  string `json:"interval,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Window    int    `json:"window,omitempty"`
	Rows      int    `json:"rows"`

	FirstTs string `json:"first_ts,omitempty"`
	LastTs  string `json:"last_ts,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

// Charts carries the three dashboard figures.
type Charts struct {
	Price    chart.Figure `json:"price"`
	Average  chart.Figure `json:"average"`
	Earnings chart.Figure `json:"earnings"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
