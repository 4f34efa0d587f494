package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fantasyedge/internal/recommend"
)

func TestParseFactors(t *testing.T) {
	tests := []struct {
		name    string
		factors []string
		want    recommend.Adjustment
	}{
		{"empty list applies everything", nil, recommend.AllAdjustments},
		{"single factor", []string{"form"}, recommend.AdjustForm},
		{"multiple factors", []string{"venue", "weather"}, recommend.AdjustVenue | recommend.AdjustWeather},
		{"unknown names ignored", []string{"form", "moonphase"}, recommend.AdjustForm},
		{"only unknown names falls back to everything", []string{"moonphase"}, recommend.AllAdjustments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseFactors(tt.factors))
		})
	}
}
