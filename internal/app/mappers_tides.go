package app

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"concierge/internal/domain"
	"concierge/internal/normalize"
)

// mapTides keeps source order and skips predictions missing a time or a numeric height.
func mapTides(preds []domain.TidePrediction, loc *time.Location) []domain.TideEvent {
	out := make([]domain.TideEvent, 0, len(preds))
	for _, p := range preds {
		if strings.TrimSpace(p.T) == "" || strings.TrimSpace(p.V) == "" {
			log.Debug().Str("t", p.T).Str("v", p.V).Msg("skip tide prediction")
			continue
		}
		h, err := normalize.TideHeight(p.V)
		if err != nil {
			log.Debug().Str("v", p.V).Err(err).Msg("skip tide prediction")
			continue
		}
		out = append(out, domain.TideEvent{
			Time:   normalize.TideClock(p.T, loc),
			Type:   normalize.TideType(p.Type),
			Height: h,
		})
	}
	return out
}
