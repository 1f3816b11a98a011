// Command fetch runs exactly one fetch-all cycle and prints the cycle report
// and the resulting snapshot as JSON. It exits 1 when any adapter failed.
package main

import (
	"context"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"concierge/internal/adapters/observability"
	"concierge/internal/app"
	"concierge/internal/bootstrap"
	"concierge/internal/domain"
	"concierge/internal/shared"
	"concierge/internal/state"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	log.Logger = observability.NewLoggerTo(os.Stderr, cfg.AppEnv, cfg.LogLevel)

	store := state.New(app.DefaultPropertySnapshot())
	agg, err := bootstrap.Aggregator(cfg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring failed")
	}

	log.Info().Str("weather", cfg.Weather.Provider).Str("station", cfg.Tides.Station).Msg("fetch starting")
	rep := agg.FetchAll(context.Background())

	out := struct {
		Report   domain.CycleReport `json:"report"`
		Snapshot domain.Snapshot    `json:"snapshot"`
	}{Report: rep, Snapshot: store.Snapshot()}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal().Err(err).Msg("encode failed")
	}
	if rep.Failed() {
		os.Exit(1)
	}
}
