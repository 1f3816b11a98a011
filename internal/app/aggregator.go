package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"concierge/internal/adapters/observability"
	"concierge/internal/domain"
)

// Aggregator runs every Refresher concurrently and waits for all of them.
// Refreshers never see each other's errors and their order is not defined.
type Aggregator struct {
	refreshers []Refresher
	flight     singleflight.Group
	now        Clock

	mu   sync.RWMutex
	last *domain.CycleReport
}

func NewAggregator(rs ...Refresher) *Aggregator {
	return &Aggregator{refreshers: rs, now: time.Now}
}

// FetchAll runs one fetch-all cycle and returns its report. Callers arriving
// while a cycle is in flight share that cycle. Cancelling ctx does not stop a
// cycle that has started.
func (a *Aggregator) FetchAll(ctx context.Context) domain.CycleReport {
	ctx = context.WithoutCancel(ctx)
	v, _, _ := a.flight.Do("fetch-all", func() (any, error) {
		return a.run(ctx), nil
	})
	return v.(domain.CycleReport)
}

// Last returns the most recent finished cycle.
func (a *Aggregator) Last() (domain.CycleReport, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.last == nil {
		return domain.CycleReport{}, false
	}
	return *a.last, true
}

func (a *Aggregator) run(ctx context.Context) domain.CycleReport {
	rep := domain.CycleReport{Started: a.now(), Results: make([]domain.AdapterResult, len(a.refreshers))}

	// plain Group: a failing adapter must not cancel its siblings
	var g errgroup.Group
	for i, r := range a.refreshers {
		g.Go(func() error {
			rep.Results[i] = a.runOne(ctx, r)
			return nil
		})
	}
	_ = g.Wait()

	rep.Finished = a.now()
	observability.ObserveCycle(rep.Finished.Sub(rep.Started))
	log.Info().
		Dur("took", rep.Finished.Sub(rep.Started)).
		Bool("partial", rep.Failed()).
		Msg("fetch-all cycle finished")

	a.mu.Lock()
	a.last = &rep
	a.mu.Unlock()
	return rep
}

func (a *Aggregator) runOne(ctx context.Context, r Refresher) (res domain.AdapterResult) {
	res.Slice = r.Slice()
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			res.Outcome = domain.OutcomeFailed
			res.Err = fmt.Sprintf("panic: %v", p)
		}
		res.Duration = time.Since(start)
		observability.ObserveAdapter(string(res.Slice), string(res.Outcome))

		ev := log.Info()
		if res.Outcome != domain.OutcomeOK {
			ev = log.Warn().Str("error", res.Err)
		}
		ev.Str("slice", string(res.Slice)).
			Str("outcome", string(res.Outcome)).
			Dur("took", res.Duration).
			Msg("adapter finished")
	}()

	err := r.Refresh(ctx)
	res.Outcome = outcomeOf(err)
	if err != nil {
		res.Err = err.Error()
	}
	return res
}

func outcomeOf(err error) domain.Outcome {
	switch {
	case err == nil:
		return domain.OutcomeOK
	case errors.Is(err, domain.ErrNoData):
		return domain.OutcomeAbsent
	case errors.Is(err, domain.ErrDecode):
		return domain.OutcomeDecode
	case errors.Is(err, domain.ErrTransport):
		return domain.OutcomeTransport
	default:
		return domain.OutcomeFailed
	}
}
