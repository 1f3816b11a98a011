// Package redisad publishes committed slice values to Redis pub/sub so other
// screens can follow the state without polling. Nothing is stored in Redis.
package redisad

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"concierge/internal/adapters/observability"
	"concierge/internal/domain"
)

// Message is the payload published on "<prefix>:<slice>".
type Message struct {
	Slice   domain.SliceName `json:"slice"`
	Version uint64           `json:"version"`
	At      time.Time        `json:"at"`
	Data    any              `json:"data"`
}

type Publisher struct {
	c       *redis.Client
	state   domain.StateReader
	prefix  string
	timeout time.Duration
}

func New(addr, pass string, db int, prefix string, st domain.StateReader) *Publisher {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), prefix, st)
}

func NewWithClient(c *redis.Client, prefix string, st domain.StateReader) *Publisher {
	return &Publisher{c: c, state: st, prefix: prefix, timeout: 2 * time.Second}
}

func (p *Publisher) Channel(slice domain.SliceName) string {
	return p.prefix + ":" + string(slice)
}

func (p *Publisher) Ping(ctx context.Context) error { return p.c.Ping(ctx).Err() }

func (p *Publisher) Close() error { return p.c.Close() }

// Publish sends the slice's current value. The version is read together with
// the value, so a late publish never pairs old data with a newer version.
func (p *Publisher) Publish(ctx context.Context, ch domain.Change) error {
	msg := Message{Slice: ch.Slice, At: ch.At}
	switch ch.Slice {
	case domain.SliceProperty:
		msg.Data, msg.Version = p.state.Property()
	case domain.SliceWeather:
		msg.Data, msg.Version = p.state.Weather()
	case domain.SliceSun:
		msg.Data, msg.Version = p.state.Sun()
	case domain.SliceTides:
		msg.Data, msg.Version = p.state.Tides()
	default:
		return fmt.Errorf("publish: unknown slice %q", ch.Slice)
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("publish %s: marshal: %w", ch.Slice, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	err = p.c.Publish(ctx, p.Channel(ch.Slice), b).Err()
	observability.ObservePublish(string(ch.Slice), err)
	return err
}

// Run publishes every change received until ctx is done or changes is closed.
// Failures are logged and dropped.
func (p *Publisher) Run(ctx context.Context, changes <-chan domain.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case ch, ok := <-changes:
			if !ok {
				return
			}
			if err := p.Publish(ctx, ch); err != nil {
				log.Warn().Err(err).Str("slice", string(ch.Slice)).Msg("slice publish failed")
			}
		}
	}
}
