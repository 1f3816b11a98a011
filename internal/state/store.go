// Package state holds the latest committed value of every domain slice.
//
// Each slice has at most one writer, claimed once at wiring time. Writers
// replace the whole value; readers always get the latest committed value.
// Subscribers are told about every commit without ever blocking a writer.
package state

import (
	"fmt"
	"sync"
	"time"

	"concierge/internal/domain"
)

type slice[T any] struct {
	name    domain.SliceName
	mu      sync.RWMutex
	value   T
	version uint64
	claimed bool
}

func (s *slice[T]) get() (T, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.version
}

type writer[T any] struct {
	s     *slice[T]
	store *Store
}

func (w *writer[T]) Set(v T) {
	w.s.mu.Lock()
	w.s.value = v
	w.s.version++
	ver := w.s.version
	w.s.mu.Unlock()

	w.store.notify(domain.Change{Slice: w.s.name, Version: ver, At: w.store.now()})
}

var _ domain.StateReader = (*Store)(nil)

type Store struct {
	property slice[domain.PropertySnapshot]
	weather  slice[domain.WeatherSnapshot]
	sun      slice[domain.SunTimes]
	tides    slice[domain.TideSnapshot]

	claimMu sync.Mutex

	subMu  sync.Mutex
	subs   map[int]chan domain.Change
	nextID int

	hooks []func(domain.Change)
	now   func() time.Time
}

// New returns a Store holding the initial defaults. property is the value
// shown before the first successful property fetch.
func New(property domain.PropertySnapshot) *Store {
	s := &Store{
		subs: make(map[int]chan domain.Change),
		now:  time.Now,
	}
	s.property = slice[domain.PropertySnapshot]{name: domain.SliceProperty, value: property}
	s.weather = slice[domain.WeatherSnapshot]{name: domain.SliceWeather}
	s.sun = slice[domain.SunTimes]{name: domain.SliceSun}
	s.tides = slice[domain.TideSnapshot]{name: domain.SliceTides}
	return s
}

// OnChange registers a synchronous hook run after every commit. Hooks must be
// registered before any writer is used.
func (s *Store) OnChange(fn func(domain.Change)) {
	s.hooks = append(s.hooks, fn)
}

func claim[T any](st *Store, s *slice[T]) (domain.Writer[T], error) {
	st.claimMu.Lock()
	defer st.claimMu.Unlock()
	if s.claimed {
		return nil, fmt.Errorf("%s: %w", s.name, domain.ErrSliceClaimed)
	}
	s.claimed = true
	return &writer[T]{s: s, store: st}, nil
}

func (s *Store) ClaimProperty() (domain.Writer[domain.PropertySnapshot], error) {
	return claim(s, &s.property)
}

func (s *Store) ClaimWeather() (domain.Writer[domain.WeatherSnapshot], error) {
	return claim(s, &s.weather)
}

func (s *Store) ClaimSun() (domain.Writer[domain.SunTimes], error) {
	return claim(s, &s.sun)
}

func (s *Store) ClaimTides() (domain.Writer[domain.TideSnapshot], error) {
	return claim(s, &s.tides)
}

func (s *Store) Property() (domain.PropertySnapshot, uint64) { return s.property.get() }
func (s *Store) Weather() (domain.WeatherSnapshot, uint64)   { return s.weather.get() }
func (s *Store) Sun() (domain.SunTimes, uint64)              { return s.sun.get() }
func (s *Store) Tides() (domain.TideSnapshot, uint64)        { return s.tides.get() }

// Snapshot reads every slice. Each slice is internally consistent; slices
// committed concurrently with the call may or may not be included.
func (s *Store) Snapshot() domain.Snapshot {
	var out domain.Snapshot
	vers := make(map[domain.SliceName]uint64, 4)
	out.Property, vers[domain.SliceProperty] = s.property.get()
	out.Weather, vers[domain.SliceWeather] = s.weather.get()
	out.Sun, vers[domain.SliceSun] = s.sun.get()
	out.Tides, vers[domain.SliceTides] = s.tides.get()
	out.Versions = vers
	return out
}

// Subscribe returns a channel of commits and a cancel func. When the buffer is
// full the oldest pending change is dropped so the newest always gets through.
func (s *Store) Subscribe(buf int) (<-chan domain.Change, func()) {
	if buf < 1 {
		buf = 1
	}
	ch := make(chan domain.Change, buf)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) notify(c domain.Change) {
	for _, h := range s.hooks {
		h(c)
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- c:
			continue
		default:
		}
		// full: drop the oldest and retry once
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c:
		default:
		}
	}
}
