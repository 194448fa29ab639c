// Package query is the client-side cache between the views and the resource
// client. Reads are registered per resource, keyed by resource name plus
// user scope, deduplicated while in flight, and cached for a freshness
// window. Mutations never write the cache; they declare which keys they
// invalidate on success, forcing the next read to refetch.
package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ErrNoScope is returned when a user-scoped resource is requested without a
// resolved user ID. No network call is issued in that case.
var ErrNoScope = errors.New("user-scoped resource requested without a user id")

// Key identifies one cache entry: a resource name plus its scoping user.
// Global resources leave UserID empty.
type Key struct {
	Resource string
	UserID   string
}

func (k Key) String() string {
	if k.UserID == "" {
		return k.Resource
	}
	return k.Resource + ":" + k.UserID
}

// Spec declares how a registered resource is cached.
type Spec struct {
	Scoped bool          // read requires a resolved user ID
	TTL    time.Duration // freshness window; zero means every read refetches
	Poll   time.Duration // suggested refresh interval for live views; zero means none
}

// Fetcher loads one resource from the backend. userID is empty for global
// resources.
type Fetcher func(ctx context.Context, userID string) (any, error)

// Result is what a read hands to a view: the best known value plus whether
// it is stale because the latest refetch failed.
type Result struct {
	Value     any
	FetchedAt time.Time
	Stale     bool  // Value survives from an earlier fetch
	Err       error // last fetch failure, nil on a fresh value
}

type entry struct {
	value     any
	hasValue  bool
	fetchedAt time.Time
	gen       uint64 // bumped by Invalidate; gates late writes
	lastErr   error
}

// Store is the keyed cache. Safe for concurrent use; the UI issues reads
// from multiple bubbletea commands at once.
type Store struct {
	mu      sync.Mutex
	specs   map[string]Spec
	fetch   map[string]Fetcher
	entries map[Key]*entry
	group   singleflight.Group
}

func NewStore() *Store {
	return &Store{
		specs:   make(map[string]Spec),
		fetch:   make(map[string]Fetcher),
		entries: make(map[Key]*entry),
	}
}

// Register binds a resource name to its fetcher and cache behavior.
func (s *Store) Register(resource string, spec Spec, fetch Fetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specs[resource] = spec
	s.fetch[resource] = fetch
}

// PollInterval reports the declared refresh interval for a resource, zero
// when the resource does not poll.
func (s *Store) PollInterval(resource string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.specs[resource].Poll
}

func (s *Store) entryFor(key Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	return e
}

// Get serves a cached value while it is fresh, otherwise refetches.
// Concurrent gets for the same key share one backend call. A failed refetch
// keeps the previous value visible and flags it stale; only a scope
// violation or an unknown resource is returned as a hard error.
func (s *Store) Get(ctx context.Context, key Key) (Result, error) {
	s.mu.Lock()
	spec, ok := s.specs[key.Resource]
	if !ok {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("unknown resource %q", key.Resource)
	}
	if spec.Scoped && key.UserID == "" {
		s.mu.Unlock()
		return Result{}, ErrNoScope
	}

	e := s.entryFor(key)
	if e.hasValue && e.lastErr == nil && spec.TTL > 0 && time.Since(e.fetchedAt) < spec.TTL {
		res := Result{Value: e.value, FetchedAt: e.fetchedAt}
		s.mu.Unlock()
		return res, nil
	}
	gen := e.gen
	fetch := s.fetch[key.Resource]
	s.mu.Unlock()

	// The generation is part of the flight key: a fetch started before an
	// invalidation shares nothing with one started after, and its result is
	// discarded below instead of overwriting newer state.
	flightKey := fmt.Sprintf("%s#%d", key, gen)
	value, err, _ := s.group.Do(flightKey, func() (any, error) {
		v, ferr := fetch(ctx, key.UserID)
		if ferr != nil && ctx.Err() == nil {
			// One configured re-attempt for reads.
			v, ferr = fetch(ctx, key.UserID)
		}
		return v, ferr
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	e = s.entryFor(key)

	if err != nil {
		log.Warn().Str("key", key.String()).Err(err).Msg("cache refetch failed")
		if e.gen == gen {
			e.lastErr = err
		}
		return Result{Value: e.value, FetchedAt: e.fetchedAt, Stale: e.hasValue, Err: err}, nil
	}

	if e.gen != gen {
		// Invalidated while in flight: the result is outdated, serve what
		// the entry holds and let the next read refetch.
		return Result{Value: e.value, FetchedAt: e.fetchedAt, Stale: e.hasValue, Err: e.lastErr}, nil
	}

	e.value = value
	e.hasValue = true
	e.fetchedAt = time.Now()
	e.lastErr = nil
	return Result{Value: value, FetchedAt: e.fetchedAt}, nil
}

// Invalidate marks keys stale so the next read refetches. Values stay
// visible until replaced. In-flight fetches that began before this call
// can no longer write their result.
func (s *Store) Invalidate(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		e := s.entryFor(key)
		e.gen++
		e.fetchedAt = time.Time{}
	}
}

// Forget drops entries entirely, including their values.
func (s *Store) Forget(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
}

// Reset drops every entry. Used on logout so nothing from the old session
// bleeds into the next one.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[Key]*entry)
}

// Mutate runs a mutation and, only on success, applies its declared
// invalidation edges. A failed mutation leaves the cache untouched.
func (s *Store) Mutate(ctx context.Context, invalidates []Key, op func(context.Context) error) error {
	if err := op(ctx); err != nil {
		return err
	}
	s.Invalidate(invalidates...)
	return nil
}
