package query

import (
	"context"
	"time"

	"tunedeck/api"
)

// Resource names. Together with a user scope they form cache keys.
const (
	ResProfile       = "profile"
	ResUsers         = "users"
	ResUsersDetailed = "users-detailed"
	ResSongs         = "songs"
	ResQueue         = "queue"
	ResLogs          = "logs"
	ResDashboard     = "dashboard"
)

// Freshness windows and poll intervals. Logs and dashboard are the two
// near-real-time views; everything else is refreshed by invalidation.
// Polled resources carry no TTL: with a freshness window equal to the poll
// interval every other tick would land inside the window and be absorbed by
// the cache, halving the effective rate. The tick is the only driver;
// concurrent gets still share one flight.
const (
	listTTL       = 30 * time.Second
	profileTTL    = 5 * time.Minute
	logsPoll      = 5 * time.Second
	dashboardPoll = 30 * time.Second
	logsLimit     = 250
)

// Resources wires every backend read into the cache store and exposes typed
// accessors plus the mutations with their invalidation edges.
type Resources struct {
	store *Store
	api   *api.Client
}

func NewResources(client *api.Client) *Resources {
	r := &Resources{store: NewStore(), api: client}

	r.store.Register(ResProfile, Spec{TTL: profileTTL}, func(ctx context.Context, _ string) (any, error) {
		return client.Profile(ctx)
	})
	r.store.Register(ResUsers, Spec{TTL: listTTL}, func(ctx context.Context, _ string) (any, error) {
		return client.Users(ctx)
	})
	r.store.Register(ResUsersDetailed, Spec{TTL: listTTL}, func(ctx context.Context, _ string) (any, error) {
		return client.UsersDetailed(ctx)
	})
	r.store.Register(ResSongs, Spec{Scoped: true, TTL: listTTL}, func(ctx context.Context, userID string) (any, error) {
		return client.Songs(ctx, userID)
	})
	r.store.Register(ResQueue, Spec{Scoped: true, TTL: listTTL}, func(ctx context.Context, userID string) (any, error) {
		return client.Queue(ctx, userID)
	})
	r.store.Register(ResLogs, Spec{Poll: logsPoll}, func(ctx context.Context, _ string) (any, error) {
		return client.Logs(ctx, logsLimit)
	})
	r.store.Register(ResDashboard, Spec{Poll: dashboardPoll}, func(ctx context.Context, _ string) (any, error) {
		return client.Dashboard(ctx)
	})

	return r
}

// Store exposes the underlying cache for invalidation and poll lookups.
func (r *Resources) Store() *Store { return r.store }

// API exposes the resource client for calls that bypass the cache (URL
// builders, probe, media fetch).
func (r *Resources) API() *api.Client { return r.api }

func get[T any](ctx context.Context, s *Store, key Key) (T, Result, error) {
	var value T
	res, err := s.Get(ctx, key)
	if err != nil {
		return value, res, err
	}
	if v, ok := res.Value.(T); ok {
		value = v
	}
	return value, res, nil
}

func (r *Resources) Profile(ctx context.Context) (api.Profile, Result, error) {
	return get[api.Profile](ctx, r.store, Key{Resource: ResProfile})
}

func (r *Resources) Users(ctx context.Context) ([]string, Result, error) {
	return get[[]string](ctx, r.store, Key{Resource: ResUsers})
}

func (r *Resources) UsersDetailed(ctx context.Context) ([]api.User, Result, error) {
	return get[[]api.User](ctx, r.store, Key{Resource: ResUsersDetailed})
}

func (r *Resources) Songs(ctx context.Context, userID string) ([]api.Song, Result, error) {
	return get[[]api.Song](ctx, r.store, Key{Resource: ResSongs, UserID: userID})
}

func (r *Resources) Queue(ctx context.Context, userID string) ([]string, Result, error) {
	return get[[]string](ctx, r.store, Key{Resource: ResQueue, UserID: userID})
}

func (r *Resources) Logs(ctx context.Context) ([]api.LogEntry, Result, error) {
	return get[[]api.LogEntry](ctx, r.store, Key{Resource: ResLogs})
}

func (r *Resources) Dashboard(ctx context.Context) (api.Dashboard, Result, error) {
	return get[api.Dashboard](ctx, r.store, Key{Resource: ResDashboard})
}

// Invalidation edges. Each mutation names exactly the read keys it makes
// stale, which keeps the invalidation graph in one auditable place.

func songEdges(userID string) []Key {
	return []Key{
		{Resource: ResSongs, UserID: userID},
		{Resource: ResDashboard},
	}
}

func queueEdges(userID string) []Key {
	return []Key{
		{Resource: ResQueue, UserID: userID},
		{Resource: ResDashboard},
	}
}

func userEdges() []Key {
	return []Key{
		{Resource: ResUsers},
		{Resource: ResUsersDetailed},
		{Resource: ResDashboard},
	}
}

func (r *Resources) DeleteSong(ctx context.Context, userID string, ref api.SongRef) (api.DeleteResult, error) {
	var res api.DeleteResult
	err := r.store.Mutate(ctx, songEdges(userID), func(ctx context.Context) error {
		var err error
		res, err = r.api.DeleteSong(ctx, userID, ref)
		return err
	})
	return res, err
}

// Redownload touches both the song list and the queue: the entry leaves the
// list and its URL re-enters the queue.
func (r *Resources) Redownload(ctx context.Context, userID string, ref api.SongRef, force bool) (api.RedownloadResult, error) {
	var res api.RedownloadResult
	edges := append(songEdges(userID), Key{Resource: ResQueue, UserID: userID})
	err := r.store.Mutate(ctx, edges, func(ctx context.Context) error {
		var err error
		res, err = r.api.Redownload(ctx, userID, ref, force)
		return err
	})
	return res, err
}

func (r *Resources) QueueAdd(ctx context.Context, userID string, urls []string) error {
	return r.store.Mutate(ctx, queueEdges(userID), func(ctx context.Context) error {
		return r.api.QueueAdd(ctx, userID, urls)
	})
}

func (r *Resources) QueueRemove(ctx context.Context, userID string, urls []string) error {
	return r.store.Mutate(ctx, queueEdges(userID), func(ctx context.Context) error {
		return r.api.QueueRemove(ctx, userID, urls)
	})
}

func (r *Resources) QueueClear(ctx context.Context, userID string) error {
	return r.store.Mutate(ctx, queueEdges(userID), func(ctx context.Context) error {
		return r.api.QueueClear(ctx, userID)
	})
}

func (r *Resources) CreateUser(ctx context.Context, id, role string) error {
	return r.store.Mutate(ctx, userEdges(), func(ctx context.Context) error {
		return r.api.CreateUser(ctx, id, role)
	})
}

func (r *Resources) UpdateUserRole(ctx context.Context, id, role string) error {
	return r.store.Mutate(ctx, userEdges(), func(ctx context.Context) error {
		return r.api.UpdateUserRole(ctx, id, role)
	})
}

func (r *Resources) DeleteUser(ctx context.Context, id string) error {
	return r.store.Mutate(ctx, userEdges(), func(ctx context.Context) error {
		return r.api.DeleteUser(ctx, id)
	})
}

func (r *Resources) SetCredentials(ctx context.Context, username, password string) error {
	return r.store.Mutate(ctx, []Key{{Resource: ResProfile}}, func(ctx context.Context) error {
		return r.api.SetCredentials(ctx, username, password)
	})
}

func (r *Resources) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	return r.store.Mutate(ctx, []Key{{Resource: ResProfile}}, func(ctx context.Context) error {
		return r.api.UpdatePassword(ctx, currentPassword, newPassword)
	})
}

// PollInterval forwards the declared interval for a resource.
func (r *Resources) PollInterval(resource string) time.Duration {
	return r.store.PollInterval(resource)
}
