package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/localstore"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/pushqueue"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/session"
)

const reconcileTimeout = 30 * time.Second

// FetchFunc reads the signed-in user's server document.
type FetchFunc[T any] func(ctx context.Context, token, userID string) ([]T, error)

// ReplaceFunc overwrites the server document wholesale.
type ReplaceFunc[T any] func(ctx context.Context, token, userID string, items []T) error

// Config wires a State to its backend endpoints and local bucket.
type Config[T any] struct {
	Name     string
	Bucket   string
	Local    localstore.Store
	Sessions *session.Store
	Logger   *slog.Logger
	Fetch    FetchFunc[T]
	Replace  ReplaceFunc[T]
	Merge    func(server, guest []T) []T
}

// upload is one queued push, bound to the credentials that were current
// when the mutation happened.
type upload[T any] struct {
	token  string
	userID string
	items  []T
}

// State runs the guest/server lifecycle for one synced collection.
// While anonymous, mutations persist to the local bucket. While signed
// in, mutations upload through a coalescing queue and nothing stays
// local. The sign-in transition merges guest items into the server
// document exactly once, then erases the bucket.
type State[T any] struct {
	cfg   Config[T]
	queue *pushqueue.Queue[upload[T]]

	mu    sync.Mutex
	items []T
	ident *model.Identity
}

// NewState loads the guest bucket and subscribes to shopper session
// transitions. Construct before session restore so a restored login
// still reconciles.
func NewState[T any](cfg Config[T]) *State[T] {
	s := &State[T]{cfg: cfg}
	s.queue = pushqueue.New(cfg.Name, func(ctx context.Context, version uint64, u upload[T]) error {
		return cfg.Replace(ctx, u.token, u.userID, u.items)
	}, cfg.Logger)

	var guest []T
	found, err := cfg.Local.Get(cfg.Bucket, &guest)
	if err != nil {
		cfg.Logger.Warn("discarding unreadable guest state", "state", cfg.Name, "error", err)
		_ = cfg.Local.Delete(cfg.Bucket)
	} else if found {
		s.items = guest
	}

	cfg.Sessions.OnChange(func(c session.Change) {
		if c.Role != model.RoleShopper {
			return
		}
		s.onShopperChange(c)
	})
	return s
}

// Mutate applies fn to the items under the lock, then persists: local
// bucket while anonymous, queued upload while signed in. fn may modify
// the slice in place and must return the new value.
func (s *State[T]) Mutate(fn func(items []T) []T) {
	s.mu.Lock()
	s.items = fn(s.items)
	snapshot := make([]T, len(s.items))
	copy(snapshot, s.items)
	ident := s.ident
	s.mu.Unlock()

	if ident != nil {
		s.queue.Enqueue(upload[T]{token: ident.Token, userID: ident.UserID, items: snapshot})
		if err := s.cfg.Local.Delete(s.cfg.Bucket); err != nil {
			s.cfg.Logger.Warn("failed to clear guest bucket", "state", s.cfg.Name, "error", err)
		}
		return
	}
	if err := s.cfg.Local.Put(s.cfg.Bucket, snapshot); err != nil {
		s.cfg.Logger.Warn("failed to persist guest state", "state", s.cfg.Name, "error", err)
	}
}

// Snapshot returns a copy of the current items.
func (s *State[T]) Snapshot() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Flush blocks until queued uploads finish.
func (s *State[T]) Flush() { s.queue.Flush() }

// Close stops the upload queue.
func (s *State[T]) Close() { s.queue.Close() }

func (s *State[T]) onShopperChange(c session.Change) {
	if c.To == nil {
		// Sign-out drops to an empty guest state. The guest bucket was
		// already cleared during the authenticated phase.
		s.mu.Lock()
		s.items = nil
		s.ident = nil
		s.mu.Unlock()
		_ = s.cfg.Local.Delete(s.cfg.Bucket)
		return
	}
	if c.From != nil {
		// Identity replaced without an intervening sign-out. The held
		// items belong to the previous user, so they do not merge.
		s.mu.Lock()
		s.items = nil
		s.mu.Unlock()
	}
	s.reconcile(c.To)
}

// reconcile runs the one-time sign-in merge. Whatever the outcome, the
// guest bucket is erased: after this, the server document is the source
// of truth.
func (s *State[T]) reconcile(ident *model.Identity) {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	guest := s.Snapshot()

	server, err := s.cfg.Fetch(ctx, ident.Token, ident.UserID)
	if err != nil {
		// Server unreachable: keep the guest items and schedule an
		// upload so the server converges when it comes back.
		s.cfg.Logger.Warn("server fetch failed during sign-in, keeping local items",
			"state", s.cfg.Name, "user", ident.Username, "error", err)
		s.adopt(ident, guest)
		if len(guest) > 0 {
			s.queue.Enqueue(upload[T]{token: ident.Token, userID: ident.UserID, items: guest})
		}
		return
	}

	if len(guest) == 0 {
		s.adopt(ident, server)
		s.cfg.Logger.Info("adopted server state at sign-in",
			"state", s.cfg.Name, "user", ident.Username, "items", len(server))
		return
	}

	merged := s.cfg.Merge(server, guest)

	err = s.cfg.Replace(ctx, ident.Token, ident.UserID, merged)
	if err != nil {
		err = s.cfg.Replace(ctx, ident.Token, ident.UserID, merged)
	}
	if err != nil {
		// The merge could not be recorded. The server document stands
		// and the guest items are lost; surfacing half-merged state
		// locally would desync the two copies.
		s.cfg.Logger.Warn("merge push failed, discarding guest items",
			"state", s.cfg.Name, "user", ident.Username,
			"discarded", len(guest), "error", err)
		s.adopt(ident, server)
		return
	}

	s.adopt(ident, merged)
	s.cfg.Logger.Info("merged guest state at sign-in",
		"state", s.cfg.Name, "user", ident.Username,
		"guest", len(guest), "server", len(server), "merged", len(merged))
}

// adopt installs items as the authenticated state and erases the guest
// bucket.
func (s *State[T]) adopt(ident *model.Identity, items []T) {
	s.mu.Lock()
	s.items = items
	s.ident = ident
	s.mu.Unlock()
	if err := s.cfg.Local.Delete(s.cfg.Bucket); err != nil {
		s.cfg.Logger.Warn("failed to erase guest bucket", "state", s.cfg.Name, "error", err)
	}
}
