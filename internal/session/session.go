// Package session tracks who is signed in. Two slots exist, one per
// role, and each moves between anonymous and authenticated on its own.
package session

import (
	"log/slog"
	"sync"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/localstore"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

// Change describes one slot transition. From or To is nil on the
// anonymous side of the transition.
type Change struct {
	Role model.Role
	From *model.Identity
	To   *model.Identity
}

// Listener receives slot transitions. Listeners run synchronously on
// the goroutine that triggered the change, after the slot is updated.
type Listener func(Change)

// Store holds the two identity slots and persists them across restarts.
type Store struct {
	local  localstore.Store
	logger *slog.Logger

	mu        sync.Mutex
	slots     map[model.Role]*model.Identity
	listeners []Listener
}

func New(local localstore.Store, logger *slog.Logger) *Store {
	return &Store{
		local:  local,
		logger: logger,
		slots:  make(map[model.Role]*model.Identity),
	}
}

// OnChange registers a listener for slot transitions. Register before
// Restore so startup restores are observed.
func (s *Store) OnChange(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Restore loads persisted identities into their slots. A corrupt
// persisted identity is dropped and the slot stays anonymous; restore
// never fails the startup.
func (s *Store) Restore() {
	for role, bucket := range map[model.Role]string{
		model.RoleShopper: localstore.BucketShopperIdentity,
		model.RoleAdmin:   localstore.BucketAdminIdentity,
	} {
		var ident model.Identity
		found, err := s.local.Get(bucket, &ident)
		if err != nil {
			s.logger.Warn("discarding unreadable persisted identity", "role", role, "error", err)
			if err := s.local.Delete(bucket); err != nil {
				s.logger.Warn("failed to clear corrupt identity", "role", role, "error", err)
			}
			continue
		}
		if !found {
			continue
		}
		if ident.Token == "" || !ident.Role.Valid() {
			s.logger.Warn("discarding incomplete persisted identity", "role", role)
			_ = s.local.Delete(bucket)
			continue
		}
		s.set(role, &ident)
		s.logger.Info("session restored", "role", role, "user", ident.Username)
	}
}

// Login places ident into its role slot and persists it. An existing
// identity in the slot is replaced.
func (s *Store) Login(ident model.Identity) error {
	if !ident.Role.Valid() {
		return model.NewValidationError("role", "unknown role")
	}
	if err := s.local.Put(bucketFor(ident.Role), ident); err != nil {
		return err
	}
	s.set(ident.Role, &ident)
	s.logger.Info("session opened", "role", ident.Role, "user", ident.Username)
	return nil
}

// Logout clears the named slot only. The other slot is untouched.
func (s *Store) Logout(role model.Role) error {
	if !role.Valid() {
		return model.NewValidationError("role", "unknown role")
	}
	if err := s.local.Delete(bucketFor(role)); err != nil {
		return err
	}
	s.set(role, nil)
	s.logger.Info("session closed", "role", role)
	return nil
}

// Identity returns the identity in the slot, or nil when anonymous.
func (s *Store) Identity(role model.Role) *model.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[role]
}

// set updates the slot and fires listeners outside the mutex. Clearing
// an already-anonymous slot fires nothing.
func (s *Store) set(role model.Role, to *model.Identity) {
	s.mu.Lock()
	from := s.slots[role]
	if to == nil {
		delete(s.slots, role)
	} else {
		s.slots[role] = to
	}
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if from == nil && to == nil {
		return
	}
	ch := Change{Role: role, From: from, To: to}
	for _, fn := range listeners {
		fn(ch)
	}
}

func bucketFor(role model.Role) string {
	if role == model.RoleAdmin {
		return localstore.BucketAdminIdentity
	}
	return localstore.BucketShopperIdentity
}
