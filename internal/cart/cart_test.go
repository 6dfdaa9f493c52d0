package cart

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/backend"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/localstore"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/session"
)

// recordingBackend wraps backend.Mock with a race-safe log of cart
// replacements, since queue uploads land on another goroutine.
type recordingBackend struct {
	backend.Mock

	mu       sync.Mutex
	replaced [][]model.CartLine
	failures int // remaining ReplaceCart calls to fail
	server   []model.CartLine
	fetchErr error
}

func newRecordingBackend() *recordingBackend {
	b := &recordingBackend{}
	b.FetchCartFunc = func(ctx context.Context, token, userID string) ([]model.CartLine, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.fetchErr != nil {
			return nil, b.fetchErr
		}
		return b.server, nil
	}
	b.ReplaceCartFunc = func(ctx context.Context, token, userID string, lines []model.CartLine) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failures > 0 {
			b.failures--
			return errors.New("backend down")
		}
		b.replaced = append(b.replaced, lines)
		return nil
	}
	return b
}

func (b *recordingBackend) replacements() [][]model.CartLine {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]model.CartLine, len(b.replaced))
	copy(out, b.replaced)
	return out
}

type fixture struct {
	cart     *Service
	sessions *session.Store
	local    *localstore.Memory
	be       *recordingBackend
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	local := localstore.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.New(local, logger)
	be := newRecordingBackend()
	svc := New(be, local, sessions, logger)
	t.Cleanup(svc.Close)
	return &fixture{cart: svc, sessions: sessions, local: local, be: be}
}

func product(id string, cents int64, sizes ...string) model.Product {
	return model.Product{ID: id, Name: "product " + id, PriceCents: cents, Sizes: sizes}
}

func alice() model.Identity {
	return model.Identity{UserID: "u1", Username: "alice", Token: "tok", Role: model.RoleShopper}
}

func TestGuestAddAccumulates(t *testing.T) {
	f := newFixture(t)

	p := product("p1", 1999, "S", "M")
	if err := f.cart.AddLine(p, "M"); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if err := f.cart.AddLine(p, "M"); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if err := f.cart.AddLine(p, "S"); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	lines := f.cart.Lines()
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].Variant != "M" || lines[0].Quantity != 2 {
		t.Errorf("line 0 = %+v, want M x2", lines[0])
	}
	if lines[1].Variant != "S" || lines[1].Quantity != 1 {
		t.Errorf("line 1 = %+v, want S x1", lines[1])
	}
	if f.cart.Total() != 3*1999 {
		t.Errorf("Total = %d, want %d", f.cart.Total(), 3*1999)
	}
}

func TestGuestCartPersists(t *testing.T) {
	f := newFixture(t)
	f.cart.AddLine(product("p1", 500), "")

	var persisted []model.CartLine
	found, err := f.local.Get(localstore.BucketGuestCart, &persisted)
	if err != nil || !found {
		t.Fatalf("guest bucket: found=%v err=%v", found, err)
	}
	if len(persisted) != 1 || persisted[0].Product.ID != "p1" {
		t.Errorf("persisted = %+v", persisted)
	}
}

func TestAddLineRequiresSize(t *testing.T) {
	f := newFixture(t)

	p := product("p1", 1999, "S", "M")
	if err := f.cart.AddLine(p, ""); !errors.Is(err, model.ErrInvalidRequest) {
		t.Errorf("missing size err = %v, want ErrInvalidRequest", err)
	}
	if err := f.cart.AddLine(p, "XL"); !errors.Is(err, model.ErrInvalidRequest) {
		t.Errorf("unknown size err = %v, want ErrInvalidRequest", err)
	}
	// Products without sizes need no variant.
	if err := f.cart.AddLine(product("p2", 500), ""); err != nil {
		t.Errorf("AddLine without sizes: %v", err)
	}
	if got := f.cart.Count(); got != 1 {
		t.Errorf("Count = %d, want 1: rejected adds must not mutate", got)
	}
}

func TestRemoveLineIdempotent(t *testing.T) {
	f := newFixture(t)
	f.cart.AddLine(product("p1", 500), "")

	key := model.LineKey{ProductID: "p1"}
	f.cart.RemoveLine(key)
	f.cart.RemoveLine(key) // absent now, still fine

	if got := f.cart.Count(); got != 0 {
		t.Errorf("Count = %d, want 0", got)
	}
}

func TestAdjustQuantityFloorsAtOne(t *testing.T) {
	f := newFixture(t)
	f.cart.AddLine(product("p1", 500), "")
	key := model.LineKey{ProductID: "p1"}

	f.cart.AdjustQuantity(key, 4)
	if got := f.cart.Count(); got != 5 {
		t.Errorf("Count = %d, want 5", got)
	}
	f.cart.AdjustQuantity(key, -10)
	if got := f.cart.Count(); got != 1 {
		t.Errorf("Count = %d, want 1: quantity floors at one", got)
	}
	// Unknown key is a no-op.
	f.cart.AdjustQuantity(model.LineKey{ProductID: "ghost"}, 1)
	if got := f.cart.Count(); got != 1 {
		t.Errorf("Count = %d, want 1", got)
	}
}

func TestSignInMergesGuestIntoServer(t *testing.T) {
	f := newFixture(t)
	f.be.server = []model.CartLine{
		{Product: product("p1", 1999), Quantity: 2},
	}

	f.cart.AddLine(product("p1", 1999), "")
	f.cart.AddLine(product("p2", 500), "")

	if err := f.sessions.Login(alice()); err != nil {
		t.Fatalf("Login: %v", err)
	}

	lines := f.cart.Lines()
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].Product.ID != "p1" || lines[0].Quantity != 3 {
		t.Errorf("merged line 0 = %+v, want p1 x3", lines[0])
	}
	if lines[1].Product.ID != "p2" || lines[1].Quantity != 1 {
		t.Errorf("merged line 1 = %+v, want p2 x1", lines[1])
	}

	// The merged document was pushed and the guest bucket erased.
	reps := f.be.replacements()
	if len(reps) != 1 || len(reps[0]) != 2 {
		t.Errorf("replacements = %d, want 1 merged push", len(reps))
	}
	var guest []model.CartLine
	if found, _ := f.local.Get(localstore.BucketGuestCart, &guest); found {
		t.Error("guest bucket survived sign-in")
	}
}

func TestSignInEmptyGuestAdoptsServer(t *testing.T) {
	f := newFixture(t)
	f.be.server = []model.CartLine{{Product: product("p1", 1999), Quantity: 1}}

	if err := f.sessions.Login(alice()); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if got := f.cart.Count(); got != 1 {
		t.Errorf("Count = %d, want 1", got)
	}
	if reps := f.be.replacements(); len(reps) != 0 {
		t.Errorf("an empty guest cart must not push, got %d pushes", len(reps))
	}
}

func TestSignInFetchFailureKeepsGuest(t *testing.T) {
	f := newFixture(t)
	f.be.fetchErr = errors.New("connection refused")

	f.cart.AddLine(product("p1", 500), "")
	if err := f.sessions.Login(alice()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	f.cart.Flush()

	if got := f.cart.Count(); got != 1 {
		t.Errorf("Count = %d, want 1: guest lines survive a fetch failure", got)
	}
	// The guest lines were scheduled for upload so the server converges.
	if reps := f.be.replacements(); len(reps) != 1 {
		t.Errorf("replacements = %d, want 1 convergence push", len(reps))
	}
	var guest []model.CartLine
	if found, _ := f.local.Get(localstore.BucketGuestCart, &guest); found {
		t.Error("guest bucket survived sign-in")
	}
}

func TestSignInPushRetriesOnce(t *testing.T) {
	f := newFixture(t)
	f.be.server = []model.CartLine{{Product: product("p1", 1999), Quantity: 1}}
	f.be.failures = 1 // first push fails, retry succeeds

	f.cart.AddLine(product("p2", 500), "")
	if err := f.sessions.Login(alice()); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if got := f.cart.Count(); got != 2 {
		t.Errorf("Count = %d, want 2: retry should land the merge", got)
	}
	if reps := f.be.replacements(); len(reps) != 1 {
		t.Errorf("replacements = %d, want 1", len(reps))
	}
}

func TestSignInPushFailureAdoptsServer(t *testing.T) {
	f := newFixture(t)
	f.be.server = []model.CartLine{{Product: product("p1", 1999), Quantity: 1}}
	f.be.failures = 2 // initial push and its retry both fail

	f.cart.AddLine(product("p2", 500), "")
	if err := f.sessions.Login(alice()); err != nil {
		t.Fatalf("Login: %v", err)
	}

	lines := f.cart.Lines()
	if len(lines) != 1 || lines[0].Product.ID != "p1" {
		t.Errorf("lines = %+v, want the server cart only", lines)
	}
	var guest []model.CartLine
	if found, _ := f.local.Get(localstore.BucketGuestCart, &guest); found {
		t.Error("guest bucket survived a failed merge")
	}
}

func TestAuthenticatedMutationPushes(t *testing.T) {
	f := newFixture(t)
	if err := f.sessions.Login(alice()); err != nil {
		t.Fatalf("Login: %v", err)
	}

	f.cart.AddLine(product("p1", 500), "")
	f.cart.Flush()

	reps := f.be.replacements()
	if len(reps) == 0 {
		t.Fatal("no push after authenticated mutation")
	}
	last := reps[len(reps)-1]
	if len(last) != 1 || last[0].Product.ID != "p1" {
		t.Errorf("pushed document = %+v", last)
	}
	// Nothing stays in the guest bucket while signed in.
	var guest []model.CartLine
	if found, _ := f.local.Get(localstore.BucketGuestCart, &guest); found {
		t.Error("guest bucket written during authenticated session")
	}
}

func TestSignOutResetsToEmptyGuest(t *testing.T) {
	f := newFixture(t)
	f.be.server = []model.CartLine{{Product: product("p1", 1999), Quantity: 2}}

	f.sessions.Login(alice())
	if err := f.sessions.Logout(model.RoleShopper); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if got := f.cart.Count(); got != 0 {
		t.Errorf("Count = %d, want 0 after sign-out", got)
	}

	// New guest mutations persist locally again.
	f.cart.AddLine(product("p9", 100), "")
	var guest []model.CartLine
	if found, _ := f.local.Get(localstore.BucketGuestCart, &guest); !found {
		t.Error("guest bucket not written after sign-out")
	}
}

func TestAdminSessionDoesNotTouchCart(t *testing.T) {
	f := newFixture(t)
	f.cart.AddLine(product("p1", 500), "")

	admin := model.Identity{UserID: "u9", Username: "root", Token: "tok9", Role: model.RoleAdmin}
	f.sessions.Login(admin)
	f.sessions.Logout(model.RoleAdmin)

	if got := f.cart.Count(); got != 1 {
		t.Errorf("Count = %d, want 1: admin transitions must not reconcile the cart", got)
	}
	if reps := f.be.replacements(); len(reps) != 0 {
		t.Errorf("admin transitions caused %d cart pushes", len(reps))
	}
}

func TestRestoredSessionReconciles(t *testing.T) {
	local := localstore.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Previous run left a guest cart and a persisted shopper identity.
	local.Put(localstore.BucketGuestCart, []model.CartLine{
		{Product: product("p2", 500), Quantity: 1},
	})
	local.Put(localstore.BucketShopperIdentity, alice())

	sessions := session.New(local, logger)
	be := newRecordingBackend()
	be.server = []model.CartLine{{Product: product("p1", 1999), Quantity: 1}}
	svc := New(be, local, sessions, logger)
	defer svc.Close()

	sessions.Restore()

	if got := svc.Count(); got != 2 {
		t.Errorf("Count = %d, want 2: restore should merge the loaded guest cart", got)
	}
	if reps := be.replacements(); len(reps) != 1 {
		t.Errorf("replacements = %d, want 1", len(reps))
	}
}

func TestCorruptGuestCartDiscarded(t *testing.T) {
	local := localstore.NewMemory()
	local.Seed(localstore.BucketGuestCart, []byte(`[{"quantity":`))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.New(local, logger)
	be := newRecordingBackend()

	svc := New(be, local, sessions, logger)
	defer svc.Close()

	if got := svc.Count(); got != 0 {
		t.Errorf("Count = %d, want 0", got)
	}
	var raw []model.CartLine
	if found, err := local.Get(localstore.BucketGuestCart, &raw); found || err != nil {
		t.Errorf("corrupt bucket not cleared: found=%v err=%v", found, err)
	}
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	f.sessions.Login(alice())
	f.cart.AddLine(product("p1", 500), "")
	f.cart.Clear()
	f.cart.Flush()

	if got := f.cart.Count(); got != 0 {
		t.Errorf("Count = %d, want 0", got)
	}
	reps := f.be.replacements()
	if len(reps) == 0 || len(reps[len(reps)-1]) != 0 {
		t.Error("clearing should push an empty document")
	}
}
