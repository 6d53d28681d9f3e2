package sync

import (
	"context"
	"path/filepath"
	gosync "sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"

	"pantrypal/internal/db"
	"pantrypal/internal/errors"
	"pantrypal/internal/model"
	"pantrypal/internal/outcome"
	"pantrypal/internal/remote"
	"pantrypal/internal/store"
)

// fakeRemote is an in-memory remote.Client. Set failing to make every
// network operation report ErrRemoteUnavailable.
type fakeRemote struct {
	mu      gosync.Mutex
	failing bool
	docs    map[string]bson.M
	feeds   map[string]chan remote.ChangeEvent
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		docs:  make(map[string]bson.M),
		feeds: make(map[string]chan remote.ChangeEvent),
	}
}

func (f *fakeRemote) setFailing(v bool) {
	f.mu.Lock()
	f.failing = v
	f.mu.Unlock()
}

func (f *fakeRemote) unavailable() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.ErrRemoteUnavailable
	}
	return nil
}

func (f *fakeRemote) doc(path remote.Path) (bson.M, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[path.String()]
	return d, ok
}

// feed returns the change channel a subscriber to coll reads from.
func (f *fakeRemote) feed(coll remote.CollectionPath) chan remote.ChangeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.feeds[coll.String()]
	if !ok {
		ch = make(chan remote.ChangeEvent, 16)
		f.feeds[coll.String()] = ch
	}
	return ch
}

func (f *fakeRemote) Create(ctx context.Context, coll remote.CollectionPath, doc bson.M) (string, error) {
	return "", f.unavailable()
}

func (f *fakeRemote) Set(ctx context.Context, path remote.Path, doc bson.M) error {
	if err := f.unavailable(); err != nil {
		return err
	}
	f.mu.Lock()
	f.docs[path.String()] = doc
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) Update(ctx context.Context, path remote.Path, fields bson.M) error {
	return f.unavailable()
}

func (f *fakeRemote) Delete(ctx context.Context, path remote.Path) error {
	if err := f.unavailable(); err != nil {
		return err
	}
	f.mu.Lock()
	delete(f.docs, path.String())
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) Get(ctx context.Context, path remote.Path) (bson.M, error) {
	if err := f.unavailable(); err != nil {
		return nil, err
	}
	d, ok := f.doc(path)
	if !ok {
		return nil, errors.ErrDocumentNotFound
	}
	return d, nil
}

func (f *fakeRemote) Query(ctx context.Context, coll remote.CollectionPath, filters bson.M, orderBy string, descending bool, limit int64) ([]bson.M, error) {
	return nil, f.unavailable()
}

type fakeSubscription struct {
	events chan remote.ChangeEvent
}

func (s *fakeSubscription) Events() <-chan remote.ChangeEvent { return s.events }
func (s *fakeSubscription) Err() error                        { return nil }

func (f *fakeRemote) Subscribe(ctx context.Context, coll remote.CollectionPath) (remote.Subscription, error) {
	if err := f.unavailable(); err != nil {
		return nil, err
	}
	in := f.feed(coll)
	out := make(chan remote.ChangeEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-in:
				select {
				case <-ctx.Done():
					return
				case out <- ev:
				}
			}
		}
	}()
	return &fakeSubscription{events: out}, nil
}

var _ remote.Client = (*fakeRemote)(nil)

// countingPantry counts replica applies on top of a real store.
type countingPantry struct {
	store.PantryStore
	applies atomic.Int32
}

func (c *countingPantry) Apply(ctx context.Context, item *model.PantryItem) error {
	c.applies.Add(1)
	return c.PantryStore.Apply(ctx, item)
}

// countingFavorites counts membership writes on top of a real store.
type countingFavorites struct {
	store.FavoriteStore
	adds atomic.Int32
}

func (c *countingFavorites) Add(ctx context.Context, fav *model.FavoriteRecipe) error {
	c.adds.Add(1)
	return c.FavoriteStore.Add(ctx, fav)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.NewSQLite(filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(gdb))
	return gdb
}

type fixture struct {
	pantry    *countingPantry
	users     store.UserStore
	favorites *countingFavorites
	mealPlans store.MealPlanStore
	remote    *fakeRemote
	coord     *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := newTestDB(t)
	f := &fixture{
		pantry:    &countingPantry{PantryStore: store.NewPantryStore(gdb)},
		users:     store.NewUserStore(gdb),
		favorites: &countingFavorites{FavoriteStore: store.NewFavoriteStore(gdb)},
		mealPlans: store.NewMealPlanStore(gdb),
		remote:    newFakeRemote(),
	}
	f.coord = NewCoordinator(f.pantry, f.users, f.favorites, f.mealPlans, f.remote, 20*time.Millisecond)
	t.Cleanup(f.coord.Close)
	return f
}

func TestSaveItemIsLocalFirstWhenRemoteUnreachable(t *testing.T) {
	f := newFixture(t)
	f.remote.setFailing(true)
	ctx := context.Background()

	mirrored := make(chan outcome.Result[*model.PantryItem], 1)
	item := &model.PantryItem{UserID: "u1", IngredientName: "rice"}
	err := f.coord.SaveItem(ctx, item, func(r outcome.Result[*model.PantryItem]) {
		mirrored <- r
	})
	require.NoError(t, err, "local write succeeds regardless of the remote")

	got, err := f.pantry.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "rice", got.IngredientName)

	select {
	case r := <-mirrored:
		assert.True(t, r.Failed())
		assert.ErrorIs(t, r.Err, errors.ErrRemoteUnavailable)
	case <-time.After(5 * time.Second):
		t.Fatal("mirror outcome never delivered")
	}
}

func TestSaveItemMirrorsToRemote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mirrored := make(chan outcome.Result[*model.PantryItem], 1)
	item := &model.PantryItem{UserID: "u1", IngredientName: "paneer"}
	require.NoError(t, f.coord.SaveItem(ctx, item, func(r outcome.Result[*model.PantryItem]) {
		mirrored <- r
	}))

	select {
	case r := <-mirrored:
		require.False(t, r.Failed())
	case <-time.After(5 * time.Second):
		t.Fatal("mirror outcome never delivered")
	}

	doc, ok := f.remote.doc(remote.Doc("u1", "pantryItems", item.ID))
	require.True(t, ok)
	assert.Equal(t, item.ID, doc["_id"])
	assert.Equal(t, "u1", doc["userId"])
}

func TestDeleteItemMirrorsDeletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item := &model.PantryItem{UserID: "u1", IngredientName: "rice"}
	saved := make(chan outcome.Result[*model.PantryItem], 1)
	require.NoError(t, f.coord.SaveItem(ctx, item, func(r outcome.Result[*model.PantryItem]) {
		saved <- r
	}))
	select {
	case <-saved:
	case <-time.After(5 * time.Second):
		t.Fatal("save mirror outcome never delivered")
	}

	done := make(chan outcome.Done, 1)
	require.NoError(t, f.coord.DeleteItem(ctx, "u1", item.ID, func(r outcome.Done) {
		done <- r
	}))

	select {
	case r := <-done:
		require.False(t, r.Failed())
	case <-time.After(5 * time.Second):
		t.Fatal("delete mirror outcome never delivered")
	}

	_, ok := f.remote.doc(remote.Doc("u1", "pantryItems", item.ID))
	assert.False(t, ok)
	_, err := f.pantry.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, errors.ErrItemNotFound)
}

func TestRemoteChangesFlowIntoLocalStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.StartSyncing("u1")

	item := &model.PantryItem{
		ID: "remote-item", UserID: "u1", IngredientName: "turmeric",
		CreatedAt: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC),
	}
	doc, err := remote.ToDoc(item)
	require.NoError(t, err)

	feed := f.remote.feed(remote.Collection("u1", "pantryItems"))
	feed <- remote.ChangeEvent{Type: remote.Added, Path: remote.Doc("u1", "pantryItems", item.ID), Doc: doc}

	require.Eventually(t, func() bool {
		got, err := f.pantry.GetByID(ctx, item.ID)
		return err == nil && got.Equal(item)
	}, 5*time.Second, 10*time.Millisecond, "remote add reaches the local store verbatim")

	feed <- remote.ChangeEvent{Type: remote.Removed, Path: remote.Doc("u1", "pantryItems", item.ID)}
	require.Eventually(t, func() bool {
		_, err := f.pantry.GetByID(ctx, item.ID)
		return err == errors.ErrItemNotFound
	}, 5*time.Second, 10*time.Millisecond, "remote delete removes the local row")
}

func TestReconciliationSkipsIdenticalDocuments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.StartSyncing("u1")

	item := &model.PantryItem{
		ID: "dup", UserID: "u1", IngredientName: "ghee",
		CreatedAt: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
	doc, err := remote.ToDoc(item)
	require.NoError(t, err)

	feed := f.remote.feed(remote.Collection("u1", "pantryItems"))
	feed <- remote.ChangeEvent{Type: remote.Added, Path: remote.Doc("u1", "pantryItems", item.ID), Doc: doc}
	require.Eventually(t, func() bool {
		_, err := f.pantry.GetByID(ctx, item.ID)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	require.EqualValues(t, 1, f.pantry.applies.Load())

	// Snapshot overlap replays the identical document.
	feed <- remote.ChangeEvent{Type: remote.Modified, Path: remote.Doc("u1", "pantryItems", item.ID), Doc: doc}

	// Drain with a second, genuinely new document so we know the replay
	// was processed.
	other := &model.PantryItem{ID: "other", UserID: "u1", IngredientName: "salt"}
	otherDoc, err := remote.ToDoc(other)
	require.NoError(t, err)
	feed <- remote.ChangeEvent{Type: remote.Added, Path: remote.Doc("u1", "pantryItems", "other"), Doc: otherDoc}

	require.Eventually(t, func() bool {
		_, err := f.pantry.GetByID(ctx, "other")
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 2, f.pantry.applies.Load(), "identical replay does not rewrite the row")
}

func TestProfileChangesSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.StartSyncing("u1")

	user := &model.User{ID: "u1", Name: "Asha", DailyCalorieGoal: 1800}
	doc, err := remote.ToDoc(user)
	require.NoError(t, err)

	feed := f.remote.feed(remote.UserCollection("u1"))
	feed <- remote.ChangeEvent{Type: remote.Modified, Path: remote.UserDoc("u1"), Doc: doc}

	require.Eventually(t, func() bool {
		got, err := f.users.GetByID(ctx, "u1")
		return err == nil && got.DailyCalorieGoal == 1800
	}, 5*time.Second, 10*time.Millisecond)
}

func TestFavoriteChangesSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.StartSyncing("u1")

	fav := &model.FavoriteRecipe{UserID: "u1", RecipeID: "idli", AddedAt: time.Now().UTC()}
	doc, err := remote.ToDoc(fav)
	require.NoError(t, err)

	feed := f.remote.feed(remote.Collection("u1", "favorites"))
	feed <- remote.ChangeEvent{Type: remote.Added, Path: remote.Doc("u1", "favorites", "idli"), Doc: doc}

	require.Eventually(t, func() bool {
		ok, err := f.favorites.IsFavorite(ctx, "u1", "idli")
		return err == nil && ok
	}, 5*time.Second, 10*time.Millisecond)

	feed <- remote.ChangeEvent{Type: remote.Removed, Path: remote.Doc("u1", "favorites", "idli")}
	require.Eventually(t, func() bool {
		ok, err := f.favorites.IsFavorite(ctx, "u1", "idli")
		return err == nil && !ok
	}, 5*time.Second, 10*time.Millisecond)
}

func TestReconciliationSkipsIdenticalFavorites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.StartSyncing("u1")

	fav := &model.FavoriteRecipe{
		UserID: "u1", RecipeID: "kheer",
		AddedAt: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
	doc, err := remote.ToDoc(fav)
	require.NoError(t, err)

	feed := f.remote.feed(remote.Collection("u1", "favorites"))
	feed <- remote.ChangeEvent{Type: remote.Added, Path: remote.Doc("u1", "favorites", "kheer"), Doc: doc}
	require.Eventually(t, func() bool {
		ok, err := f.favorites.IsFavorite(ctx, "u1", "kheer")
		return err == nil && ok
	}, 5*time.Second, 10*time.Millisecond)
	require.EqualValues(t, 1, f.favorites.adds.Load())

	// Snapshot overlap replays the identical membership doc, then a new
	// favorite drains the feed.
	feed <- remote.ChangeEvent{Type: remote.Modified, Path: remote.Doc("u1", "favorites", "kheer"), Doc: doc}

	other := &model.FavoriteRecipe{
		UserID: "u1", RecipeID: "idli",
		AddedAt: time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC),
	}
	otherDoc, err := remote.ToDoc(other)
	require.NoError(t, err)
	feed <- remote.ChangeEvent{Type: remote.Added, Path: remote.Doc("u1", "favorites", "idli"), Doc: otherDoc}

	require.Eventually(t, func() bool {
		ok, err := f.favorites.IsFavorite(ctx, "u1", "idli")
		return err == nil && ok
	}, 5*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 2, f.favorites.adds.Load(), "identical replay does not rewrite added_at")

	stored, err := f.favorites.Get(ctx, "u1", "kheer")
	require.NoError(t, err)
	assert.True(t, stored.AddedAt.Equal(fav.AddedAt))
}

func TestSubscriptionRetriesAfterFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.remote.setFailing(true)
	f.coord.StartSyncing("u1")

	// Attempts are failing; the coordinator keeps retrying on its fixed
	// delay. Local reads keep working throughout.
	_, err := f.pantry.ListByUser(ctx, "u1")
	require.NoError(t, err)

	f.remote.setFailing(false)

	item := &model.PantryItem{ID: "late", UserID: "u1", IngredientName: "rice"}
	doc, err := remote.ToDoc(item)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		select {
		case f.remote.feed(remote.Collection("u1", "pantryItems")) <- remote.ChangeEvent{
			Type: remote.Added, Path: remote.Doc("u1", "pantryItems", "late"), Doc: doc,
		}:
		default:
		}
		_, err := f.pantry.GetByID(ctx, "late")
		return err == nil
	}, 5*time.Second, 25*time.Millisecond, "feed attaches once the remote recovers")
}

func TestStartAndStopSyncing(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, StateIdle, f.coord.SyncState("u1", KindPantryItems))

	f.coord.StartSyncing("u1")
	f.coord.StartSyncing("u1") // idempotent

	require.Eventually(t, func() bool {
		return f.coord.SyncState("u1", KindPantryItems) == StateSubscribed &&
			f.coord.SyncState("u1", KindFavorites) == StateSubscribed
	}, 5*time.Second, 10*time.Millisecond)

	f.coord.StopSyncing("u1")
	assert.Equal(t, StateIdle, f.coord.SyncState("u1", KindPantryItems))

	f.coord.StopSyncing("u1") // idempotent
}
