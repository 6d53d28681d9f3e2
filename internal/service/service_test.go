package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"

	"pantrypal/internal/db"
	"pantrypal/internal/errors"
	"pantrypal/internal/remote"
	"pantrypal/internal/store"
	syncer "pantrypal/internal/sync"
)

// offlineRemote fails every network operation. Local-first writes keep
// succeeding through the coordinator regardless.
type offlineRemote struct{}

func (offlineRemote) Create(ctx context.Context, coll remote.CollectionPath, doc bson.M) (string, error) {
	return "", errors.ErrRemoteUnavailable
}
func (offlineRemote) Set(ctx context.Context, path remote.Path, doc bson.M) error {
	return errors.ErrRemoteUnavailable
}
func (offlineRemote) Update(ctx context.Context, path remote.Path, fields bson.M) error {
	return errors.ErrRemoteUnavailable
}
func (offlineRemote) Delete(ctx context.Context, path remote.Path) error {
	return errors.ErrRemoteUnavailable
}
func (offlineRemote) Get(ctx context.Context, path remote.Path) (bson.M, error) {
	return nil, errors.ErrRemoteUnavailable
}
func (offlineRemote) Query(ctx context.Context, coll remote.CollectionPath, filters bson.M, orderBy string, descending bool, limit int64) ([]bson.M, error) {
	return nil, errors.ErrRemoteUnavailable
}
func (offlineRemote) Subscribe(ctx context.Context, coll remote.CollectionPath) (remote.Subscription, error) {
	return nil, errors.ErrRemoteUnavailable
}

var _ remote.Client = offlineRemote{}

type serviceFixture struct {
	pantry    store.PantryStore
	users     store.UserStore
	favorites store.FavoriteStore
	recipes   store.RecipeStore
	coord     *syncer.Coordinator
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	gdb, err := db.NewSQLite(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(gdb))
	return newServiceFixtureOn(t, gdb)
}

func newServiceFixtureOn(t *testing.T, gdb *gorm.DB) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		pantry:    store.NewPantryStore(gdb),
		users:     store.NewUserStore(gdb),
		favorites: store.NewFavoriteStore(gdb),
		recipes:   store.NewRecipeStore(gdb),
	}
	f.coord = syncer.NewCoordinator(f.pantry, f.users, f.favorites, store.NewMealPlanStore(gdb), offlineRemote{}, time.Second)
	t.Cleanup(f.coord.Close)
	return f
}
