package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"pantrypal/internal/auth"
	"pantrypal/internal/config"
	"pantrypal/internal/db"
	"pantrypal/internal/errors"
	"pantrypal/internal/handler"
	"pantrypal/internal/model"
	"pantrypal/internal/remote"
	"pantrypal/internal/service"
	"pantrypal/internal/store"
	syncer "pantrypal/internal/sync"
)

type deadRemote struct{}

func (deadRemote) Create(ctx context.Context, coll remote.CollectionPath, doc bson.M) (string, error) {
	return "", errors.ErrRemoteUnavailable
}
func (deadRemote) Set(ctx context.Context, path remote.Path, doc bson.M) error {
	return errors.ErrRemoteUnavailable
}
func (deadRemote) Update(ctx context.Context, path remote.Path, fields bson.M) error {
	return errors.ErrRemoteUnavailable
}
func (deadRemote) Delete(ctx context.Context, path remote.Path) error {
	return errors.ErrRemoteUnavailable
}
func (deadRemote) Get(ctx context.Context, path remote.Path) (bson.M, error) {
	return nil, errors.ErrRemoteUnavailable
}
func (deadRemote) Query(ctx context.Context, coll remote.CollectionPath, filters bson.M, orderBy string, descending bool, limit int64) ([]bson.M, error) {
	return nil, errors.ErrRemoteUnavailable
}
func (deadRemote) Subscribe(ctx context.Context, coll remote.CollectionPath) (remote.Subscription, error) {
	return nil, errors.ErrRemoteUnavailable
}

// newServer wires the full route table the way cmd/pantryd does, over a
// throwaway database and an unreachable remote.
func newServer(t *testing.T) (*echo.Echo, store.UserStore) {
	t.Helper()
	gdb, err := db.NewSQLite(filepath.Join(t.TempDir(), "router.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(gdb))

	cfg := &config.Config{JWTSecret: "test-secret"}

	pantryStore := store.NewPantryStore(gdb)
	userStore := store.NewUserStore(gdb)
	favoriteStore := store.NewFavoriteStore(gdb)
	recipeStore := store.NewRecipeStore(gdb)
	mealPlanStore := store.NewMealPlanStore(gdb)

	coord := syncer.NewCoordinator(pantryStore, userStore, favoriteStore, mealPlanStore, deadRemote{}, time.Second)
	t.Cleanup(coord.Close)

	tokens := auth.NewTokenService(cfg.JWTSecret)
	recipeService := service.NewRecipeService(recipeStore, pantryStore, userStore, favoriteStore, nil)
	nutritionService := service.NewNutritionService(userStore, recipeStore, coord)

	e := echo.New()
	Register(
		e,
		cfg,
		handler.NewPantryHandler(pantryStore, coord),
		handler.NewRecipeHandler(recipeService, coord),
		handler.NewMealPlanHandler(mealPlanStore, coord),
		handler.NewProfileHandler(userStore, nutritionService, tokens, coord),
		handler.NewSyncHandler(coord),
	)
	return e, userStore
}

func do(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSignInTokenOpensSecuredRoutes(t *testing.T) {
	e, users := newServer(t)

	rec := do(e, http.MethodPost, "/api/auth/signin", "",
		`{"userId":"u1","name":"Asha","email":"asha@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var signedIn handler.SignInResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signedIn))
	require.NotEmpty(t, signedIn.Token)
	assert.Equal(t, "u1", signedIn.User.ID)

	// The freshly created profile has its daily counter reset armed.
	stored, err := users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, stored.LastNutritionReset.IsZero())

	// The minted token passes the middleware and reaches the handler.
	rec = do(e, http.MethodGet, "/api/me", signedIn.Token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var me model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "u1", me.ID)
	assert.Equal(t, "Asha", me.Name)
}

func TestSecuredRoutesRejectMissingOrBogusTokens(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodGet, "/api/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/api/me", "not.a.token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	wrongKey, err := auth.NewTokenService("other-secret").Generate("u1", "")
	require.NoError(t, err)
	rec = do(e, http.MethodGet, "/api/me", wrongKey, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthzIsPublic(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
