package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantrypal/internal/model"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Path
		wantErr bool
	}{
		{"profile doc", "users/u1", UserDoc("u1"), false},
		{"collection doc", "users/u1/pantryItems/i9", Doc("u1", "pantryItems", "i9"), false},
		{"trailing slash", "users/u1/pantryItems/i9/", Doc("u1", "pantryItems", "i9"), false},
		{"missing doc id", "users/u1/pantryItems", Path{}, true},
		{"wrong root", "accounts/u1", Path{}, true},
		{"empty user", "users//pantryItems/i9", Path{}, true},
		{"empty", "", Path{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCollectionPath(t *testing.T) {
	got, err := ParseCollectionPath("users/u1/favorites")
	require.NoError(t, err)
	assert.Equal(t, Collection("u1", "favorites"), got)

	_, err = ParseCollectionPath("users/u1")
	assert.Error(t, err)
}

func TestPathString(t *testing.T) {
	assert.Equal(t, "users/u1", UserDoc("u1").String())
	assert.Equal(t, "users/u1/mealPlans/p3", Doc("u1", "mealPlans", "p3").String())
	assert.Equal(t, "users/u1/pantryItems", Collection("u1", "pantryItems").String())
	assert.Equal(t, "users/u1", UserCollection("u1").String())
}

func TestPathStringRoundTrip(t *testing.T) {
	for _, p := range []Path{UserDoc("u1"), Doc("u1", "favorites", "idli")} {
		parsed, err := ParsePath(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestDocCodecRoundTrip(t *testing.T) {
	item := &model.PantryItem{
		ID:             "i1",
		UserID:         "u1",
		IngredientName: "rice",
		Quantity:       "2",
		Unit:           "kg",
		ExpirationDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2025, 6, 2, 11, 30, 0, 0, time.UTC),
	}

	doc, err := ToDoc(item)
	require.NoError(t, err)
	assert.Equal(t, "i1", doc["_id"], "entity id rides in _id")
	assert.Equal(t, "u1", doc["userId"])

	var decoded model.PantryItem
	require.NoError(t, FromDoc(doc, &decoded))
	assert.True(t, item.Equal(&decoded))
}
