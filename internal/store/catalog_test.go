package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/apiquery/internal/definition"
	"github.com/roach88/apiquery/internal/query"
	"github.com/roach88/apiquery/internal/queryir"
)

func intPtr(n int) *int { return &n }

func cheesy() definition.Definition {
	return definition.Definition{
		Name:    "cheesy",
		Model:   "pizza",
		Include: []string{"toppings"},
		Fields:  []string{"name", "ratings"},
		Filters: []definition.Filter{
			{Key: "name", Value: "macaroni"},
			{Key: "size", Value: 12},
			{Key: "topping", In: []any{"cheese", "beef"}},
		},
		Sort:   definition.Sorts{{Field: "name", Direction: queryir.Desc}},
		Page:   intPtr(2),
		Params: definition.Params{{Key: "format", Value: "basic"}, {Key: "ratio", Value: 1.5}},
	}
}

func TestSave_RoundTripRendersIdentically(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	cfg := query.Config{
		BaseURL:         "https://api.example.com",
		QueryParameters: query.ParameterOverrides{Includes: "with"},
	}
	def := cheesy()

	want, err := def.Render(cfg)
	require.NoError(t, err)

	saved, err := s.Save(ctx, cfg, def)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 1, saved.Revision)
	assert.Equal(t, cfg, saved.Config)

	got, err := s.Get(ctx, "cheesy")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)

	url, err := got.Render()
	require.NoError(t, err)
	assert.Equal(t, want, url)
	assert.Equal(t, "https://api.example.com/pizza?with=toppings&fields[pizza]=name,ratings&filter[name]=macaroni&filter[size]=12&filter[topping]=cheese,beef&sort=-name&page=2&format=basic&ratio=1.5", url)
}

func TestSave_UpsertKeepsID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, query.Config{}, cheesy())
	require.NoError(t, err)

	changed := cheesy()
	changed.Model = "calzone"
	second, err := s.Save(ctx, query.Config{}, changed)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Revision)
	assert.Equal(t, "calzone", second.Definition.Model)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSave_RequiresName(t *testing.T) {
	s := createTestStore(t)
	_, err := s.Save(context.Background(), query.Config{}, definition.Definition{Model: "pizza"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestNames_AreNFCNormalized(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	decomposed := "cafe\u0301"
	precomposed := "caf\u00e9"

	_, err := s.Save(ctx, query.Config{}, definition.Definition{Name: decomposed, Model: "drinks"})
	require.NoError(t, err)

	rec, err := s.Get(ctx, precomposed)
	require.NoError(t, err)
	assert.Equal(t, precomposed, rec.Name)
	assert.Equal(t, precomposed, rec.Definition.Name)

	require.NoError(t, s.Delete(ctx, decomposed))
}

func TestList_OrderedByBinaryName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"banana", "Zebra", "apple", "_under"} {
		_, err := s.Save(ctx, query.Config{}, definition.Definition{Name: name, Model: "fruit"})
		require.NoError(t, err)
	}

	records, err := s.List(ctx)
	require.NoError(t, err)

	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Zebra", "_under", "apple", "banana"}, names)
}

func TestList_Empty(t *testing.T) {
	s := createTestStore(t)
	records, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestListByModel(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, d := range []definition.Definition{
		{Name: "b", Model: "pizza"},
		{Name: "a", Model: "soda"},
		{Name: "a2", Model: "pizza"},
	} {
		_, err := s.Save(ctx, query.Config{}, d)
		require.NoError(t, err)
	}

	records, err := s.ListByModel(ctx, "pizza")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a2", records[0].Name)
	assert.Equal(t, "b", records[1].Name)
}

func TestGetAndDelete_NotFound(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Save(ctx, query.Config{}, cheesy())
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "cheesy"))

	_, err = s.Get(ctx, "cheesy")
	assert.ErrorIs(t, err, ErrNotFound)
}
