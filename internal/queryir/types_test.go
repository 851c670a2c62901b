package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSort_Token(t *testing.T) {
	testCases := []struct {
		name string
		sort Sort
		want string
	}{
		{name: "desc", sort: Sort{Field: "name", Direction: Desc}, want: "-name"},
		{name: "asc", sort: Sort{Field: "name", Direction: Asc}, want: "name"},
		{name: "empty direction is asc", sort: Sort{Field: "flavour"}, want: "flavour"},
		{name: "unknown direction is asc", sort: Sort{Field: "flavour", Direction: "sideways"}, want: "flavour"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.sort.Token())
		})
	}
}

func TestParseSort(t *testing.T) {
	sorts := ParseSort("-name, flavour,,+price")

	require.Len(t, sorts, 3)
	assert.Equal(t, Sort{Field: "name", Direction: Desc}, sorts[0])
	assert.Equal(t, Sort{Field: "flavour", Direction: Asc}, sorts[1])
	assert.Equal(t, Sort{Field: "price", Direction: Asc}, sorts[2])
}

func TestParseSort_Empty(t *testing.T) {
	assert.Empty(t, ParseSort(""))
	assert.Empty(t, ParseSort(" , "))
}

func TestDefaultParameterNames(t *testing.T) {
	names := DefaultParameterNames()

	assert.Equal(t, "filter", names.Filters)
	assert.Equal(t, "fields", names.Fields)
	assert.Equal(t, "include", names.Includes)
	assert.Equal(t, "append", names.Appends)
	assert.Equal(t, "page", names.Page)
	assert.Equal(t, "limit", names.Limit)
	assert.Equal(t, "sort", names.Sort)
}

func TestIntent_SetFilterKeepsFirstPosition(t *testing.T) {
	var in Intent
	in.SetFilter("name", "margherita")
	in.SetFilter("topping", "cheese")
	in.SetFilter("name", "meatlovers")

	assert.Equal(t, []Pair{
		{Key: "name", Value: "meatlovers"},
		{Key: "topping", Value: "cheese"},
	}, in.Filters)

	v, ok := in.Filter("name")
	assert.True(t, ok)
	assert.Equal(t, "meatlovers", v)

	_, ok = in.Filter("crust")
	assert.False(t, ok)
}

func TestIntent_CloneIsDeep(t *testing.T) {
	page, limit := 2, 5
	in := Intent{
		Model:   "pizza",
		Include: []string{"toppings"},
		Fields:  []string{"name"},
		Filters: []Pair{{Key: "name", Value: "cheese"}},
		Sorts:   []Sort{{Field: "name"}},
		Page:    &page,
		Limit:   &limit,
		Params:  []Pair{{Key: "format", Value: "admin"}},
	}

	out := in.Clone()
	out.Include[0] = "crust"
	out.Fields[0] = "price"
	out.SetFilter("name", "beef")
	out.Sorts[0].Direction = Desc
	*out.Page = 9
	*out.Limit = 9
	out.Params[0].Value = "basic"

	assert.Equal(t, "toppings", in.Include[0])
	assert.Equal(t, "name", in.Fields[0])
	assert.Equal(t, "cheese", in.Filters[0].Value)
	assert.Equal(t, Direction(""), in.Sorts[0].Direction)
	assert.Equal(t, 2, *in.Page)
	assert.Equal(t, 5, *in.Limit)
	assert.Equal(t, "admin", in.Params[0].Value)
}

func TestIntent_ClonePreservesNilParams(t *testing.T) {
	assert.Nil(t, Intent{}.Clone().Params)
	assert.NotNil(t, Intent{Params: []Pair{}}.Clone().Params)
}
