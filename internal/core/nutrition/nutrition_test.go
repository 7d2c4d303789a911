package nutrition

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"recipe-manager/internal/core/cache"
	"recipe-manager/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		line string
		want IngredientLine
	}{
		{"1 1/2 cups all-purpose flour", IngredientLine{1.5, "cups", "all-purpose flour", ""}},
		{"2 1/2 cups flour, sifted", IngredientLine{2.5, "cups", "flour", "sifted"}},
		{"½ cup milk", IngredientLine{0.5, "cup", "milk", ""}},
		{"3 chopped onions", IngredientLine{3, "each", "onions", "chopped"}},
		{"2 large eggs", IngredientLine{2, "large", "eggs", ""}},
		{"2 eggs", IngredientLine{2, "each", "eggs", ""}},
		{"- 2 tbsp. butter", IngredientLine{2, "tbsp.", "butter", ""}},
		{"1 fl oz cream", IngredientLine{1, "fl oz", "cream", ""}},
		{".5 tsp salt", IngredientLine{0.5, "tsp", "salt", ""}},
		{"salt, to taste", IngredientLine{1, "each", "salt", "to taste"}},
		{"minced garlic", IngredientLine{1, "each", "garlic", "minced"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIngredientLine(tt.line))
		})
	}
}

func TestResolveKey(t *testing.T) {
	tests := []struct {
		item string
		key  string
	}{
		{"all-purpose flour", "flour_all_purpose"},
		{"Brown Sugar", "sugar_brown"},
		{"unsalted butter", "butter"},
		{"peanut butter", "peanut_butter"},
		{"buttermilk", "buttermilk"},
		{"egg whites", "egg_white"},
		{"eggs", "egg"},
		{"eggplant", "eggplant"},
		{"salt and pepper", "salt"},
		{"rice vinegar", "vinegar"},
		{"JALAPEÑO", "jalapeno"},
		{"chicken broth", "stock_chicken"},
		{"boneless chicken breasts", "chicken_breast"},
	}
	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			got := ResolveKey(tt.item)
			assert.Equal(t, tt.key, got.Key)
			assert.Equal(t, 1.0, got.Confidence)
		})
	}
}

func TestResolveKeyTokenFallback(t *testing.T) {
	got := ResolveKey("whole wheat")
	assert.Equal(t, "flour_whole_wheat", got.Key)
	assert.Equal(t, minConfidence, got.Confidence)

	miss := ResolveKey("zzyzx gadget")
	assert.False(t, miss.Matched())
	assert.Zero(t, miss.Confidence)
	assert.Equal(t, "zzyzx", miss.Normalized)

	assert.Equal(t, Resolution{}, ResolveKey("   "))
}

func TestResolveKeyDeterministic(t *testing.T) {
	inputs := []string{"all-purpose flour", "whole wheat", "zzyzx gadget", "fresh basil leaves", "mystery goo"}
	for _, in := range inputs {
		first := ResolveKey(in)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, ResolveKey(in), in)
		}
	}
}

func TestEstimateGramsFlourExample(t *testing.T) {
	line := ParseIngredientLine("1 1/2 cups all-purpose flour")
	key := ResolveKey(line.Item).Key
	require.Equal(t, "flour_all_purpose", key)
	assert.InDelta(t, 180.0, EstimateGrams(key, line.Unit, line.Quantity), 1e-9)
}

func TestEstimateGrams(t *testing.T) {
	tests := []struct {
		name string
		key  string
		unit string
		qty  float64
		want float64
	}{
		{"grams", "", "g", 100, 100},
		{"kilograms", "flour_all_purpose", "kg", 1.5, 1500},
		{"pounds", "beef_ground", "lb", 1, 453.592},
		{"tablespoon density", "butter", "tbsp", 2, 227.0 / 8},
		{"teaspoon density", "salt", "tsp", 1, 292.0 / 48},
		{"capital T is tablespoon", "", "T", 1, 15},
		{"cup without density", "", "cup", 1, 240},
		{"each weight", "egg", "each", 3, 150},
		{"clove", "garlic", "cloves", 2, 6},
		{"generic each", "", "each", 2, 60},
		{"pinch", "", "pinch", 2, 1},
		{"bunch", "", "bunch", 1, 85},
		{"package without data", "", "can", 2, 0},
		{"unknown unit as ounces", "", "handful", 1, gramsPerOunce},
		{"negative quantity", "egg", "each", -1, 0},
		{"zero quantity", "egg", "each", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EstimateGrams(tt.key, tt.unit, tt.qty), 1e-9)
		})
	}
}

func TestEstimateGramsLinearAndNonNegative(t *testing.T) {
	units := []string{"g", "kg", "oz", "lb", "ml", "l", "fl oz", "cup", "tbsp", "tsp",
		"stick", "each", "clove", "pinch", "dash", "sprig", "bunch", "can", "handful"}
	keys := []string{"", "flour_all_purpose", "butter", "egg", "garlic", "salt", "water"}
	for _, u := range units {
		for _, k := range keys {
			for _, q := range []float64{0.25, 1, 3.5, 12} {
				one := EstimateGrams(k, u, q)
				two := EstimateGrams(k, u, 2*q)
				assert.GreaterOrEqual(t, one, 0.0)
				assert.InDelta(t, 2*one, two, 1e-9, "%s %s %v", k, u, q)
			}
		}
	}
}

func TestEstimate(t *testing.T) {
	res := Estimate(Request{
		Lines:      []string{"1 1/2 cups all-purpose flour", "2 eggs", "1 cup mystery goo", ""},
		Servings:   4,
		PrepMethod: "Baked at 180C",
	})

	require.Len(t, res.Breakdown, 3)
	require.Len(t, res.Unknown, 1)
	assert.Equal(t, "mystery", res.Unknown[0].Suggestion)

	assert.InDelta(t, 520.0, res.TotalWeight, 1e-9)
	assert.InDelta(t, 280.0, res.MatchedWeight, 1e-9)
	assert.InDelta(t, 280.0/520.0, res.Coverage, 1e-9)
	assert.Equal(t, 0.88, res.Breakdown[0].YieldFactor)

	wantCalories := 364*1.8*0.88 + 143*1.0*0.88
	assert.InDelta(t, wantCalories, res.Totals.Calories, 1e-6)

	quarter := res.Totals.Scale(0.25)
	assert.InDelta(t, quarter.Calories, res.PerServing.Calories, 1e-9)
	assert.InDelta(t, quarter.Protein, res.PerServing.Protein, 1e-9)
	assert.InDelta(t, quarter.Sodium, res.PerServing.Sodium, 1e-9)

	assert.InDelta(t, res.Totals.Calories/(res.CookedWeight/100), res.Per100g.Calories, 1e-9)
}

func TestEstimateYields(t *testing.T) {
	res := Estimate(Request{
		Lines:  []string{"100 g chicken breast", "1 tsp salt", "100 g potato"},
		Yields: []float64{50, 0, 0.7},
	})
	require.Len(t, res.Breakdown, 3)
	assert.Equal(t, 0.5, res.Breakdown[0].YieldFactor)
	assert.Equal(t, 1.0, res.Breakdown[1].YieldFactor, "spices keep their mass without an override")
	assert.Equal(t, 0.7, res.Breakdown[2].YieldFactor)
	assert.InDelta(t, 1.0, res.Coverage, 1e-9)

	assert.Equal(t, 0.95, Estimate(Request{Lines: []string{"1 potato"}, PrepMethod: "boiled"}).Breakdown[0].YieldFactor)
	assert.Equal(t, defaultYield, Estimate(Request{Lines: []string{"1 potato"}}).Breakdown[0].YieldFactor)
}

func TestEstimateYieldOverrideBeatsSpiceRule(t *testing.T) {
	res := Estimate(Request{
		Lines:  []string{"1 tsp salt", "1 cup flour"},
		Yields: []float64{0.5, 0.5},
	})
	require.Len(t, res.Breakdown, 2)
	assert.Equal(t, "salt", res.Breakdown[0].Key)
	assert.Equal(t, 0.5, res.Breakdown[0].YieldFactor)
	assert.Equal(t, 0.5, res.Breakdown[1].YieldFactor)

	res = Estimate(Request{Lines: []string{"1 tsp salt"}, Yields: []float64{0}, PrepMethod: "roast"})
	assert.Equal(t, 1.0, res.Breakdown[0].YieldFactor)
}

func TestEstimateZeroDenominators(t *testing.T) {
	res := Estimate(Request{})
	assert.Zero(t, res.Coverage)
	assert.Equal(t, Macros{}, res.PerServing)
	assert.Equal(t, Macros{}, res.Per100g)

	only := Estimate(Request{Lines: []string{"2 cans zzyzx"}, Servings: 0})
	assert.Zero(t, only.TotalWeight)
	assert.Zero(t, only.Coverage)
	assert.Equal(t, Macros{}, only.PerServing)
}

func TestEstimateCoverageBounds(t *testing.T) {
	batches := [][]string{
		{"1 cup sugar"},
		{"zzyzx"},
		{"1 cup sugar", "3 oz zzyzx", "2 pinch salt"},
		{"0 g flour"},
	}
	for _, lines := range batches {
		res := Estimate(Request{Lines: lines, Servings: 2})
		assert.GreaterOrEqual(t, res.Coverage, 0.0)
		assert.LessOrEqual(t, res.Coverage, 1.0)
	}
}

func TestParseServings(t *testing.T) {
	assert.Equal(t, 4, ParseServings("4"))
	assert.Equal(t, 4, ParseServings("4-6 servings"))
	assert.Equal(t, 8, ParseServings("Serves 8"))
	assert.Equal(t, 0, ParseServings("a crowd"))
}

func TestServiceCachesResults(t *testing.T) {
	mgr := cache.NewManager("nutrition", config.CacheConfig{
		Enabled:         true,
		MaxSize:         10,
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
	})
	defer mgr.Close()

	svc := NewService(mgr)
	req := Request{Lines: []string{"1 cup sugar", "2 eggs"}, Servings: 2}

	first, err := svc.Estimate(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Estimate(context.Background(), req)
	require.NoError(t, err)

	assert.InDelta(t, first.Totals.Calories, second.Totals.Calories, 1e-9)
	assert.Equal(t, int64(1), svc.Stats()["hits"])
}

func TestServiceWithoutCache(t *testing.T) {
	svc := NewService(nil)
	res, err := svc.Estimate(context.Background(), Request{Lines: []string{"1 cup sugar"}})
	require.NoError(t, err)
	assert.InDelta(t, 200.0, res.TotalWeight, 1e-9)

	_, err = svc.Estimate(context.Background(), Request{})
	assert.Error(t, err)
}

func TestEstimateServingsFromYield(t *testing.T) {
	lines := []string{"1 cup sugar"}

	res := Estimate(Request{Lines: lines, YieldQty: 4, YieldUnit: "Servings"})
	assert.Equal(t, 4, res.Servings)
	assert.InDelta(t, res.Totals.Calories/4, res.PerServing.Calories, 1e-9)

	res = Estimate(Request{Lines: lines, YieldQty: 2, YieldUnit: "loaves"})
	assert.Zero(t, res.Servings)

	res = Estimate(Request{Lines: lines, Servings: 3, YieldQty: 8})
	assert.Equal(t, 3, res.Servings)
}

func TestYieldQuantityUnmarshal(t *testing.T) {
	cases := []struct {
		body string
		want YieldQuantity
	}{
		{`{"yieldQty":4}`, 4},
		{`{"yieldQty":"4"}`, 4},
		{`{"yieldQty":"2.5"}`, 2.5},
		{`{"yieldQty":"4-6 servings"}`, 4},
		{`{"yieldQty":"a crowd"}`, 0},
		{`{"yieldQty":null}`, 0},
		{`{}`, 0},
	}
	for _, tc := range cases {
		var req Request
		require.NoError(t, json.Unmarshal([]byte(tc.body), &req), tc.body)
		assert.Equal(t, tc.want, req.YieldQty, tc.body)
	}

	var req Request
	assert.Error(t, json.Unmarshal([]byte(`{"yieldQty":true}`), &req))

	require.NoError(t, json.Unmarshal([]byte(`{"ingr":["1 cup sugar"],"yieldQty":"4","yieldUnit":"servings"}`), &req))
	assert.Equal(t, 4, Estimate(req).Servings)
}
