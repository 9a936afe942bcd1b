package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeExactNameMatch(t *testing.T) {
	primary := []Record{
		{"name": "Restaurant X", "cuisine": "イタリアン", "rating": "評価なし", "budget": "3000円"},
	}
	secondary := []Record{
		{"name": "Restaurant X", "rating": 4.2, "price_level": 2, "maps_url": "https://maps.example/x"},
	}
	merged := MergeRestaurants(primary, secondary)
	require.Len(t, merged, 1)
	out := merged[0]
	assert.Equal(t, 4.2, out["rating"])
	assert.Equal(t, "3000円", out["budget"])
	assert.Equal(t, 4.2, out["google_rating"])
	assert.Equal(t, 2, out["google_price_level"])
	assert.Equal(t, "https://maps.example/x", out["google_maps_url"])
}

func TestMergeKeepsExistingRating(t *testing.T) {
	primary := []Record{
		{"name": "すし処 さくら", "rating": "4.5", "budget": "価格要問合せ"},
	}
	secondary := []Record{
		{"name": "さくら", "rating": 3.9, "price_level": 3, "maps_url": "u"},
	}
	merged := MergeRestaurants(primary, secondary)
	require.Len(t, merged, 1)
	assert.Equal(t, "4.5", merged[0]["rating"])
	assert.Equal(t, 3, merged[0]["budget"])
	assert.Equal(t, 3.9, merged[0]["google_rating"])
}

func TestMergeAddressMatch(t *testing.T) {
	primary := []Record{
		{"name": "店A", "address": "東京都渋谷区道玄坂1-2-3"},
	}
	secondary := []Record{
		{"name": "まったく別の名前", "address": "渋谷区道玄坂1-2-3", "rating": 4.0, "maps_url": "u"},
	}
	merged := MergeRestaurants(primary, secondary)
	require.Len(t, merged, 1)
	assert.Equal(t, "u", merged[0]["google_maps_url"])
}

func TestMergeLeftoversAppended(t *testing.T) {
	primary := []Record{
		{"name": "店A"},
	}
	secondary := []Record{
		{"name": "店A", "rating": 4.0, "maps_url": "u"},
		{"name": "独立した店", "rating": 3.5, "maps_url": "v"},
	}
	merged := MergeRestaurants(primary, secondary)
	require.Len(t, merged, 2)
	assert.Equal(t, "店A", merged[0]["name"])
	assert.Equal(t, "独立した店", merged[1]["name"])
}

func TestMergeSecondaryConsumedOnce(t *testing.T) {
	primary := []Record{
		{"name": "店A"},
		{"name": "店A 支店"},
	}
	secondary := []Record{
		{"name": "店A", "rating": 4.0, "maps_url": "u"},
	}
	merged := MergeRestaurants(primary, secondary)
	require.Len(t, merged, 2)
	assert.Equal(t, "u", merged[0]["google_maps_url"])
	assert.NotContains(t, merged[1], "google_maps_url")
}

func TestMergeIdempotentWithEmptySecondary(t *testing.T) {
	primary := []Record{
		{"name": "店A", "rating": "評価なし"},
	}
	secondary := []Record{
		{"name": "店A", "rating": 4.2, "maps_url": "u"},
	}
	once := MergeRestaurants(primary, secondary)
	twice := MergeRestaurants(once, nil)
	assert.Equal(t, once, twice)
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	primary := []Record{
		{"name": "店A", "rating": "評価なし"},
	}
	secondary := []Record{
		{"name": "店A", "rating": 4.2, "maps_url": "u"},
	}
	MergeRestaurants(primary, secondary)
	assert.Equal(t, "評価なし", primary[0]["rating"])
}

func TestScoreRestaurants(t *testing.T) {
	records := []Record{
		{"name": "安くて普通", "google_rating": 3.8, "google_price_level": 1},
		{"name": "高くて最高", "google_rating": 4.6, "google_price_level": 4},
		{"name": "普通で普通", "google_rating": 4.0, "google_price_level": 2},
	}
	ranked := ScoreRestaurants(records)
	require.Len(t, ranked, 3)
	assert.Equal(t, "高くて最高", ranked[0]["name"])
	assert.Equal(t, "普通で普通", ranked[1]["name"])
	assert.Equal(t, "安くて普通", ranked[2]["name"])
	// 入力の順序は変えない
	assert.Equal(t, "安くて普通", records[0]["name"])
}

func TestParseBudgetCeiling(t *testing.T) {
	assert.Equal(t, 3000, ParseBudgetCeiling("3000円以下"))
	assert.Equal(t, 5000, ParseBudgetCeiling("だいたい5000円以下で"))
	assert.Equal(t, 0, ParseBudgetCeiling("2000～3000円"))
	assert.Equal(t, 0, ParseBudgetCeiling(""))
}
