package agents

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Sentinels the primary restaurant provider uses for missing fields.
const (
	noRatingSentinel = "評価なし"
	noBudgetSentinel = "価格要問合せ"
)

// MergeRestaurants combines records from the primary restaurant provider
// with place-search records. For each primary record the first secondary
// record whose name or address substring-matches (case-sensitive, either
// direction) is folded in: rating and budget are filled only when the
// primary's are missing or sentinel values, while the secondary's rating,
// price level and maps URL are always attached as side-channel fields.
// Secondary records matching no primary name are appended unchanged. Order:
// primary records first in their original order, then leftovers in secondary
// order.
func MergeRestaurants(primary, secondary []Record) []Record {
	merged := make([]Record, 0, len(primary)+len(secondary))
	consumed := make([]bool, len(secondary))
	for _, p := range primary {
		out := cloneRecord(p)
		for i, s := range secondary {
			// A secondary record merges into at most one primary record.
			if consumed[i] || !matchRestaurant(p, s) {
				continue
			}
			consumed[i] = true
			if isMissing(stringField(out, "rating"), noRatingSentinel) {
				if v, ok := s["rating"]; ok {
					out["rating"] = v
				}
			}
			if isMissing(stringField(out, "budget"), noBudgetSentinel) {
				if v, ok := s["budget"]; ok {
					out["budget"] = v
				} else if v, ok := s["price_level"]; ok {
					out["budget"] = v
				}
			}
			if v, ok := s["rating"]; ok {
				out["google_rating"] = v
			}
			if v, ok := s["price_level"]; ok {
				out["google_price_level"] = v
			}
			if v, ok := s["maps_url"]; ok {
				out["google_maps_url"] = v
			}
			break
		}
		merged = append(merged, out)
	}
	for i, s := range secondary {
		if consumed[i] {
			continue
		}
		name := stringField(s, "name")
		if name != "" && nameInSet(name, primary) {
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// matchRestaurant applies the loose bidirectional substring identity on name
// or address. Deliberately unscored; the first match wins.
func matchRestaurant(a, b Record) bool {
	if containsEither(stringField(a, "name"), stringField(b, "name")) {
		return true
	}
	return containsEither(stringField(a, "address"), stringField(b, "address"))
}

func containsEither(x, y string) bool {
	if x == "" || y == "" {
		return false
	}
	return strings.Contains(x, y) || strings.Contains(y, x)
}

func nameInSet(name string, records []Record) bool {
	for _, r := range records {
		if containsEither(name, stringField(r, "name")) {
			return true
		}
	}
	return false
}

func isMissing(v, sentinel string) bool {
	return v == "" || v == sentinel
}

func stringField(r Record, key string) string {
	s, _ := r[key].(string)
	return s
}

func cloneRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ScoreRestaurants orders records for display: rating minus a price-level
// penalty, highest first. The merge output itself stays unsorted; this is a
// presentation concern.
func ScoreRestaurants(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return restaurantScore(out[i]) > restaurantScore(out[j])
	})
	return out
}

func restaurantScore(r Record) float64 {
	score := numericField(r, "google_rating")
	if score == 0 {
		score = numericField(r, "rating")
	}
	return score - 0.1*numericField(r, "google_price_level")
}

func numericField(r Record, key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

var budgetCeilingRe = regexp.MustCompile(`(\d+)円以下`)

// ParseBudgetCeiling reads the upper bound out of a 3000円以下-style phrase.
// Returns 0 when no ceiling is present.
func ParseBudgetCeiling(budget string) int {
	m := budgetCeilingRe.FindStringSubmatch(budget)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
