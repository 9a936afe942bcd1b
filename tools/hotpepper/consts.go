package hotpepper

// genreCodes maps cuisine names to HotPepper genre codes. Several aliases
// share a code on purpose.
var genreCodes = map[string]string{
	"居酒屋":         "G001",
	"ダイニングバー・バル":  "G002",
	"創作料理":        "G003",
	"アジア・エスニック料理": "G004",
	"イタリアン・フレンチ":  "G005",
	"中華":          "G006",
	"焼肉・ホルモン":     "G007",
	"和食":          "G008",
	"洋食":          "G009",
	"カフェ・スイーツ":    "G010",
	"その他グルメ":      "G011",
	"韓国料理":        "G012",
	"イタリアン":       "G005",
	"フレンチ":        "G005",
	"エスニック":       "G004",
	"アジア料理":       "G004",
	"焼肉":          "G007",
	"ホルモン":        "G007",
	"カフェ":         "G010",
	"スイーツ":        "G010",
	"ラーメン":        "G011",
	"バー":          "G002",
}

// budgetCodes maps budget range phrases to HotPepper budget codes, checked
// by substring so "3000円以下で" still matches.
var budgetCodes = []struct {
	Phrase string
	Code   string
}{
	{"500円以下", "B009"},
	{"501～1000円", "B010"},
	{"1001～1500円", "B011"},
	{"1501～2000円", "B001"},
	{"2001～3000円", "B002"},
	{"3001～4000円", "B003"},
	{"4001～5000円", "B008"},
	{"5001～7000円", "B004"},
	{"7001～10000円", "B005"},
	{"10001～15000円", "B006"},
	{"15001～20000円", "B012"},
	{"20001～30000円", "B013"},
	{"30001円以上", "B014"},
	{"3000円以下", "B002"},
	{"5000円以下", "B008"},
	{"10000円以下", "B005"},
}

const (
	// NoRating is the sentinel used when the provider reports no rating.
	NoRating = "評価なし"
	// NoBudget is the sentinel used when the provider reports no budget.
	NoBudget = "価格要問合せ"
)

// Search method tags distinguish how the area scope was obtained.
const (
	MethodStaticMapping  = "static_mapping"
	MethodDynamicLarge   = "dynamic_large_area"
	MethodDynamicMiddle  = "dynamic_middle_area"
	MethodDynamicPartial = "dynamic_partial_match"
	MethodKeyword        = "keyword_search"
	MethodKeywordFall    = "keyword_fallback"
	MethodSynthetic      = "synthetic"
)
