package areacode

// seedLargeAreas maps prefecture-level names to HotPepper large-area codes.
var seedLargeAreas = map[string]string{
	"東京":  "Z011",
	"神奈川": "Z012",
	"埼玉":  "Z013",
	"千葉":  "Z014",
	"茨城":  "Z015",
	"栃木":  "Z016",
	"群馬":  "Z017",
	"山梨":  "Z018",
	"新潟":  "Z019",
	"長野":  "Z020",
	"富山":  "Z021",
	"石川":  "Z022",
	"福井":  "Z023",
	"静岡":  "Z024",
	"愛知":  "Z025",
	"三重":  "Z026",
	"岐阜":  "Z027",
	"滋賀":  "Z028",
	"京都":  "Z029",
	"大阪":  "Z030",
	"兵庫":  "Z031",
	"奈良":  "Z032",
	"和歌山": "Z033",
	"鳥取":  "Z034",
	"島根":  "Z035",
	"岡山":  "Z036",
	"広島":  "Z037",
	"山口":  "Z038",
	"徳島":  "Z039",
	"香川":  "Z040",
	"愛媛":  "Z041",
	"高知":  "Z042",
	"福岡":  "Z043",
	"佐賀":  "Z044",
	"長崎":  "Z045",
	"熊本":  "Z046",
	"大分":  "Z047",
	"宮崎":  "Z048",
	"鹿児島": "Z049",
	"沖縄":  "Z050",
}

// seedMiddleAreas maps Tokyo-area neighborhood names to middle-area codes.
var seedMiddleAreas = map[string]string{
	"渋谷":   "Z011001",
	"新宿":   "Z011002",
	"池袋":   "Z011003",
	"銀座":   "Z011004",
	"六本木":  "Z011005",
	"原宿":   "Z011006",
	"青山":   "Z011007",
	"表参道":  "Z011008",
	"恵比寿":  "Z011009",
	"代官山":  "Z011010",
	"中目黒":  "Z011011",
	"目黒":   "Z011012",
	"五反田":  "Z011013",
	"品川":   "Z011014",
	"大井町":  "Z011015",
	"蒲田":   "Z011016",
	"大森":   "Z011018",
	"上野":   "Z011021",
	"浅草":   "Z011022",
	"秋葉原":  "Z011023",
	"御徒町":  "Z011024",
	"日暮里":  "Z011025",
	"巣鴨":   "Z011029",
	"大塚":   "Z011030",
	"目白":   "Z011032",
	"高田馬場": "Z011033",
	"新大久保": "Z011035",
	"早稲田":  "Z011037",
	"神楽坂":  "Z011038",
	"飯田橋":  "Z011039",
	"市ヶ谷":  "Z011040",
	"四ツ谷":  "Z011041",
	"西新宿":  "Z011045",
	"中野":   "Z011046",
	"高円寺":  "Z011047",
	"阿佐ヶ谷": "Z011048",
	"荻窪":   "Z011049",
	"西荻窪":  "Z011050",
	"吉祥寺":  "Z011051",
	"三鷹":   "Z011052",
	"国分寺":  "Z011056",
	"立川":   "Z011058",
	"八王子":  "Z011059",
	"町田":   "Z011060",
	"府中":   "Z011062",
	"調布":   "Z011063",
}
