package config

// Region groups cantons under a geographic description
type Region struct {
	Name    string   `json:"name"`
	Cantons []string `json:"cantons"`
}

// Regions maps geographic regions to the canton names they contain, in
// every spelling a caller is likely to use.
var Regions = []Region{
	{Name: "Northern Switzerland", Cantons: []string{"Zürich", "Zurich", "Schaffhausen"}},
	{Name: "Western Switzerland", Cantons: []string{"Geneva", "Genève", "Vaud", "Neuchâtel", "Jura", "Fribourg", "Freiburg", "Valais", "Wallis"}},
	{Name: "Northwestern Switzerland", Cantons: []string{"Basel-Stadt", "Basel-Landschaft", "Aargau", "Solothurn"}},
	{Name: "Central Switzerland", Cantons: []string{"Bern", "Lucerne", "Luzern", "Uri", "Schwyz", "Obwalden", "Nidwalden", "Zug"}},
	{Name: "Eastern Switzerland", Cantons: []string{"St. Gallen", "Thurgau", "Appenzell Ausserrhoden", "Appenzell Innerrhoden", "Glarus", "Graubünden", "Grisons", "Grigioni", "Grischun"}},
	{Name: "Southern Switzerland", Cantons: []string{"Ticino"}},
}

// CantonLanguages maps canton codes to their official languages
var CantonLanguages = map[string][]string{
	"AG": {"German"},
	"AR": {"German"},
	"AI": {"German"},
	"BL": {"German"},
	"BS": {"German"},
	"BE": {"German", "French"},
	"FR": {"French", "German"},
	"GE": {"French"},
	"GL": {"German"},
	"GR": {"German", "Romansh", "Italian"},
	"JU": {"French"},
	"LU": {"German"},
	"NE": {"French"},
	"NW": {"German"},
	"OW": {"German"},
	"SH": {"German"},
	"SZ": {"German"},
	"SO": {"German"},
	"SG": {"German"},
	"TG": {"German"},
	"TI": {"Italian"},
	"UR": {"German"},
	"VS": {"French", "German"},
	"VD": {"French"},
	"ZG": {"German"},
	"ZH": {"German"},
}
