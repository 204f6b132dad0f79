package cantons

func en(name string) []Translation {
	return []Translation{{Language: "en", Name: name}}
}

var cantonTable = []Canton{
	{Code: "AG", Names: en("Aargau")},
	{Code: "AR", Names: en("Appenzell Ausserrhoden")},
	{Code: "AI", Names: en("Appenzell Innerrhoden")},
	{Code: "BL", Names: en("Basel-Landschaft")},
	{Code: "BS", Names: en("Basel-Stadt")},
	{Code: "BE", Names: en("Bern")},
	{Code: "FR", Names: []Translation{{"de", "Freiburg"}, {"fr", "Fribourg"}}},
	{Code: "GE", Names: []Translation{{"fr", "Genève"}, {"en", "Geneva"}}},
	{Code: "GL", Names: en("Glarus")},
	{Code: "GR", Names: []Translation{{"de", "Graubünden"}, {"it", "Grigioni"}, {"rm", "Grischun"}, {"en", "Grisons"}}},
	{Code: "JU", Names: en("Jura")},
	{Code: "LU", Names: []Translation{{"de", "Luzern"}, {"en", "Lucerne"}}},
	{Code: "NE", Names: en("Neuchâtel")},
	{Code: "NW", Names: en("Nidwalden")},
	{Code: "OW", Names: en("Obwalden")},
	{Code: "SH", Names: en("Schaffhausen")},
	{Code: "SZ", Names: en("Schwyz")},
	{Code: "SO", Names: en("Solothurn")},
	{Code: "SG", Names: en("St. Gallen")},
	{Code: "TG", Names: en("Thurgau")},
	{Code: "TI", Names: en("Ticino")},
	{Code: "UR", Names: en("Uri")},
	{Code: "VS", Names: []Translation{{"de", "Wallis"}, {"fr", "Valais"}}},
	{Code: "VD", Names: en("Vaud")},
	{Code: "ZG", Names: en("Zug")},
	{Code: "ZH", Names: []Translation{{"de", "Zürich"}, {"en", "Zurich"}}},
}
