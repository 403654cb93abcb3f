package canonical

import "strings"

// Nationality is an ISO-3166-1 alpha-3 country code together with the raw
// alias that matched, kept for audit logging.
type Nationality struct {
	Code  string
	Alias string
}

// nationalityAliases covers the countries that actually appear in the
// leagues this system ingests: ISO-3 codes, English names, demonyms and the
// Hebrew spellings used by the Winner League feed. Keys are lower-cased.
var nationalityAliases = map[string]string{
	"isr": "ISR", "israel": "ISR", "israeli": "ISR", "ישראל": "ISR", "ישראלי": "ISR",
	"usa": "USA", "united states": "USA", "american": "USA", "ארהב": "USA", `ארה"ב`: "USA",
	"esp": "ESP", "spain": "ESP", "spanish": "ESP", "ספרד": "ESP",
	"fra": "FRA", "france": "FRA", "french": "FRA", "צרפת": "FRA",
	"grc": "GRC", "gre": "GRC", "greece": "GRC", "greek": "GRC", "יוון": "GRC",
	"ita": "ITA", "italy": "ITA", "italian": "ITA", "איטליה": "ITA",
	"deu": "DEU", "ger": "DEU", "germany": "DEU", "german": "DEU", "גרמניה": "DEU",
	"tur": "TUR", "turkey": "TUR", "turkiye": "TUR", "turkish": "TUR", "טורקיה": "TUR",
	"srb": "SRB", "serbia": "SRB", "serbian": "SRB", "סרביה": "SRB",
	"hrv": "HRV", "cro": "HRV", "croatia": "HRV", "croatian": "HRV", "קרואטיה": "HRV",
	"svn": "SVN", "slo": "SVN", "slovenia": "SVN", "slovenian": "SVN", "סלובניה": "SVN",
	"ltu": "LTU", "lithuania": "LTU", "lithuanian": "LTU", "ליטא": "LTU",
	"lva": "LVA", "lat": "LVA", "latvia": "LVA", "latvian": "LVA", "לטביה": "LVA",
	"est": "EST", "estonia": "EST", "estonian": "EST",
	"rus": "RUS", "russia": "RUS", "russian": "RUS", "רוסיה": "RUS",
	"ukr": "UKR", "ukraine": "UKR", "ukrainian": "UKR", "אוקראינה": "UKR",
	"pol": "POL", "poland": "POL", "polish": "POL", "פולין": "POL",
	"cze": "CZE", "czechia": "CZE", "czech republic": "CZE", "czech": "CZE",
	"mne": "MNE", "montenegro": "MNE", "montenegrin": "MNE", "מונטנגרו": "MNE",
	"bih": "BIH", "bosnia": "BIH", "bosnia and herzegovina": "BIH", "bosnian": "BIH",
	"mkd": "MKD", "north macedonia": "MKD", "macedonian": "MKD",
	"bgr": "BGR", "bul": "BGR", "bulgaria": "BGR", "bulgarian": "BGR",
	"rou": "ROU", "romania": "ROU", "romanian": "ROU",
	"hun": "HUN", "hungary": "HUN", "hungarian": "HUN",
	"aut": "AUT", "austria": "AUT", "austrian": "AUT",
	"che": "CHE", "sui": "CHE", "switzerland": "CHE", "swiss": "CHE",
	"bel": "BEL", "belgium": "BEL", "belgian": "BEL",
	"nld": "NLD", "ned": "NLD", "netherlands": "NLD", "dutch": "NLD",
	"gbr": "GBR", "united kingdom": "GBR", "great britain": "GBR", "british": "GBR",
	"irl": "IRL", "ireland": "IRL", "irish": "IRL",
	"prt": "PRT", "por": "PRT", "portugal": "PRT", "portuguese": "PRT",
	"fin": "FIN", "finland": "FIN", "finnish": "FIN",
	"swe": "SWE", "sweden": "SWE", "swedish": "SWE",
	"dnk": "DNK", "den": "DNK", "denmark": "DNK", "danish": "DNK",
	"nor": "NOR", "norway": "NOR", "norwegian": "NOR",
	"isl": "ISL", "iceland": "ISL", "icelandic": "ISL",
	"geo": "GEO", "georgia": "GEO", "georgian": "GEO", "גאורגיה": "GEO",
	"can": "CAN", "canada": "CAN", "canadian": "CAN", "קנדה": "CAN",
	"mex": "MEX", "mexico": "MEX", "mexican": "MEX",
	"bra": "BRA", "brazil": "BRA", "brazilian": "BRA", "ברזיל": "BRA",
	"arg": "ARG", "argentina": "ARG", "argentine": "ARG", "argentinian": "ARG", "ארגנטינה": "ARG",
	"aus": "AUS", "australia": "AUS", "australian": "AUS", "אוסטרליה": "AUS",
	"nzl": "NZL", "new zealand": "NZL",
	"nga": "NGA", "nigeria": "NGA", "nigerian": "NGA", "ניגריה": "NGA",
	"sen": "SEN", "senegal": "SEN", "senegalese": "SEN",
	"cmr": "CMR", "cameroon": "CMR", "cameroonian": "CMR",
	"civ": "CIV", "ivory coast": "CIV", "cote d'ivoire": "CIV", "ivorian": "CIV",
	"ago": "AGO", "angola": "AGO", "angolan": "AGO",
	"jpn": "JPN", "japan": "JPN", "japanese": "JPN",
	"chn": "CHN", "china": "CHN", "chinese": "CHN",
	"phl": "PHL", "philippines": "PHL", "filipino": "PHL",
	"dom": "DOM", "dominican republic": "DOM", "dominican": "DOM",
	"pri": "PRI", "puerto rico": "PRI", "puerto rican": "PRI",
}

// ParseNationality resolves a raw country/demonym token to its ISO-3 code.
func ParseNationality(raw string) (Nationality, bool) {
	alias := strings.TrimSpace(raw)
	key := strings.ToLower(alias)
	if key == "" {
		return Nationality{}, false
	}
	code, ok := nationalityAliases[key]
	if !ok {
		return Nationality{}, false
	}
	return Nationality{Code: code, Alias: alias}, true
}
