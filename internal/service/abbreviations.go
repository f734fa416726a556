package service

import (
	"sort"
	"strings"
)

// teamAbbreviations 赔率源球队全称 -> 投注分布源缩写
var teamAbbreviations = map[string]map[string]string{
	"nfl": {
		"Arizona Cardinals": "ARI", "Atlanta Falcons": "ATL", "Baltimore Ravens": "BAL",
		"Buffalo Bills": "BUF", "Carolina Panthers": "CAR", "Chicago Bears": "CHI",
		"Cincinnati Bengals": "CIN", "Cleveland Browns": "CLE", "Dallas Cowboys": "DAL",
		"Denver Broncos": "DEN", "Detroit Lions": "DET", "Green Bay Packers": "GB",
		"Houston Texans": "HOU", "Indianapolis Colts": "IND", "Jacksonville Jaguars": "JAX",
		"Kansas City Chiefs": "KC", "Las Vegas Raiders": "LV", "Los Angeles Chargers": "LAC",
		"Los Angeles Rams": "LAR", "Miami Dolphins": "MIA", "Minnesota Vikings": "MIN",
		"New England Patriots": "NE", "New Orleans Saints": "NO", "New York Giants": "NYG",
		"New York Jets": "NYJ", "Philadelphia Eagles": "PHI", "Pittsburgh Steelers": "PIT",
		"San Francisco 49ers": "SF", "Seattle Seahawks": "SEA", "Tampa Bay Buccaneers": "TB",
		"Tennessee Titans": "TEN", "Washington Commanders": "WAS",
	},
	"nba": {
		"Atlanta Hawks": "ATL", "Boston Celtics": "BOS", "Brooklyn Nets": "BKN",
		"Charlotte Hornets": "CHA", "Chicago Bulls": "CHI", "Cleveland Cavaliers": "CLE",
		"Dallas Mavericks": "DAL", "Denver Nuggets": "DEN", "Detroit Pistons": "DET",
		"Golden State Warriors": "GS", "Houston Rockets": "HOU", "Indiana Pacers": "IND",
		"Los Angeles Clippers": "LAC", "Los Angeles Lakers": "LAL", "Memphis Grizzlies": "MEM",
		"Miami Heat": "MIA", "Milwaukee Bucks": "MIL", "Minnesota Timberwolves": "MIN",
		"New Orleans Pelicans": "NO", "New York Knicks": "NY", "Oklahoma City Thunder": "OKC",
		"Orlando Magic": "ORL", "Philadelphia 76ers": "PHI", "Phoenix Suns": "PHO",
		"Portland Trail Blazers": "POR", "Sacramento Kings": "SAC", "San Antonio Spurs": "SA",
		"Toronto Raptors": "TOR", "Utah Jazz": "UTA", "Washington Wizards": "WAS",
	},
	"nhl": {
		"Anaheim Ducks": "ANA", "Boston Bruins": "BOS", "Buffalo Sabres": "BUF",
		"Calgary Flames": "CGY", "Carolina Hurricanes": "CAR", "Chicago Blackhawks": "CHI",
		"Colorado Avalanche": "COL", "Columbus Blue Jackets": "CBJ", "Dallas Stars": "DAL",
		"Detroit Red Wings": "DET", "Edmonton Oilers": "EDM", "Florida Panthers": "FLA",
		"Los Angeles Kings": "LA", "Minnesota Wild": "MIN", "Montréal Canadiens": "MON",
		"Montreal Canadiens": "MON", "Nashville Predators": "NSH", "New Jersey Devils": "NJ",
		"New York Islanders": "NYI", "New York Rangers": "NYR", "Ottawa Senators": "OTT",
		"Philadelphia Flyers": "PHI", "Pittsburgh Penguins": "PIT", "San Jose Sharks": "SJ",
		"Seattle Kraken": "SEA", "St Louis Blues": "STL", "St. Louis Blues": "STL",
		"Tampa Bay Lightning": "TB", "Toronto Maple Leafs": "TOR", "Utah Hockey Club": "UTA",
		"Utah Mammoth": "UTA", "Vancouver Canucks": "VAN", "Vegas Golden Knights": "VEG",
		"Washington Capitals": "WAS", "Winnipeg Jets": "WPG",
	},
}

// abbreviationAliases 同一球队在不同数据源的缩写差异，统一到左边的写法
var abbreviationAliases = map[string]map[string]string{
	"nfl": {"JAC": "JAX", "WSH": "WAS", "LA": "LAR"},
	"nba": {"GSW": "GS", "PHX": "PHO", "NOP": "NO", "NYK": "NY", "SAS": "SA", "BRK": "BKN", "UTAH": "UTA"},
	"nhl": {"LAK": "LA", "NJD": "NJ", "SJS": "SJ", "TBL": "TB", "MTL": "MON", "VGK": "VEG", "WSH": "WAS"},
}

// NormalizeAbbreviation 大写并统一别名
func NormalizeAbbreviation(sport, abbr string) string {
	a := strings.ToUpper(strings.TrimSpace(abbr))
	if alias, ok := abbreviationAliases[sport][a]; ok {
		return alias
	}
	return a
}

// LookupAbbreviation 静态表查缩写
func LookupAbbreviation(sport, fullName string) (string, bool) {
	abbr, ok := teamAbbreviations[sport][strings.TrimSpace(fullName)]
	return abbr, ok
}

// fullNames 缩写 -> 全称，同一缩写有多个写法时取字典序最小的
var fullNames = make(map[string]map[string]string)

func init() {
	for sport, table := range teamAbbreviations {
		names := make([]string, 0, len(table))
		for name := range table {
			names = append(names, name)
		}
		sort.Strings(names)
		reverse := make(map[string]string, len(names))
		for _, name := range names {
			if _, ok := reverse[table[name]]; !ok {
				reverse[table[name]] = name
			}
		}
		fullNames[sport] = reverse
	}
}

// LookupFullName 静态表反查全称（投注分布源未给全称时使用）
func LookupFullName(sport, abbr string) (string, bool) {
	name, ok := fullNames[sport][abbr]
	return name, ok
}
