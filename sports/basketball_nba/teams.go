package basketball_nba

import (
	"fmt"
	"regexp"
	"strings"
)

// Team codes follow basketball-reference (BRK, CHO, PHO).
var nbaTeamCodes = map[string]string{
	"Atlanta Hawks":          "ATL",
	"Boston Celtics":         "BOS",
	"Brooklyn Nets":          "BRK",
	"Charlotte Hornets":      "CHO",
	"Chicago Bulls":          "CHI",
	"Cleveland Cavaliers":    "CLE",
	"Dallas Mavericks":       "DAL",
	"Denver Nuggets":         "DEN",
	"Detroit Pistons":        "DET",
	"Golden State Warriors":  "GSW",
	"Houston Rockets":        "HOU",
	"Indiana Pacers":         "IND",
	"Los Angeles Clippers":   "LAC",
	"Los Angeles Lakers":     "LAL",
	"Memphis Grizzlies":      "MEM",
	"Miami Heat":             "MIA",
	"Milwaukee Bucks":        "MIL",
	"Minnesota Timberwolves": "MIN",
	"New Orleans Pelicans":   "NOP",
	"New York Knicks":        "NYK",
	"Oklahoma City Thunder":  "OKC",
	"Orlando Magic":          "ORL",
	"Philadelphia 76ers":     "PHI",
	"Phoenix Suns":           "PHO",
	"Portland Trail Blazers": "POR",
	"Sacramento Kings":       "SAC",
	"San Antonio Spurs":      "SAS",
	"Toronto Raptors":        "TOR",
	"Utah Jazz":              "UTA",
	"Washington Wizards":     "WAS",
}

// Codes other sites use for the same franchises
var teamCodeAliases = map[string]string{
	"BKN":  "BRK",
	"CHA":  "CHO",
	"PHX":  "PHO",
	"GS":   "GSW",
	"NY":   "NYK",
	"SA":   "SAS",
	"NO":   "NOP",
	"UTAH": "UTA",
	"WSH":  "WAS",
}

// Reverse and nickname mappings for lookups
var (
	nbaCodeToName   = map[string]string{}
	nbaNicknameCode = map[string]string{}
)

func init() {
	for name, code := range nbaTeamCodes {
		nbaCodeToName[code] = name
		nick := name[strings.LastIndex(name, " ")+1:]
		nbaNicknameCode[strings.ToLower(nick)] = code
	}
	nbaNicknameCode["trail blazers"] = "POR"
	nbaNicknameCode["sixers"] = "PHI"
	nbaNicknameCode["wolves"] = "MIN"
	nbaNicknameCode["cavs"] = "CLE"
	nbaNicknameCode["mavs"] = "DAL"
}

// GetTeamCode returns the team code for a full name, nickname or alternate code.
// The second return value is false when the name is not recognised.
func GetTeamCode(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if code, ok := nbaTeamCodes[name]; ok {
		return code, true
	}

	upper := strings.ToUpper(name)
	if _, ok := nbaCodeToName[upper]; ok {
		return upper, true
	}
	if code, ok := teamCodeAliases[upper]; ok {
		return code, true
	}

	lower := strings.ToLower(name)
	for full, code := range nbaTeamCodes {
		if strings.ToLower(full) == lower {
			return code, true
		}
	}

	// Sportsbooks print "BOS Celtics" or "LA Lakers"; the nickname is the unambiguous part
	fields := strings.Fields(lower)
	if len(fields) >= 2 {
		if code, ok := nbaNicknameCode[strings.Join(fields[len(fields)-2:], " ")]; ok {
			return code, true
		}
	}
	if code, ok := nbaNicknameCode[fields[len(fields)-1]]; ok {
		return code, true
	}

	// City-only names ("Boston", "Golden State"); shared cities stay ambiguous
	var cityMatch []string
	for full, code := range nbaTeamCodes {
		if strings.HasPrefix(strings.ToLower(full), lower+" ") {
			cityMatch = append(cityMatch, code)
		}
	}
	if len(cityMatch) == 1 {
		return cityMatch[0], true
	}

	code := fields[0]
	if c, ok := teamCodeAliases[strings.ToUpper(code)]; ok {
		return c, true
	}
	if _, ok := nbaCodeToName[strings.ToUpper(code)]; ok {
		return strings.ToUpper(code), true
	}

	return "", false
}

// GetTeamName returns the full name for a team code
func GetTeamName(code string) string {
	if c, ok := teamCodeAliases[code]; ok {
		code = c
	}
	if name, ok := nbaCodeToName[code]; ok {
		return name
	}
	return code // Return original if not found
}

// TeamCodes returns all thirty team codes
func TeamCodes() []string {
	codes := make([]string, 0, len(nbaCodeToName))
	for code := range nbaCodeToName {
		codes = append(codes, code)
	}
	return codes
}

var matchupSeparator = regexp.MustCompile(`(?i)\s*(?:@|\s+vs\.?\s+|\s+at\s+)\s*`)

// ParseMatchup splits a free-text matchup ("BOS Celtics @ MIA Heat") into away and home team codes
func ParseMatchup(teams string) (away, home string, err error) {
	parts := matchupSeparator.Split(strings.TrimSpace(teams), 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("unrecognised matchup %q", teams)
	}

	away, ok := GetTeamCode(parts[0])
	if !ok {
		return "", "", fmt.Errorf("unknown team %q in matchup %q", parts[0], teams)
	}
	home, ok = GetTeamCode(parts[1])
	if !ok {
		return "", "", fmt.Errorf("unknown team %q in matchup %q", parts[1], teams)
	}

	return away, home, nil
}

// Opponent returns the team in the matchup that is not team
func Opponent(teams, team string) (string, error) {
	away, home, err := ParseMatchup(teams)
	if err != nil {
		return "", err
	}
	if c, ok := teamCodeAliases[team]; ok {
		team = c
	}

	switch team {
	case away:
		return home, nil
	case home:
		return away, nil
	default:
		return "", fmt.Errorf("team %s not in matchup %q", team, teams)
	}
}
