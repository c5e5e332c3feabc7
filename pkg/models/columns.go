package models

// Workbook column names. Downstream stages read these headers by name.
const (
	ColTeams     = "Teams"
	ColPlayer    = "Player Name"
	ColLine      = "O/U"
	ColOddsOver  = "Odds for Over"
	ColOddsUnder = "Odds for Under"
	ColTeam      = "Team"
	ColOpponent  = "Opponent"
	ColPosition  = "Position"
	ColDate      = "Date"

	ColCoverageSeason = "Season Over Covered %"
	ColCoverageLast10 = "Last 10 Games Over Covered %"
	ColCoverageLast5  = "Last 5 Games Over Covered %"

	ColPercentileSeason = "Season O/U Percentile"
	ColPercentileLast10 = "Last 10 Games O/U Percentile"
	ColPercentileLast5  = "Last 5 Games O/U Percentile"

	ColMinutesSeason = "Game Average Minutes"
	ColMinutesLast10 = "Last 10 Games Average Minutes"
	ColMinutesLast5  = "Last 5 games average minutes"

	ColTeamWinSeason = "Team Win Percentage"
	ColTeamWinLast10 = "Last 10 Games Win Percentage"
	ColTeamWinLast5  = "Last 5 Games Win Percentage"

	ColOppWinSeason = "Opponents Team Win Percentage"
	ColOppWinLast10 = "Opponents Last 10 Games Win Percentage"
	ColOppWinLast5  = "Opponents Last 5 Games Win Percentage"

	ColDefenseSeason = "Season Opponent Stats vs Position"
	ColDefenseLast7  = "Last 7 Opponent Stats vs Position"
	ColDefenseLast15 = "Last 15 Opponent Stats vs Position"

	ColCombinedSeason = "Combined Average Season"
	ColCombinedLast10 = "Combined Average Last 10"
	ColCombinedLast5  = "Combined Average Last 5"

	ColCovered    = "Covered"
	ColPrediction = "Prediction"
	ColConfidence = "Confidence"

	ColBetType            = "Bet Type"
	ColImpliedProbOver    = "Implied Prob Over"
	ColImpliedProbUnder   = "Implied Prob Under"
	ColAdjustedConfidence = "Adjusted Confidence"
	ColModelEdge          = "Model Edge"
)

// FeatureColumns is the model input list, in the order EnrichedRow.Features returns them
var FeatureColumns = []string{
	ColCombinedLast10,
	ColCombinedLast5,
	ColCombinedSeason,
	ColMinutesSeason,
	ColMinutesLast10,
	ColCoverageLast10,
	ColTeamWinLast10,
	ColDefenseLast15,
	ColCoverageLast5,
	ColTeamWinLast5,
	ColMinutesLast5,
	ColDefenseLast7,
	ColOppWinLast10,
	ColOppWinLast5,
	ColOppWinSeason,
	ColDefenseSeason,
	ColCoverageSeason,
	ColTeamWinSeason,
}
