package model

import "time"

// Outcome is a single player's result in a match.
type Outcome int

const (
	OutcomeUnknown Outcome = 0
	OutcomeWin     Outcome = 1
	OutcomeLoss    Outcome = 2
	OutcomeDraw    Outcome = 3
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomeDraw:
		return "draw"
	default:
		return "?"
	}
}

// ParseOutcome maps the stored string form back to an Outcome.
func ParseOutcome(s string) Outcome {
	switch s {
	case "win":
		return OutcomeWin
	case "loss":
		return OutcomeLoss
	case "draw":
		return OutcomeDraw
	default:
		return OutcomeUnknown
	}
}

// ---- Raw match records supplied by the match store ----

// PlayerResult is one player's slot in a match roster.
type PlayerResult struct {
	PlayerID uint64
	Name     string
	Country  string // 2-letter code or allow-listed faction code; may be empty or "??"
	PartyID  string // empty when the player queued solo
	TeamSide int    // side index within the match (0, 1, ...)
	Outcome  Outcome
}

// MatchRecord is one finished match. Immutable once stored.
type MatchRecord struct {
	MatchID   string
	GameMode  string
	StartedAt time.Time
	Players   []PlayerResult
}

// Window is the half-open time range [From, To) a run computes over.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// ---- Aggregation ----

// NationAggregate holds a nation's tally for one game mode, fully
// recomputed from MatchRecords on each run.
type NationAggregate struct {
	Country    string
	GameMode   string
	Wins       int
	Losses     int
	TotalGames int
	Players    int // distinct players who contributed games
}

// PlayerTally holds one player's tally for one game mode.
type PlayerTally struct {
	PlayerID   uint64
	Name       string
	Country    string
	GameMode   string
	Wins       int
	Losses     int
	TotalGames int // decided games only; draws excluded
}

// NetWins is the player's win-loss differential.
func (p PlayerTally) NetWins() int { return p.Wins - p.Losses }

// WinRate is wins over decided games, 0 when none were decided.
func (p PlayerTally) WinRate() float64 {
	if p.TotalGames == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.TotalGames)
}

// ---- Confidence correction & rankings ----

// ConfidenceFactor is the per-(game mode, window) damping derived from
// the unfiltered set of nations with at least one recorded game.
type ConfidenceFactor struct {
	K        float64 // average games per nation / 2
	CF       float64 // 2k
	MinGames float64 // k/4, minimum activity gate for the leaderboard
}

// Contributor is a positive net-win player attached to a nation score.
type Contributor struct {
	PlayerID uint64 `json:"player_id"`
	Name     string `json:"name"`
	NetWins  int    `json:"net_wins"`
}

// NationScore is one ranked nation in a leaderboard.
type NationScore struct {
	Country         string        `json:"country"`
	GameMode        string        `json:"game_mode"`
	Wins            int           `json:"wins"`
	Losses          int           `json:"losses"`
	TotalGames      int           `json:"total_games"`
	Players         int           `json:"players"`
	RawScore        int           `json:"raw_score"`      // wins - losses
	AdjustedScore   float64       `json:"adjusted_score"` // raw / (games + CF) * 10000
	DisplayScore    int           `json:"display_score"`  // adjusted, rounded
	Rank            int           `json:"rank"`
	TopContributors []Contributor `json:"top_contributors"`
}

// NationLeaderboard is the confidence-corrected ranking for one game mode.
type NationLeaderboard struct {
	GameMode string        `json:"game_mode"`
	K        float64       `json:"k"`
	CF       float64       `json:"cf"`
	MinGames float64       `json:"min_games"`
	Nations  []NationScore `json:"nations"`
}

// PlayerRank is one row of the global player leaderboard.
type PlayerRank struct {
	Rank       int    `json:"rank"`
	PlayerID   uint64 `json:"player_id"`
	Name       string `json:"name"`
	Country    string `json:"country,omitempty"`
	Rating     int    `json:"rating"` // net wins, no confidence correction
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	TotalGames int    `json:"total_games"`
}

// PlayerLeaderboard is the cross-nation player ranking for one game mode,
// truncated for delivery.
type PlayerLeaderboard struct {
	GameMode     string       `json:"game_mode"`
	Players      []PlayerRank `json:"players"`
	TotalPlayers int          `json:"total_players"` // before truncation
}

// NationScoreBreakdown is the full explanation of one nation's score.
type NationScoreBreakdown struct {
	Country       string          `json:"country"`
	GameMode      string          `json:"game_mode"`
	Wins          int             `json:"wins"`
	Losses        int             `json:"losses"`
	TotalGames    int             `json:"total_games"`
	RawScore      int             `json:"raw_score"`
	AdjustedScore float64         `json:"adjusted_score"`
	DisplayScore  int             `json:"display_score"`
	K             float64         `json:"k"`
	CF            float64         `json:"cf"`
	Rank          int             `json:"rank"` // 0 when below the activity gate
	Qualified     bool            `json:"qualified"`
	Distribution  []PlayerNetWins `json:"distribution"` // per-player net wins, desc
}

// PlayerNetWins is one player's slice of a nation's score.
type PlayerNetWins struct {
	PlayerID uint64 `json:"player_id"`
	Name     string `json:"name"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	NetWins  int    `json:"net_wins"`
}

// ---- Team detection ----

// PlayerPairEdge is an undirected weighted edge of the co-occurrence graph.
// Players are ordered so that A < B.
type PlayerPairEdge struct {
	A           uint64  `json:"a"`
	B           uint64  `json:"b"`
	AName       string  `json:"a_name"`
	BName       string  `json:"b_name"`
	Weight      int     `json:"weight"` // matches played on the same side
	JointWins   int     `json:"joint_wins"`
	JointLosses int     `json:"joint_losses"`
	Synergy     float64 `json:"synergy"` // joint win rate lift over solo win rates
}

// TeamStats is a win/loss block shared by parties and communities.
type TeamStats struct {
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"` // wins over decided matches
}

// TeamMember is one player inside a party team or community.
type TeamMember struct {
	PlayerID      uint64 `json:"player_id"`
	Name          string `json:"name"`
	Country       string `json:"country,omitempty"`
	MatchesPlayed int    `json:"matches_played"` // with this group
}

// PartyTeamCandidate is a recurring exact roster observed under a shared
// party id.
type PartyTeamCandidate struct {
	TeamName       string               `json:"team_name"`
	Members        []TeamMember         `json:"members"`
	StabilityScore float64              `json:"stability_score"`
	StatsOverall   TeamStats            `json:"stats_overall"`
	StatsByMode    map[string]TeamStats `json:"stats_by_mode"`
}

// CommunityCluster is one disjoint partition of the co-occurrence graph.
type CommunityCluster struct {
	ClusterName           string       `json:"cluster_name"`
	Members               []TeamMember `json:"members"`
	Density               float64      `json:"density"`
	AvgConnectionStrength float64      `json:"avg_connection_strength"`
	StatsOverall          TeamStats    `json:"stats_overall"`
}

// MatchSummary is a lightweight record for list/summary commands.
type MatchSummary struct {
	MatchID   string
	GameMode  string
	StartedAt time.Time
	Players   int
}

// StoreOverview is the high-level shape of the match store.
type StoreOverview struct {
	TotalMatches  int
	UniquePlayers int
	UniqueModes   int
	EarliestMatch time.Time
	LatestMatch   time.Time
}
