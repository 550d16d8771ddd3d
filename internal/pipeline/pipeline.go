// Package pipeline orchestrates a full engine run: one immutable snapshot
// of match history in, confidence-corrected leaderboards and team
// structures out.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"barrank/internal/aggregate"
	"barrank/internal/config"
	"barrank/internal/model"
	"barrank/internal/rankings"
	"barrank/internal/teamgraph"
	"barrank/internal/teams"
)

// TeamType selects which team structure an operation works on.
type TeamType string

const (
	TeamTypeParty     TeamType = "party"
	TeamTypeCommunity TeamType = "community"
)

// ParseTeamType validates a user-supplied team type.
func ParseTeamType(s string) (TeamType, error) {
	switch TeamType(s) {
	case TeamTypeParty, TeamTypeCommunity:
		return TeamType(s), nil
	default:
		return "", fmt.Errorf("unknown team type %q (want party or community)", s)
	}
}

// Snapshot is the immutable input of one run: all valid match records
// inside the window, read once.
type Snapshot struct {
	Window  model.Window
	Records []model.MatchRecord
	Skipped int // malformed records rejected at ingestion
}

// NewSnapshot filters records to the window and drops malformed ones,
// recording how many were skipped.
func NewSnapshot(records []model.MatchRecord, window model.Window) *Snapshot {
	inWindow := make([]model.MatchRecord, 0, len(records))
	for _, rec := range records {
		if window.Contains(rec.StartedAt) {
			inWindow = append(inWindow, rec)
		}
	}
	valid, skipped := aggregate.Filter(inWindow)
	return &Snapshot{Window: window, Records: valid, Skipped: skipped}
}

// Engine computes every published structure from one snapshot. All methods
// are pure with respect to the snapshot: re-running over identical input
// yields identical output.
type Engine struct {
	cfg  config.Config
	log  zerolog.Logger
	snap *Snapshot

	agg   *aggregate.Result
	graph *teamgraph.Graph

	teamsOnce   sync.Once
	parties     []model.PartyTeamCandidate
	communities []model.CommunityCluster
	pairs       []model.PlayerPairEdge
}

// NewEngine aggregates the snapshot once up front; team detection is
// deferred until first use.
func NewEngine(cfg config.Config, log zerolog.Logger, snap *Snapshot) *Engine {
	e := &Engine{
		cfg:   cfg,
		log:   log,
		snap:  snap,
		agg:   aggregate.Tally(snap.Records, cfg),
		graph: teamgraph.Build(snap.Records),
	}
	e.log.Debug().
		Int("matches", len(snap.Records)).
		Int("skipped", snap.Skipped).
		Int("game_modes", len(e.agg.Modes)).
		Time("window_from", snap.Window.From).
		Time("window_to", snap.Window.To).
		Msg("snapshot aggregated")
	return e
}

// SkippedRecords is the count of malformed records dropped at ingestion.
func (e *Engine) SkippedRecords() int { return e.snap.Skipped }

// GameModes lists the modes present in the snapshot, sorted.
func (e *Engine) GameModes() []string { return e.agg.GameModes() }

func (e *Engine) mode(gameMode string) (*aggregate.ModeTallies, error) {
	mt, ok := e.agg.Modes[gameMode]
	if !ok {
		return nil, fmt.Errorf("no matches for game mode %q in window", gameMode)
	}
	return mt, nil
}

// BuildNationLeaderboard builds the confidence-corrected nation ranking for
// one game mode.
func (e *Engine) BuildNationLeaderboard(gameMode string) (*model.NationLeaderboard, error) {
	mt, err := e.mode(gameMode)
	if err != nil {
		return nil, err
	}
	return rankings.BuildNationLeaderboard(mt, e.cfg)
}

// BuildPlayerLeaderboard builds the global player ranking for one game mode.
func (e *Engine) BuildPlayerLeaderboard(gameMode string) (*model.PlayerLeaderboard, error) {
	mt, err := e.mode(gameMode)
	if err != nil {
		return nil, err
	}
	return rankings.BuildPlayerLeaderboard(mt, e.cfg), nil
}

// ExplainNationScore returns the full score breakdown for one nation.
func (e *Engine) ExplainNationScore(country, gameMode string) (*model.NationScoreBreakdown, error) {
	mt, err := e.mode(gameMode)
	if err != nil {
		return nil, err
	}
	return rankings.ExplainNationScore(mt, country, e.cfg)
}

func (e *Engine) detectTeams() {
	e.teamsOnce.Do(func() {
		start := time.Now()
		e.parties = teams.DetectParties(e.snap.Records, e.cfg, e.graph)
		e.communities = teams.DetectCommunities(e.graph, e.snap.Records, e.cfg)
		e.pairs = teams.FrequentPairs(e.graph, e.cfg)
		e.log.Debug().
			Int("parties", len(e.parties)).
			Int("communities", len(e.communities)).
			Int("pairs", len(e.pairs)).
			Dur("elapsed", time.Since(start)).
			Msg("team detection complete")
	})
}

// PartyTeams returns recurring exact-roster party teams, most active first.
func (e *Engine) PartyTeams() []model.PartyTeamCandidate {
	e.detectTeams()
	return e.parties
}

// Communities returns the graph partition clusters, most active first.
func (e *Engine) Communities() []model.CommunityCluster {
	e.detectTeams()
	return e.communities
}

// FrequentPairs returns above-threshold pair edges with synergy.
func (e *Engine) FrequentPairs() []model.PlayerPairEdge {
	e.detectTeams()
	return e.pairs
}

// TeamSet is the build_teams output for one team type.
type TeamSet struct {
	Type        TeamType                   `json:"type"`
	Parties     []model.PartyTeamCandidate `json:"parties,omitempty"`
	Communities []model.CommunityCluster   `json:"communities,omitempty"`
}

// BuildTeams returns the requested team structure.
func (e *Engine) BuildTeams(t TeamType) (*TeamSet, error) {
	switch t {
	case TeamTypeParty:
		return &TeamSet{Type: t, Parties: e.PartyTeams()}, nil
	case TeamTypeCommunity:
		return &TeamSet{Type: t, Communities: e.Communities()}, nil
	default:
		return nil, fmt.Errorf("unknown team type %q", t)
	}
}

// SearchTeams returns teams of the given type with a member matching the
// player name, case-insensitively.
func (e *Engine) SearchTeams(playerName string, t TeamType) (*TeamSet, error) {
	switch t {
	case TeamTypeParty:
		return &TeamSet{Type: t, Parties: teams.SearchParties(e.PartyTeams(), playerName)}, nil
	case TeamTypeCommunity:
		return &TeamSet{Type: t, Communities: teams.SearchCommunities(e.Communities(), playerName)}, nil
	default:
		return nil, fmt.Errorf("unknown team type %q", t)
	}
}

// ModeResult is one game mode's partition of a run. A slice-fatal condition
// sets Failure and leaves the other partitions untouched.
type ModeResult struct {
	GameMode string                   `json:"game_mode"`
	Nations  *model.NationLeaderboard `json:"nations,omitempty"`
	Players  *model.PlayerLeaderboard `json:"players,omitempty"`
	Failure  string                   `json:"failure,omitempty"`
}

// RunResult is the complete output set of one engine run, consumed by the
// result publisher.
type RunResult struct {
	RunID          string                     `json:"run_id"`
	GeneratedAt    time.Time                  `json:"generated_at"`
	WindowFrom     time.Time                  `json:"window_from"`
	WindowTo       time.Time                  `json:"window_to"`
	Matches        int                        `json:"matches"`
	SkippedRecords int                        `json:"skipped_records"`
	Modes          []ModeResult               `json:"modes"`
	Parties        []model.PartyTeamCandidate `json:"parties"`
	Communities    []model.CommunityCluster   `json:"communities"`
	Pairs          []model.PlayerPairEdge     `json:"pairs"`
}

// Run computes every game mode slice plus the team structures. Game modes
// are mutually independent and computed in parallel, each writing its own
// result partition. A failed slice is reported by name, never aborts the
// others.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	modes := e.GameModes()
	results := make([]ModeResult, len(modes))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, gameMode := range modes {
		g.Go(func() error {
			res := ModeResult{GameMode: gameMode}
			nations, err := e.BuildNationLeaderboard(gameMode)
			if err != nil {
				e.log.Warn().Str("game_mode", gameMode).Err(err).Msg("slice aborted")
				res.Failure = err.Error()
				results[i] = res
				return nil
			}
			res.Nations = nations
			res.Players, _ = e.BuildPlayerLeaderboard(gameMode)
			results[i] = res
			return nil
		})
	}
	g.Go(func() error {
		e.detectTeams()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].GameMode < results[j].GameMode })

	return &RunResult{
		RunID:          uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		WindowFrom:     e.snap.Window.From,
		WindowTo:       e.snap.Window.To,
		Matches:        len(e.snap.Records),
		SkippedRecords: e.snap.Skipped,
		Modes:          results,
		Parties:        e.PartyTeams(),
		Communities:    e.Communities(),
		Pairs:          e.FrequentPairs(),
	}, nil
}
