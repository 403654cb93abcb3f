package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/courtdata/courtsync/internal/domain/game"
	"github.com/courtdata/courtsync/internal/domain/synccache"
	"github.com/courtdata/courtsync/internal/platform/logging"
)

// LeagueBinding ties a provider to the configured league its data lands in.
type LeagueBinding struct {
	LeagueID string
	Name     string
	Country  string
}

type SyncRunInput struct {
	// Source narrows the run to one registered adapter; empty runs all.
	Source string
	// SeasonExternalID narrows the run to one provider season.
	SeasonExternalID string
	MaxWorkers       int
	// Force bypasses the sync cache and re-ingests unchanged payloads.
	Force bool
}

type SyncRunResult struct {
	TaskCount     int              `json:"task_count"`
	CreatedCount  int              `json:"created_count"`
	MergedCount   int              `json:"merged_count"`
	SkippedCount  int              `json:"skipped_count"`
	ConflictCount int              `json:"conflict_count"`
	FailedCount   int              `json:"failed_count"`
	WorkerCount   int              `json:"worker_count"`
	Units         []SyncUnitResult `json:"units"`
}

// SyncUnitResult is the outcome of one unit of work: a season's team list
// or a single game with its statistics.
type SyncUnitResult struct {
	Source     string `json:"source"`
	Unit       string `json:"unit"`
	Status     string `json:"status"`
	Records    int    `json:"records"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

const (
	syncUnitCreated  = string(OutcomeCreated)
	syncUnitMerged   = string(OutcomeMerged)
	syncUnitSkipped  = "skipped"
	syncUnitConflict = string(OutcomeConflict)
	syncUnitFailed   = "failed"

	defaultSyncWorkers = 4
	maxSyncWorkers     = 32
)

// SyncRunService drives full provider syncs: seasons, then teams, then the
// schedule with box scores and play-by-play for final games. Game units run
// on a bounded worker pool; concurrent workers touching the same team or
// player are reconciled by the uniqueness constraints and the lost-race
// retry in the matchers, not by locking.
type SyncRunService struct {
	adapters  map[string]SourceAdapter
	leagues   map[string]LeagueBinding
	leagueSvc *LeagueSyncService
	teamSvc   *TeamSyncService
	gameSvc   *GameSyncService
	cacheSvc  *SyncCacheService
	logger    *logging.Logger
}

func NewSyncRunService(
	leagueSvc *LeagueSyncService,
	teamSvc *TeamSyncService,
	gameSvc *GameSyncService,
	cacheSvc *SyncCacheService,
	logger *logging.Logger,
) *SyncRunService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncRunService{
		adapters:  make(map[string]SourceAdapter),
		leagues:   make(map[string]LeagueBinding),
		leagueSvc: leagueSvc,
		teamSvc:   teamSvc,
		gameSvc:   gameSvc,
		cacheSvc:  cacheSvc,
		logger:    logger,
	}
}

// Register binds an adapter to the league its data belongs to. Must be
// called before Run; registration is not safe concurrently with runs.
func (s *SyncRunService) Register(adapter SourceAdapter, binding LeagueBinding) error {
	if adapter == nil {
		return fmt.Errorf("%w: adapter is required", ErrInvalidInput)
	}
	source := strings.TrimSpace(adapter.Source())
	if source == "" {
		return fmt.Errorf("%w: adapter source is required", ErrInvalidInput)
	}
	if binding.LeagueID == "" {
		return fmt.Errorf("%w: league binding is required for source %s", ErrInvalidInput, source)
	}
	if _, exists := s.adapters[source]; exists {
		return fmt.Errorf("%w: adapter for source %s already registered", ErrInvalidInput, source)
	}
	s.adapters[source] = adapter
	s.leagues[source] = binding
	return nil
}

// Sources lists the registered provider keys in stable order.
func (s *SyncRunService) Sources() []string {
	out := make([]string, 0, len(s.adapters))
	for source := range s.adapters {
		out = append(out, source)
	}
	sort.Strings(out)
	return out
}

// Run executes a sync across the selected adapters and reports per-unit
// outcomes. A failing unit never aborts the run; its failure is recorded
// and the remaining units proceed.
func (s *SyncRunService) Run(ctx context.Context, input SyncRunInput) (SyncRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncRunService.Run")
	defer span.End()

	sources := s.Sources()
	if input.Source != "" {
		if _, ok := s.adapters[input.Source]; !ok {
			return SyncRunResult{}, fmt.Errorf("%w: unknown source %s", ErrInvalidInput, input.Source)
		}
		sources = []string{input.Source}
	}
	if len(sources) == 0 {
		return SyncRunResult{}, fmt.Errorf("%w: no adapters registered", ErrInvalidInput)
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultSyncWorkers
	}
	if workerCount > maxSyncWorkers {
		workerCount = maxSyncWorkers
	}

	result := SyncRunResult{WorkerCount: workerCount}
	for _, source := range sources {
		units, err := s.runSource(ctx, source, input, workerCount)
		if err != nil {
			return result, err
		}
		result.Units = append(result.Units, units...)
	}

	sort.SliceStable(result.Units, func(i, j int) bool {
		if result.Units[i].Source != result.Units[j].Source {
			return result.Units[i].Source < result.Units[j].Source
		}
		return result.Units[i].Unit < result.Units[j].Unit
	})
	result.TaskCount = len(result.Units)
	for _, unit := range result.Units {
		switch unit.Status {
		case syncUnitCreated:
			result.CreatedCount++
		case syncUnitMerged:
			result.MergedCount++
		case syncUnitSkipped:
			result.SkippedCount++
		case syncUnitConflict:
			result.ConflictCount++
		default:
			result.FailedCount++
		}
	}
	return result, nil
}

func (s *SyncRunService) runSource(ctx context.Context, source string, input SyncRunInput, workerCount int) ([]SyncUnitResult, error) {
	adapter := s.adapters[source]
	binding := s.leagues[source]

	if _, err := s.leagueSvc.EnsureLeague(ctx, binding.LeagueID, binding.Name, binding.Country); err != nil {
		return nil, fmt.Errorf("ensure league for source %s: %w", source, err)
	}

	rawSeasons, _, err := adapter.GetSeasons(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch seasons from %s: %v", ErrDependencyUnavailable, source, err)
	}

	var units []SyncUnitResult
	for _, rawSeason := range rawSeasons {
		if input.SeasonExternalID != "" && rawSeason.ExternalID != input.SeasonExternalID {
			continue
		}
		season, _, err := s.leagueSvc.SyncSeason(ctx, binding.LeagueID, source, rawSeason)
		if err != nil {
			units = append(units, SyncUnitResult{
				Source: source,
				Unit:   "season:" + rawSeason.ExternalID,
				Status: syncUnitFailed, Message: err.Error(),
			})
			continue
		}

		units = append(units, s.syncSeasonTeams(ctx, adapter, binding, season.ID, rawSeason.ExternalID, input.Force))

		gameUnits, err := s.syncSeasonGames(ctx, adapter, binding, season.ID, rawSeason.ExternalID, input, workerCount)
		if err != nil {
			return units, err
		}
		units = append(units, gameUnits...)
	}
	return units, nil
}

func (s *SyncRunService) syncSeasonTeams(ctx context.Context, adapter SourceAdapter, binding LeagueBinding, seasonID, seasonExternalID string, force bool) SyncUnitResult {
	source := adapter.Source()
	start := time.Now()
	unit := SyncUnitResult{Source: source, Unit: "teams:" + seasonExternalID}
	finish := func(u SyncUnitResult) SyncUnitResult {
		u.DurationMs = time.Since(start).Milliseconds()
		return u
	}

	rawTeams, payload, err := adapter.GetTeams(ctx, seasonExternalID)
	if err != nil {
		unit.Status = syncUnitFailed
		unit.Message = fmt.Sprintf("fetch teams: %v", err)
		return finish(unit)
	}

	if !force {
		changed, err := s.cacheSvc.CheckAndUpdate(ctx, synccache.Key{
			Source: source, ResourceType: "teams", ResourceKey: seasonExternalID,
		}, payload)
		if err != nil {
			s.logger.WarnContext(ctx, "sync cache update failed", "source", source, "resource", "teams", "error", err)
		} else if !changed {
			unit.Status = syncUnitSkipped
			unit.Message = "payload unchanged"
			return finish(unit)
		}
	}

	var created, merged, conflicts int
	for _, rawTeam := range rawTeams {
		_, outcome, err := s.teamSvc.SyncTeamSeason(ctx, binding.LeagueID, seasonID, source, rawTeam)
		if err != nil {
			if errors.Is(err, ErrExternalIDConflict) {
				conflicts++
				continue
			}
			unit.Status = syncUnitFailed
			unit.Message = fmt.Sprintf("sync team %s: %v", rawTeam.ExternalID, err)
			return finish(unit)
		}
		switch outcome {
		case OutcomeCreated:
			created++
		case OutcomeMerged:
			merged++
		}
		unit.Records++
	}

	switch {
	case conflicts > 0:
		unit.Status = syncUnitConflict
		unit.Message = fmt.Sprintf("%d team(s) skipped on external id conflict", conflicts)
	case created > 0:
		unit.Status = syncUnitCreated
	case merged > 0:
		unit.Status = syncUnitMerged
	default:
		unit.Status = syncUnitSkipped
	}
	return finish(unit)
}

func (s *SyncRunService) syncSeasonGames(ctx context.Context, adapter SourceAdapter, binding LeagueBinding, seasonID, seasonExternalID string, input SyncRunInput, workerCount int) ([]SyncUnitResult, error) {
	source := adapter.Source()

	schedule, _, err := adapter.GetSchedule(ctx, seasonExternalID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch schedule from %s: %v", ErrDependencyUnavailable, source, err)
	}
	if len(schedule) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan SyncUnitResult, len(schedule))
	var failures atomic.Int32
	var workers sync.WaitGroup
	for _, rawGame := range schedule {
		rawGame := rawGame
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			unit := s.syncGameUnit(ctx, adapter, binding, seasonID, rawGame, input.Force)
			if unit.Status == syncUnitFailed {
				failures.Add(1)
			}
			results <- unit
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit game to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	units := make([]SyncUnitResult, 0, len(schedule))
	for unit := range results {
		units = append(units, unit)
	}
	if n := failures.Load(); n > 0 {
		s.logger.WarnContext(ctx, "sync run finished with failed game units",
			"source", source, "season_external_id", seasonExternalID, "failed", n)
	}
	return units, nil
}

func (s *SyncRunService) syncGameUnit(ctx context.Context, adapter SourceAdapter, binding LeagueBinding, seasonID string, rawGame RawGame, force bool) SyncUnitResult {
	source := adapter.Source()
	start := time.Now()
	unit := SyncUnitResult{Source: source, Unit: "game:" + rawGame.ExternalID}
	finish := func(u SyncUnitResult) SyncUnitResult {
		u.DurationMs = time.Since(start).Milliseconds()
		return u
	}

	synced, outcome, err := s.gameSvc.SyncGame(ctx, binding.LeagueID, seasonID, source, rawGame)
	if err != nil {
		if errors.Is(err, ErrExternalIDConflict) {
			unit.Status = syncUnitConflict
			unit.Message = err.Error()
			return finish(unit)
		}
		unit.Status = syncUnitFailed
		unit.Message = err.Error()
		return finish(unit)
	}
	unit.Records++

	if !adapter.IsGameFinal(rawGame) {
		unit.Status = string(outcome)
		return finish(unit)
	}

	boxIngested, err := s.ingestBoxScore(ctx, adapter, synced, rawGame.ExternalID, force, &unit)
	if err != nil {
		unit.Status = syncUnitFailed
		unit.Message = err.Error()
		return finish(unit)
	}

	pbpIngested, err := s.ingestPlayByPlay(ctx, adapter, synced, rawGame.ExternalID, force, &unit)
	if err != nil {
		unit.Status = syncUnitFailed
		unit.Message = err.Error()
		return finish(unit)
	}

	if !boxIngested && !pbpIngested && outcome == OutcomeMerged {
		unit.Status = syncUnitSkipped
		unit.Message = "payloads unchanged"
		return finish(unit)
	}
	unit.Status = string(outcome)
	return finish(unit)
}

func (s *SyncRunService) ingestBoxScore(ctx context.Context, adapter SourceAdapter, g game.Game, gameExternalID string, force bool, unit *SyncUnitResult) (bool, error) {
	source := adapter.Source()
	raw, payload, err := adapter.GetGameBoxScore(ctx, gameExternalID)
	if err != nil {
		return false, fmt.Errorf("fetch box score: %w", err)
	}

	if !force {
		changed, err := s.cacheSvc.CheckAndUpdate(ctx, synccache.Key{
			Source: source, ResourceType: "boxscore", ResourceKey: gameExternalID,
		}, payload)
		if err != nil {
			s.logger.WarnContext(ctx, "sync cache update failed", "source", source, "resource", "boxscore", "error", err)
		} else if !changed {
			return false, nil
		}
	}

	box, err := s.gameSvc.SyncBoxScore(ctx, g, raw)
	if err != nil {
		return false, fmt.Errorf("sync box score: %w", err)
	}
	unit.Records += box.PlayerLines + box.TeamLines
	return true, nil
}

func (s *SyncRunService) ingestPlayByPlay(ctx context.Context, adapter SourceAdapter, g game.Game, gameExternalID string, force bool, unit *SyncUnitResult) (bool, error) {
	source := adapter.Source()
	events, payload, err := adapter.GetGamePlayByPlay(ctx, gameExternalID)
	if err != nil {
		return false, fmt.Errorf("fetch play-by-play: %w", err)
	}

	if !force {
		changed, err := s.cacheSvc.CheckAndUpdate(ctx, synccache.Key{
			Source: source, ResourceType: "pbp", ResourceKey: gameExternalID,
		}, payload)
		if err != nil {
			s.logger.WarnContext(ctx, "sync cache update failed", "source", source, "resource", "pbp", "error", err)
		} else if !changed {
			return false, nil
		}
	}

	stored, err := s.gameSvc.SyncPlayByPlay(ctx, g, adapter.EventLocale(), events)
	if err != nil {
		return false, fmt.Errorf("sync play-by-play: %w", err)
	}
	unit.Records += stored
	return true, nil
}
