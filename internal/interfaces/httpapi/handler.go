package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/courtdata/courtsync/internal/domain/conflict"
	"github.com/courtdata/courtsync/internal/platform/cache"
	"github.com/courtdata/courtsync/internal/platform/logging"
	"github.com/courtdata/courtsync/internal/usecase"
)

const (
	defaultConflictLimit   = 50
	maxConflictLimit       = 500
	duplicatesCacheKey     = "duplicates"
	duplicatesReadCacheTTL = 2 * time.Minute
)

// Handler serves the operator surface: health, sync triggering and the
// review endpoints for duplicates and external-id conflicts.
type Handler struct {
	syncRuns  *usecase.SyncRunService
	players   *usecase.PlayerSyncService
	conflicts conflict.Repository
	readCache *cache.Store
	validator *validator.Validate
	logger    *logging.Logger
}

func NewHandler(
	syncRuns *usecase.SyncRunService,
	players *usecase.PlayerSyncService,
	conflicts conflict.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		syncRuns:  syncRuns,
		players:   players,
		conflicts: conflicts,
		readCache: cache.NewStore(duplicatesReadCacheTTL),
		validator: validator.New(),
		logger:    logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSources")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"sources": h.syncRuns.Sources()})
}

type triggerSyncRunRequest struct {
	Source           string `json:"source" validate:"omitempty,max=50"`
	SeasonExternalID string `json:"season_external_id" validate:"omitempty,max=100"`
	MaxWorkers       int    `json:"max_workers" validate:"gte=0,lte=32"`
	Force            bool   `json:"force"`
}

// TriggerSyncRun runs a synchronous sync pass and returns its per-unit
// report. Long-running by design; operators call it from jobs, not UIs.
func (h *Handler) TriggerSyncRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerSyncRun")
	defer span.End()

	var payload triggerSyncRunRequest
	if err := h.decodeJSON(ctx, r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncRuns.Run(ctx, usecase.SyncRunInput{
		Source:           strings.TrimSpace(payload.Source),
		SeasonExternalID: strings.TrimSpace(payload.SeasonExternalID),
		MaxWorkers:       payload.MaxWorkers,
		Force:            payload.Force,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	// A fresh run invalidates the duplicate review cache.
	h.readCache.Delete(ctx, duplicatesCacheKey)

	writeSuccess(ctx, w, http.StatusOK, result)
}

type duplicateCandidateResponse struct {
	PlayerAID   string `json:"player_a_id"`
	PlayerAName string `json:"player_a_name"`
	PlayerBID   string `json:"player_b_id"`
	PlayerBName string `json:"player_b_name"`
	Reason      string `json:"reason"`
}

func (h *Handler) ListPotentialDuplicates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPotentialDuplicates")
	defer span.End()

	out, err := h.readCache.GetOrLoad(ctx, duplicatesCacheKey, func(ctx context.Context) (any, error) {
		candidates, err := h.players.FindPotentialDuplicates(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]duplicateCandidateResponse, 0, len(candidates))
		for _, c := range candidates {
			rows = append(rows, duplicateCandidateResponse{
				PlayerAID:   c.PlayerA.ID,
				PlayerAName: c.PlayerA.FullName,
				PlayerBID:   c.PlayerB.ID,
				PlayerBName: c.PlayerB.FullName,
				Reason:      c.Reason,
			})
		}
		return rows, nil
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "list potential duplicates failed", "error", err)
		writeInternalError(ctx, w)
		return
	}

	rows, ok := out.([]duplicateCandidateResponse)
	if !ok {
		writeInternalError(ctx, w)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"duplicates": rows})
}

type conflictResponse struct {
	ID              string    `json:"id"`
	EntityKind      string    `json:"entity_kind"`
	Source          string    `json:"source"`
	ExternalID      string    `json:"external_id"`
	BoundEntityID   string    `json:"bound_entity_id"`
	MatchedEntityID string    `json:"matched_entity_id"`
	Detail          string    `json:"detail"`
	CreatedAt       time.Time `json:"created_at"`
}

func (h *Handler) ListConflicts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListConflicts")
	defer span.End()

	limit := defaultConflictLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxConflictLimit {
			writeError(ctx, w, fmt.Errorf("%w: limit must be between 1 and %d", usecase.ErrInvalidInput, maxConflictLimit))
			return
		}
		limit = parsed
	}

	items, err := h.conflicts.List(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list conflicts failed", "error", err)
		writeInternalError(ctx, w)
		return
	}

	rows := make([]conflictResponse, 0, len(items))
	for _, item := range items {
		rows = append(rows, conflictResponse{
			ID:              item.ID,
			EntityKind:      item.EntityKind,
			Source:          item.Source,
			ExternalID:      item.ExternalID,
			BoundEntityID:   item.BoundEntityID,
			MatchedEntityID: item.MatchedEntityID,
			Detail:          item.Detail,
			CreatedAt:       item.CreatedAt,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"conflicts": rows})
}

// decodeJSON tolerates an empty body so zero-value requests work from curl.
func (h *Handler) decodeJSON(ctx context.Context, r *http.Request, payload any) error {
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(payload); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
