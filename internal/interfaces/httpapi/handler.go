package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/scoutlens/scoutlens/internal/domain/role"
	"github.com/scoutlens/scoutlens/internal/usecase"
)

type Handler struct {
	datasetService   *usecase.DatasetService
	analysisService  *usecase.AnalysisService
	valuationService *usecase.ValuationService
	squadService     *usecase.SquadService
	transferService  *usecase.TransferService
	stateService     *usecase.UIStateService
	maxUploadBytes   int64
	logger           *slog.Logger
	validator        *validator.Validate
}

func NewHandler(
	datasetService *usecase.DatasetService,
	analysisService *usecase.AnalysisService,
	valuationService *usecase.ValuationService,
	squadService *usecase.SquadService,
	transferService *usecase.TransferService,
	stateService *usecase.UIStateService,
	maxUploadBytes int64,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 64 << 20
	}

	return &Handler{
		datasetService:   datasetService,
		analysisService:  analysisService,
		valuationService: valuationService,
		squadService:     squadService,
		transferService:  transferService,
		stateService:     stateService,
		maxUploadBytes:   maxUploadBytes,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) LoadDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LoadDataset")
	defer span.End()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadBytes))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	summary, err := h.datasetService.Load(ctx, body, r.URL.Query().Get("format"))
	if err != nil {
		h.logger.ErrorContext(ctx, "load dataset failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, summary)
}

func (h *Handler) GetDatasetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDatasetSummary")
	defer span.End()

	summary, err := h.datasetService.Summary(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	players, err := h.analysisService.Players(ctx, filterFromQuery(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, players)
}

func (h *Handler) GetPlayerProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerProfile")
	defer span.End()

	profile, err := h.analysisService.Profile(ctx, r.PathValue("name"), filterFromQuery(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profile)
}

func (h *Handler) ExportPlayersCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportPlayersCSV")
	defer span.End()

	doc, err := h.analysisService.ExportCSV(ctx, filterFromQuery(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="players.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *Handler) ListLeaders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeaders")
	defer span.End()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(ctx, w, fmt.Errorf("%w: invalid limit %q", usecase.ErrInvalidInput, raw))
			return
		}
		limit = n
	}

	leaders, err := h.analysisService.Leaders(ctx, r.URL.Query().Get("stat"), filterFromQuery(r), limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaders)
}

func (h *Handler) GetScatter(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScatter")
	defer span.End()

	q := r.URL.Query()
	points, err := h.analysisService.Scatter(ctx, q.Get("x"), q.Get("y"), filterFromQuery(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, points)
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRoles")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.analysisService.Catalog())
}

func (h *Handler) CreateCustomRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateCustomRole")
	defer span.End()

	var archetype role.Archetype
	if err := decodeBody(r, &archetype); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validator.Struct(archetype); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	if err := h.analysisService.RegisterRole(ctx, archetype); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, archetype)
}

func (h *Handler) GetPlayerValue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerValue")
	defer span.End()

	report, err := h.valuationService.Value(ctx, r.PathValue("name"), filterFromQuery(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) GetValueConfig(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetValueConfig")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.valuationService.Config(ctx))
}

func (h *Handler) UpdateValueConfig(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateValueConfig")
	defer span.End()

	overlay, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	cfg, err := h.valuationService.UpdateConfig(ctx, overlay)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, cfg)
}

func (h *Handler) ResetValueConfig(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetValueConfig")
	defer span.End()

	cfg, err := h.valuationService.ResetConfig(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, cfg)
}

func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClubs")
	defer span.End()

	clubs, err := h.squadService.Clubs(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, clubs)
}

func (h *Handler) AnalyzeSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AnalyzeSquad")
	defer span.End()

	sc, err := h.squadService.Analyze(ctx, r.PathValue("club"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sc)
}

func (h *Handler) SearchTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchTransfers")
	defer span.End()

	var criteria usecase.TransferCriteria
	if err := decodeBody(r, &criteria); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validator.Struct(criteria); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	targets, err := h.transferService.Search(ctx, criteria)
	if err != nil {
		h.logger.ErrorContext(ctx, "transfer search failed", "club", criteria.Club, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, targets)
}

func (h *Handler) GetUIState(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUIState")
	defer span.End()

	doc, err := h.stateService.Get(ctx, r.PathValue("key"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, json.RawMessage(doc))
}

func (h *Handler) PutUIState(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PutUIState")
	defer span.End()

	doc, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	if err := h.stateService.Put(ctx, r.PathValue("key"), doc); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handler) DeleteUIState(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteUIState")
	defer span.End()

	if err := h.stateService.Delete(ctx, r.PathValue("key")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func decodeBody(r *http.Request, out any) error {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func filterFromQuery(r *http.Request) usecase.Filter {
	q := r.URL.Query()
	f := usecase.Filter{
		Position: strings.TrimSpace(q.Get("position")),
		Club:     strings.TrimSpace(q.Get("club")),
		League:   strings.TrimSpace(q.Get("league")),
		Tier:     strings.TrimSpace(q.Get("tier")),
		Role:     strings.TrimSpace(q.Get("role")),
		Query:    strings.TrimSpace(q.Get("q")),
	}
	if v, err := strconv.ParseFloat(q.Get("minMinutes"), 64); err == nil && v > 0 {
		f.MinMinutes = v
	}
	if v, err := strconv.ParseFloat(q.Get("maxAge"), 64); err == nil && v > 0 {
		f.MaxAge = v
	}
	return f
}
