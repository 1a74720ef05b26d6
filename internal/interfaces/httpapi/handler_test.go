package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/scoutlens/scoutlens/internal/config"
	"github.com/scoutlens/scoutlens/internal/domain/valuation"
	"github.com/scoutlens/scoutlens/internal/infrastructure/ingest"
	"github.com/scoutlens/scoutlens/internal/infrastructure/repository/memory"
	"github.com/scoutlens/scoutlens/internal/infrastructure/uistate"
	"github.com/scoutlens/scoutlens/internal/platform/cache"
	"github.com/scoutlens/scoutlens/internal/platform/logging"
	"github.com/scoutlens/scoutlens/internal/usecase"
)

const lifecycleCSV = `Name,Club,Division,Position,Age,Mins,Expires,Gls/90,xG/90,Ast/90,Drb/90,Sprint Speed
Aaron Ace,Riverford FC,Sky Bet League One,"ST (C)",24,2700,30/6/2027,0.85,0.70,0.25,1.1,16
Bobby Blunt,Riverford FC,Sky Bet League One,"ST (C)",27,2400,30/6/2026,0.45,0.40,0.15,0.8,15
Carl Cold,Portbridge United,Sky Bet League One,"ST (C)",22,1900,30/6/2028,0.30,0.35,0.20,1.4,17
Dan Dreary,Portbridge United,Sky Bet League One,"ST (C)",30,2100,30/6/2026,0.20,0.25,0.10,0.5,13
`

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	repo := memory.NewDatasetRepository()
	store := cache.NewStore(time.Minute)
	state, err := uistate.Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("open state store: %v", err)
	}

	rebuild := func(overlay []byte) (valuation.Config, error) {
		return config.LoadValuation("", overlay)
	}
	baseCfg, err := rebuild(nil)
	if err != nil {
		t.Fatalf("load valuation config: %v", err)
	}

	analysis := usecase.NewAnalysisService(repo, store, logging.NewNop())
	datasets := usecase.NewDatasetService(repo, ingest.NewLoader(logging.NewNop()), store, logging.NewNop())
	squads := usecase.NewSquadService(analysis, logging.NewNop())
	now := func() time.Time { return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC) }
	valuations := usecase.NewValuationService(analysis, state, store, baseCfg, rebuild, false, now, logging.NewNop())
	transfers := usecase.NewTransferService(analysis, valuations, squads, 2, logging.NewNop())
	uiState := usecase.NewUIStateService(state)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(datasets, analysis, valuations, squads, transfers, uiState, 1<<20, logger)
	return NewRouter(handler, logger, []string{"*"})
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body["data"]
}

func TestRouter_DatasetLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/dataset", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("summary before load: expected 409, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/v1/dataset", lifecycleCSV)
	if rec.Code != http.StatusCreated {
		t.Fatalf("load dataset: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	data, ok := decodeData(t, rec).(map[string]any)
	if !ok {
		t.Fatalf("expected summary object, got %T", decodeData(t, rec))
	}
	if got, _ := data["players"].(float64); got != 4 {
		t.Fatalf("expected 4 players in summary, got %v", data["players"])
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/dataset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary after load: expected 200, got %d", rec.Code)
	}
}

func TestRouter_RejectsUnknownFormat(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/dataset?format=xml", lifecycleCSV)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouter_PlayersAndProfile(t *testing.T) {
	srv := newTestServer(t)
	doRequest(t, srv, http.MethodPost, "/v1/dataset", lifecycleCSV)

	rec := doRequest(t, srv, http.MethodGet, "/v1/players", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list players: expected 200, got %d", rec.Code)
	}
	rows, ok := decodeData(t, rec).([]any)
	if !ok || len(rows) != 4 {
		t.Fatalf("expected 4 player rows, got %v", decodeData(t, rec))
	}
	first, _ := rows[0].(map[string]any)
	if got, _ := first["name"].(string); got != "Aaron Ace" {
		t.Fatalf("expected Aaron Ace ranked first, got %q", got)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/players/"+url.PathEscape("Aaron Ace"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/players/Nobody", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown profile: expected 404, got %d", rec.Code)
	}
}

func TestRouter_LeadersAndScatter(t *testing.T) {
	srv := newTestServer(t)
	doRequest(t, srv, http.MethodPost, "/v1/dataset", lifecycleCSV)

	stat := url.QueryEscape("Goals / 90")
	rec := doRequest(t, srv, http.MethodGet, "/v1/leaders?stat="+stat+"&limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("leaders: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	rows, _ := decodeData(t, rec).([]any)
	if len(rows) != 2 {
		t.Fatalf("expected 2 leaders, got %d", len(rows))
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/leaders?stat=NoSuchStat", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown stat: expected 404, got %d", rec.Code)
	}

	xy := "x=" + stat + "&y=" + url.QueryEscape("xG/90")
	rec = doRequest(t, srv, http.MethodGet, "/v1/scatter?"+xy, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("scatter: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRouter_CustomRole(t *testing.T) {
	srv := newTestServer(t)
	doRequest(t, srv, http.MethodPost, "/v1/dataset", lifecycleCSV)

	rec := doRequest(t, srv, http.MethodPost, "/v1/roles/custom", `{"name":"Shot Machine"`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("truncated payload: expected 400, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/v1/roles/custom", `{"name":"Shot Machine","baseline":["ST (C)"],"weights":{"Goals / 90":3,"xG/90":2}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create role: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/roles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list roles: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Shot Machine") {
		t.Fatal("expected custom role in catalog")
	}
}

func TestRouter_ValueConfigRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPut, "/v1/value-config", `{"buyDiscount":0.5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update config: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data, _ := decodeData(t, rec).(map[string]any)
	if got, _ := data["buyDiscount"].(float64); got != 0.5 {
		t.Fatalf("expected buyDiscount 0.5, got %v", data["buyDiscount"])
	}

	rec = doRequest(t, srv, http.MethodPut, "/v1/value-config", `{"buyDiscount":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed overlay: expected 400, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/v1/value-config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset config: expected 200, got %d", rec.Code)
	}
	data, _ = decodeData(t, rec).(map[string]any)
	if got, _ := data["buyDiscount"].(float64); got != 0.87 {
		t.Fatalf("expected default buyDiscount after reset, got %v", data["buyDiscount"])
	}
}

func TestRouter_PlayerValue(t *testing.T) {
	srv := newTestServer(t)
	doRequest(t, srv, http.MethodPost, "/v1/dataset", lifecycleCSV)

	rec := doRequest(t, srv, http.MethodGet, "/v1/players/"+url.PathEscape("Aaron Ace")+"/value", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("value: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data, _ := decodeData(t, rec).(map[string]any)
	if got, _ := data["valueDisplay"].(string); !strings.HasPrefix(got, "£") {
		t.Fatalf("expected formatted value, got %q", got)
	}
}

func TestRouter_TransferSearchValidation(t *testing.T) {
	srv := newTestServer(t)
	doRequest(t, srv, http.MethodPost, "/v1/dataset", lifecycleCSV)

	rec := doRequest(t, srv, http.MethodPost, "/v1/transfers/search", `{"position":"ST"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing club: expected 400, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/v1/transfers/search", `{"club":"Portbridge United"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	rows, _ := decodeData(t, rec).([]any)
	for _, row := range rows {
		target, _ := row.(map[string]any)
		if club, _ := target["club"].(string); club == "Portbridge United" {
			t.Fatal("search returned a player from the buying club")
		}
	}
}

func TestRouter_SquadRoutes(t *testing.T) {
	srv := newTestServer(t)
	doRequest(t, srv, http.MethodPost, "/v1/dataset", lifecycleCSV)

	rec := doRequest(t, srv, http.MethodGet, "/v1/squads", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list clubs: expected 200, got %d", rec.Code)
	}
	rows, _ := decodeData(t, rec).([]any)
	if len(rows) != 2 {
		t.Fatalf("expected 2 clubs, got %d", len(rows))
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/squads/"+url.PathEscape("Riverford FC"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze squad: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/squads/Nowhere", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown club: expected 404, got %d", rec.Code)
	}
}

func TestRouter_ExportCSV(t *testing.T) {
	srv := newTestServer(t)
	doRequest(t, srv, http.MethodPost, "/v1/dataset", lifecycleCSV)

	rec := doRequest(t, srv, http.MethodGet, "/v1/players/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Fatalf("unexpected content type %q", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "Name,Club,League") {
		t.Fatalf("unexpected export header: %q", rec.Body.String()[:40])
	}
}

func TestRouter_UIState(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/ui-state/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing key: expected 404, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPut, "/v1/ui-state/table-prefs", `{"columns":["Name","Age"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put state: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodPut, "/v1/ui-state/Bad%20Key", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid key: expected 400, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/ui-state/table-prefs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get state: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"columns"`) {
		t.Fatalf("expected stored document, got %s", rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodDelete, "/v1/ui-state/table-prefs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete state: expected 200, got %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, "/v1/ui-state/table-prefs", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("after delete: expected 404, got %d", rec.Code)
	}
}

func TestRouter_Healthz(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
}
