package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDatasetRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/dataset", handler.LoadDataset)
	mux.HandleFunc("GET /v1/dataset", handler.GetDatasetSummary)
}

func registerAnalysisRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/export", handler.ExportPlayersCSV)
	mux.HandleFunc("GET /v1/players/{name}", handler.GetPlayerProfile)
	mux.HandleFunc("GET /v1/leaders", handler.ListLeaders)
	mux.HandleFunc("GET /v1/scatter", handler.GetScatter)
	mux.HandleFunc("GET /v1/roles", handler.ListRoles)
	mux.HandleFunc("POST /v1/roles/custom", handler.CreateCustomRole)
}

func registerValuationRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/{name}/value", handler.GetPlayerValue)
	mux.HandleFunc("GET /v1/value-config", handler.GetValueConfig)
	mux.HandleFunc("PUT /v1/value-config", handler.UpdateValueConfig)
	mux.HandleFunc("DELETE /v1/value-config", handler.ResetValueConfig)
}

func registerSquadRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/squads", handler.ListClubs)
	mux.HandleFunc("GET /v1/squads/{club}", handler.AnalyzeSquad)
	mux.HandleFunc("POST /v1/transfers/search", handler.SearchTransfers)
}

func registerStateRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/ui-state/{key}", handler.GetUIState)
	mux.HandleFunc("PUT /v1/ui-state/{key}", handler.PutUIState)
	mux.HandleFunc("DELETE /v1/ui-state/{key}", handler.DeleteUIState)
}
