package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/wicketick/pkg/contracts/events"
)

// CurrentReader lê o update corrente de uma partida
type CurrentReader interface {
	Current(ctx context.Context, matchID string) (events.SnapshotUpdate, bool, error)
}

// API expõe os endpoints REST de consulta do snapshot corrente
type API struct {
	Cache CurrentReader // cache Redis alimentado pelo consumer
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/v1/matches/{id}/snapshot", a.getSnapshot) // JSON completo (evento)
	r.Get("/v1/matches/{id}/summary", a.getSummary)   // texto igual ao do ticker
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// lookup resolve o update ou já responde o erro
func (a *API) lookup(w http.ResponseWriter, r *http.Request) (events.SnapshotUpdate, bool) {
	id := chi.URLParam(r, "id")
	ev, ok, err := a.Cache.Current(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return ev, false
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return ev, false
	}
	return ev, true
}

// getSnapshot retorna o último SnapshotUpdate da partida
func (a *API) getSnapshot(w http.ResponseWriter, r *http.Request) {
	if ev, ok := a.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, ev)
	}
}

// getSummary retorna o snapshot renderizado em texto
func (a *API) getSummary(w http.ResponseWriter, r *http.Request) {
	ev, ok := a.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ev.Snapshot.Display() + "\n"))
}
