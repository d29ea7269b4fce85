package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/wicketick/internal/match-simulator/engine"
)

// Server expõe as partidas simuladas no mesmo caminho do feed real
type Server struct {
	Catalog *engine.Catalog
	Log     *zap.Logger

	OnServed   func(matchID string) // métricas
	OnNotFound func()               // métricas
}

// Router retorna o roteador HTTP do simulador
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/matches", s.listMatches)
	r.Get("/matches/engine/match/{id}.json", s.getMatch)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) listMatches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"matches": s.Catalog.IDs()})
}

func (s *Server) getMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.Catalog.Get(id)
	if !ok {
		if s.OnNotFound != nil {
			s.OnNotFound()
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "match not found"})
		return
	}
	if s.OnServed != nil {
		s.OnServed(id)
	}
	writeJSON(w, http.StatusOK, m.Payload())
}

// Play avança uma bola em cada partida a cada intervalo até ctx acabar
// ou todas as partidas terminarem.
func (s *Server) Play(ctx context.Context, every time.Duration, onBall func()) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			live := s.Catalog.StepAll()
			if onBall != nil {
				onBall()
			}
			if live == 0 {
				s.Log.Info("all simulated matches finished")
				return
			}
		}
	}
}
