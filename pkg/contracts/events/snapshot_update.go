package events

import (
	"time"

	"github.com/radieske/wicketick/internal/wicketick"
)

// Evento publicado no tópico "match_snapshots"
type SnapshotUpdate struct {
	SourceKey   string             `json:"source_key"` // "remote:1410472"
	MatchID     string             `json:"match_id"`
	Version     int64              `json:"version"`   // incrementado a cada snapshot do mesmo poller
	PublishedAt time.Time          `json:"published_at"`
	Producer    string             `json:"producer"` // id do poller
	Snapshot    wicketick.Snapshot `json:"snapshot"`
}

// Newer diz se u substitui cur para o mesmo produtor; produtores diferentes
// só substituem com fetch estritamente posterior (empate fica com o corrente).
func (u SnapshotUpdate) Newer(cur SnapshotUpdate) bool {
	if u.Producer != "" && u.Producer == cur.Producer {
		return u.Version > cur.Version
	}
	return u.Snapshot.FetchedAt.After(cur.Snapshot.FetchedAt)
}
