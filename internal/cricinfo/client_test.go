package cricinfo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/radieske/wicketick/internal/wicketick"
)

var fixedNow = time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(server.URL, 2*time.Second)
	client.Now = func() time.Time { return fixedNow }
	return client
}

func TestMatchSummaryMapsLiveState(t *testing.T) {
	payload, err := os.ReadFile(filepath.Join("testdata", "live_t20.json"))
	if err != nil {
		t.Fatal(err)
	}
	var requested string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	})

	snapshot, err := client.MatchSummary(context.Background(), "1410472")
	if err != nil {
		t.Fatalf("MatchSummary: %v", err)
	}
	if requested != "/matches/engine/match/1410472.json" {
		t.Errorf("requested path %q", requested)
	}
	if got := snapshot.CurrentInnings.Display(); got != "120-4 15.2" {
		t.Errorf("innings = %q", got)
	}
	if snapshot.CurrentInnings.Target != nil {
		t.Errorf("target 0 should map to none, got %d", *snapshot.CurrentInnings.Target)
	}
	if !snapshot.FetchedAt.Equal(fixedNow) {
		t.Errorf("FetchedAt = %v", snapshot.FetchedAt)
	}

	players := snapshot.ActivePlayers
	if players.BatterOne == nil || players.BatterOne.Display() != "Nicholas Pooran* 45 (30)" {
		t.Errorf("batter one = %+v", players.BatterOne)
	}
	// balls_faced malformado cai para 0
	if players.BatterTwo == nil || players.BatterTwo.Display() != "Rovman Powell 12 (0)" {
		t.Errorf("batter two = %+v", players.BatterTwo)
	}
	if players.BowlerOne == nil || players.BowlerOne.Display() != "Adil Rashid 2-30 (3.2)" {
		t.Errorf("bowler one = %+v", players.BowlerOne)
	}
	if players.BowlerTwo == nil || players.BowlerTwo.Display() != "Unknown 0-28 (4)" {
		t.Errorf("bowler two = %+v", players.BowlerTwo)
	}
}

func TestMatchSummaryStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	_, err := client.MatchSummary(context.Background(), "1")
	var fetchErr *wicketick.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error %v is not a FetchError", err)
	}
	if fetchErr.Stage != wicketick.StageStatus {
		t.Errorf("stage = %q, want %q", fetchErr.Stage, wicketick.StageStatus)
	}
}

func TestMatchSummaryDecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"live": [`))
	})

	_, err := client.MatchSummary(context.Background(), "1")
	if got := wicketick.FetchStage(err); got != wicketick.StageDecode {
		t.Errorf("stage = %q, want %q (err %v)", got, wicketick.StageDecode, err)
	}
}

func TestMatchSummaryHonoursContext(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.MatchSummary(ctx, "1")
	if got := wicketick.FetchStage(err); got != wicketick.StageTransport {
		t.Errorf("stage = %q, want %q (err %v)", got, wicketick.StageTransport, err)
	}
}

func TestMatchSummaryRequiresID(t *testing.T) {
	client := New("", time.Second)
	if _, err := client.MatchSummary(context.Background(), ""); !errors.Is(err, wicketick.ErrNoSelection) {
		t.Errorf("error = %v, want ErrNoSelection", err)
	}
}

func TestLoadMatchSummary(t *testing.T) {
	client := New("", time.Second)
	client.Now = func() time.Time { return fixedNow }

	snapshot, err := client.LoadMatchSummary(filepath.Join("testdata", "local_chase.json"))
	if err != nil {
		t.Fatalf("LoadMatchSummary: %v", err)
	}
	if got := snapshot.Display(); got != "201-6 41.3\ntarget 287" {
		t.Errorf("Display() = %q", got)
	}

	_, err = client.LoadMatchSummary(filepath.Join("testdata", "missing.json"))
	if got := wicketick.FetchStage(err); got != wicketick.StageIO {
		t.Errorf("stage = %q, want %q", got, wicketick.StageIO)
	}
}
