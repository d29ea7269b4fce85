package ticker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/radieske/wicketick/internal/feed"
	"github.com/radieske/wicketick/internal/wicketick"
)

// scriptedFetcher devolve os resultados na ordem; depois repete o último.
type scriptedFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
}

type fetchResult struct {
	snap wicketick.Snapshot
	err  error
}

func (f *scriptedFetcher) Fetch(ctx context.Context, src wicketick.Source) (wicketick.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	index := f.calls
	if index >= len(f.results) {
		index = len(f.results) - 1
	}
	f.calls++
	r := f.results[index]
	return r.snap, r.err
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func innings(runs uint32) wicketick.Snapshot {
	return wicketick.Snapshot{CurrentInnings: wicketick.Innings{Runs: runs, Wickets: 1, Overs: "10"}}
}

func TestNewRejectsTemplateSource(t *testing.T) {
	_, err := New(wicketick.Remote(""), &scriptedFetcher{}, time.Second)
	if !errors.Is(err, wicketick.ErrNoSelection) {
		t.Errorf("error = %v, want ErrNoSelection", err)
	}
}

func TestNewDefaultsInterval(t *testing.T) {
	tk, err := New(wicketick.Remote("1"), &scriptedFetcher{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if tk.PollInterval() != DefaultPollInterval {
		t.Errorf("interval = %v", tk.PollInterval())
	}
}

func TestRefreshUpdatesSummaryAndLastRefresh(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{snap: innings(50)}}}
	tk, err := New(wicketick.Remote("1"), fetcher, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	stamp := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	tk.now = func() time.Time { return stamp }

	if _, ok := tk.Summary(); ok {
		t.Fatal("fresh ticker should have no summary")
	}
	before := ActivePollers()

	if err := tk.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	summary, ok := tk.Summary()
	if !ok || summary.CurrentInnings.Runs != 50 {
		t.Errorf("summary = %+v, %v", summary, ok)
	}
	last, ok := tk.LastRefresh()
	if !ok || !last.Equal(stamp) {
		t.Errorf("lastRefresh = %v, %v", last, ok)
	}
	if ActivePollers() != before {
		t.Errorf("refresh spawned a background task")
	}
}

func TestRefreshFailureKeepsState(t *testing.T) {
	boom := errors.New("unreachable")
	fetcher := &scriptedFetcher{results: []fetchResult{{snap: innings(10)}, {err: boom}}}
	tk, err := New(wicketick.Local("m.json"), fetcher, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := tk.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	firstRefresh, _ := tk.LastRefresh()

	err = tk.Refresh(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}
	summary, _ := tk.Summary()
	if summary.CurrentInnings.Runs != 10 {
		t.Errorf("summary changed on failure: %+v", summary)
	}
	if last, _ := tk.LastRefresh(); !last.Equal(firstRefresh) {
		t.Errorf("lastRefresh changed on failure")
	}
}

func TestRefetchDoesNotMutate(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{snap: innings(77)}}}
	tk, err := New(wicketick.Remote("1"), fetcher, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := tk.Refetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.CurrentInnings.Runs != 77 || snap.FetchedAt.IsZero() {
		t.Errorf("refetch = %+v", snap)
	}
	if _, ok := tk.Summary(); ok {
		t.Error("Refetch mutated the summary")
	}
	if _, ok := tk.LastRefresh(); ok {
		t.Error("Refetch mutated lastRefresh")
	}
}

func TestApplyUsesFetchTime(t *testing.T) {
	tk, err := New(wicketick.Remote("1"), feed.FetcherFunc(func(context.Context, wicketick.Source) (wicketick.Snapshot, error) {
		return wicketick.Snapshot{}, nil
	}), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	fetched := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	snap := innings(3)
	snap.FetchedAt = fetched
	tk.Apply(snap)

	if last, ok := tk.LastRefresh(); !ok || !last.Equal(fetched) {
		t.Errorf("lastRefresh = %v", last)
	}
}

func TestApplyDropsOlderSnapshot(t *testing.T) {
	tk, err := New(wicketick.Remote("1"), feed.FetcherFunc(func(context.Context, wicketick.Source) (wicketick.Snapshot, error) {
		return wicketick.Snapshot{}, nil
	}), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	fetched := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	fresh := innings(20)
	fresh.FetchedAt = fetched
	stale := innings(10)
	stale.FetchedAt = fetched.Add(-time.Second)
	same := innings(21)
	same.FetchedAt = fetched

	if !tk.Apply(fresh) {
		t.Fatal("fresh snapshot rejected")
	}
	if tk.Apply(stale) {
		t.Error("older snapshot applied")
	}
	if snap, _ := tk.Summary(); snap.CurrentInnings.Runs != 20 {
		t.Errorf("runs = %d, want 20", snap.CurrentInnings.Runs)
	}
	if last, _ := tk.LastRefresh(); !last.Equal(fetched) {
		t.Errorf("lastRefresh = %v, want %v", last, fetched)
	}
	if !tk.Apply(same) {
		t.Error("snapshot with equal fetch time rejected")
	}
}
