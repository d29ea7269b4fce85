package wicketick

import (
	"errors"
	"fmt"
	"testing"
)

func TestInningsDisplay(t *testing.T) {
	innings := Innings{Runs: 120, Wickets: 4, Overs: "35.2"}
	if got := innings.Display(); got != "120-4 35.2" {
		t.Errorf("Display() = %q, want \"120-4 35.2\"", got)
	}
}

func TestSnapshotDisplayMinimal(t *testing.T) {
	snapshot := Snapshot{CurrentInnings: Innings{Runs: 7, Wickets: 0, Overs: "1"}}
	if got := snapshot.Display(); got != "7-0 1" {
		t.Errorf("Display() = %q, want \"7-0 1\"", got)
	}
}

func TestSnapshotDisplayFull(t *testing.T) {
	target := uint32(250)
	snapshot := Snapshot{
		CurrentInnings: Innings{Runs: 120, Wickets: 4, Overs: "35.2", Target: &target},
		ActivePlayers: ActivePlayers{
			BatterOne: &Batter{Name: "Root", Runs: 45, BallsFaced: 60, OnStrike: true},
			BatterTwo: &Batter{Name: "Stokes", Runs: 12, BallsFaced: 20},
			BowlerOne: &Bowler{Name: "Starc", Overs: Overs{8, 2}, Wickets: 2, Conceded: 30},
			BowlerTwo: &Bowler{Name: "Lyon", Overs: Overs{7, 0}, Wickets: 1, Conceded: 25},
		},
		Debug: "stale feed",
	}
	want := "120-4 35.2\n" +
		"target 250\n" +
		"Root* 45 (60)   Stokes 12 (20)\n" +
		"Starc 2-30 (8.2)   Lyon 1-25 (7)\n" +
		"stale feed"
	if got := snapshot.Display(); got != want {
		t.Errorf("Display() =\n%s\nwant\n%s", got, want)
	}
}

func TestSnapshotDisplaySkipsMissingPlayers(t *testing.T) {
	snapshot := Snapshot{
		CurrentInnings: Innings{Runs: 1, Wickets: 1, Overs: "0.3"},
		ActivePlayers: ActivePlayers{
			BatterTwo: &Batter{Name: "Buttler", Runs: 0, BallsFaced: 1},
		},
	}
	want := "1-1 0.3\nButtler 0 (1)"
	if got := snapshot.Display(); got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}
}

func TestSourceConcrete(t *testing.T) {
	tests := []struct {
		source Source
		want   bool
	}{
		{Remote("1410472"), true},
		{Remote(""), false},
		{Local("match.json"), true},
		{Local(""), false},
		{Relay("1385691"), true},
		{Source{}, false},
	}
	for _, test := range tests {
		if got := test.source.Concrete(); got != test.want {
			t.Errorf("%+v.Concrete() = %v, want %v", test.source, got, test.want)
		}
	}
}

func TestSourceWithIdentifier(t *testing.T) {
	if got := Remote("").WithIdentifier("42"); got != Remote("42") {
		t.Errorf("remote template = %+v", got)
	}
	if got := Local("").WithIdentifier("m.json"); got != Local("m.json") {
		t.Errorf("local template = %+v", got)
	}
	if got := Remote("42").Key(); got != "remote:42" {
		t.Errorf("Key() = %q", got)
	}
}

func TestParseSourceKind(t *testing.T) {
	kind, err := ParseSourceKind("local")
	if err != nil || kind != SourceLocal {
		t.Fatalf("ParseSourceKind(local) = %v, %v", kind, err)
	}
	if _, err := ParseSourceKind("api"); !errors.Is(err, ErrUnsupportedSource) {
		t.Errorf("ParseSourceKind(api) error = %v, want ErrUnsupportedSource", err)
	}
}

func TestFetchStage(t *testing.T) {
	wrapped := fmt.Errorf("refresh: %w", &FetchError{Stage: StageDecode, Source: Remote("1"), Err: errors.New("bad json")})
	if got := FetchStage(wrapped); got != StageDecode {
		t.Errorf("FetchStage = %q, want %q", got, StageDecode)
	}
	if got := FetchStage(ErrNoSelection); got != "unsupported" {
		t.Errorf("FetchStage(ErrNoSelection) = %q", got)
	}
	if got := FetchStage(errors.New("boom")); got != "other" {
		t.Errorf("FetchStage(other) = %q", got)
	}
}
