package wicketick

import (
	"encoding/json"
	"testing"
)

func TestParseOvers(t *testing.T) {
	tests := []struct {
		input string
		want  Overs
	}{
		{"12,3", Overs{12, 3}},
		{"12.3", Overs{12, 3}},
		{"12,0", Overs{12, 0}},
		{"12", Overs{12, 0}},
		{"0", Overs{0, 0}},
		{" 7,1 ", Overs{7, 1}},
		// bolas fora do intervalo 0-5 são aceitas
		{"3,9", Overs{3, 9}},
		{"abc", Overs{}},
		{"1,2,3", Overs{}},
		{"1.2.3", Overs{}},
		{"x,2", Overs{}},
		{"2,y", Overs{}},
		{"", Overs{}},
		{",", Overs{}},
		{"-1", Overs{}},
	}
	for _, test := range tests {
		got := ParseOvers(test.input)
		if got != test.want {
			t.Errorf("ParseOvers(%q) = %+v, want %+v", test.input, got, test.want)
		}
	}
}

func TestOversRoundTrip(t *testing.T) {
	for _, input := range []string{"1,1", "12,3", "49,5", "0,2"} {
		parsed := ParseOvers(input)
		want := input[:len(input)-2] + "." + input[len(input)-1:]
		if got := parsed.String(); got != want {
			t.Errorf("format(parse(%q)) = %q, want %q", input, got, want)
		}
	}
}

func TestOversZeroBallsFormatsWholeOvers(t *testing.T) {
	withZero := ParseOvers("12,0")
	bare := ParseOvers("12")
	if withZero != bare {
		t.Fatalf("\"12,0\" parsed to %+v, \"12\" to %+v", withZero, bare)
	}
	if got := withZero.String(); got != "12" {
		t.Errorf("String() = %q, want \"12\"", got)
	}
}

func TestOversJSON(t *testing.T) {
	bowler := Bowler{Name: "Anderson", Overs: Overs{8, 2}, Wickets: 2, Conceded: 30}
	data, err := json.Marshal(bowler)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Bowler
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != bowler {
		t.Errorf("decoded %+v, want %+v", decoded, bowler)
	}
}
