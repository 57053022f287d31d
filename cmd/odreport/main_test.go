package main

import "testing"

func TestRICInputsFlagParsing(t *testing.T) {
	var rics ricInputs
	if err := rics.Set("od_vs_flown=truth_error.csv"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := rics.Set("sim_vs_flown=sim_error.csv"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(rics) != 2 {
		t.Fatalf("parsed %d inputs, want 2", len(rics))
	}
	if rics[0].label != "od_vs_flown" || rics[0].path != "truth_error.csv" {
		t.Fatalf("first input = %+v", rics[0])
	}
	if got := rics.String(); got != "od_vs_flown=truth_error.csv,sim_vs_flown=sim_error.csv" {
		t.Fatalf("String = %q", got)
	}
}

func TestRICInputsFlagRejectsMalformed(t *testing.T) {
	var rics ricInputs
	for _, bad := range []string{"no-separator", "=path-only", "label-only="} {
		if err := rics.Set(bad); err == nil {
			t.Fatalf("Set(%q) accepted malformed input", bad)
		}
	}
}
