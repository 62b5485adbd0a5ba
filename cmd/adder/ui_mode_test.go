package main

import (
	"testing"

	"adder/internal/config"
	"adder/internal/plan"
)

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{in: "", want: uiModeAuto},
		{in: "auto", want: uiModeAuto},
		{in: "ON", want: uiModeOn},
		{in: " off ", want: uiModeOff},
		{in: "tui", wantErr: true},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("readUIMode(%q) accepted, got %q", tc.in, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("readUIMode(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestResolveTarget(t *testing.T) {
	cfg := config.Default()
	pinned := &plan.Plan{Target: 330}
	open := &plan.Plan{}

	if got, err := resolveTarget("3.9", pinned, &cfg); err != nil || got != 390 {
		t.Errorf("flag override = %d, %v; want 390", got, err)
	}
	if got, err := resolveTarget("", pinned, &cfg); err != nil || got != 330 {
		t.Errorf("plan pin = %d, %v; want 330", got, err)
	}
	if got, err := resolveTarget("", open, &cfg); err != nil || got != config.DefaultTarget {
		t.Errorf("config fallback = %d, %v; want %d", got, err, config.DefaultTarget)
	}
	if _, err := resolveTarget("bogus", open, &cfg); err == nil {
		t.Error("malformed flag value accepted")
	}
}
