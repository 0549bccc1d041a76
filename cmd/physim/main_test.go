package main

import (
	"strconv"
	"testing"
)

func TestSizeFlagDefaults(t *testing.T) {
	root := newRootCmd()

	tests := []struct {
		cmd  string
		got  *size
		want size
	}{
		{"plot", &plotSize, size{80, 12}},
		{"trace", &traceSize, size{60, 20}},
		{"export", &svgSize, size{800, 600}},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			if *tt.got != tt.want {
				t.Errorf("%s size = %+v, want %+v", tt.cmd, *tt.got, tt.want)
			}
			cmd, _, err := root.Find([]string{tt.cmd})
			if err != nil {
				t.Fatal(err)
			}
			if def := cmd.Flags().Lookup("width").DefValue; def != strconv.Itoa(tt.want.w) {
				t.Errorf("%s --width default = %s, want %d", tt.cmd, def, tt.want.w)
			}
		})
	}
}

func TestSizeFlagsIndependent(t *testing.T) {
	root := newRootCmd()
	trace, _, err := root.Find([]string{"trace"})
	if err != nil {
		t.Fatal(err)
	}
	if err := trace.ParseFlags([]string{"--width", "40"}); err != nil {
		t.Fatal(err)
	}
	if traceSize.w != 40 {
		t.Errorf("trace width = %d, want 40", traceSize.w)
	}
	if plotSize.w != 80 || svgSize.w != 800 {
		t.Errorf("other widths changed: plot %d, svg %d", plotSize.w, svgSize.w)
	}
}
