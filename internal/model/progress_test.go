package model

import "testing"

func TestProgressStatusIsTerminal(t *testing.T) {
	if ProgressDownloading.IsTerminal() {
		t.Error("Expected downloading to be non-terminal")
	}

	if !ProgressFinished.IsTerminal() {
		t.Error("Expected finished to be terminal")
	}

	if !ProgressError.IsTerminal() {
		t.Error("Expected error to be terminal")
	}
}

func TestProgressPercent(t *testing.T) {
	p := Progress{DownloadedBytes: 250, TotalBytes: 1000}
	if p.Percent() != 25 {
		t.Errorf("Expected 25%%, got %f", p.Percent())
	}

	unknown := Progress{DownloadedBytes: 250}
	if unknown.Percent() != 0 {
		t.Errorf("Expected 0%% for unknown total, got %f", unknown.Percent())
	}
}

func TestProgressETAString(t *testing.T) {
	tests := []struct {
		etaSec   int
		expected string
	}{
		{-1, "—"},
		{0, "—"},
		{65, "01:05"},
		{3725, "01:02:05"},
	}

	for _, tt := range tests {
		p := Progress{ETASec: tt.etaSec}
		if got := p.ETAString(); got != tt.expected {
			t.Errorf("ETAString(%d) = %q, expected %q", tt.etaSec, got, tt.expected)
		}
	}
}
