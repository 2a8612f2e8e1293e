package model

import "testing"

func TestNewFailedOutcome(t *testing.T) {
	outcome := NewFailedOutcome("all strategies failed")

	if outcome.Success {
		t.Error("Expected Success to be false")
	}

	if outcome.Cancelled {
		t.Error("Expected Cancelled to be false")
	}

	if outcome.Error != "all strategies failed" {
		t.Errorf("Expected error message 'all strategies failed', got '%s'", outcome.Error)
	}
}

func TestNewCancelledOutcome(t *testing.T) {
	outcome := NewCancelledOutcome()

	if outcome.Success {
		t.Error("Expected Success to be false")
	}

	if !outcome.Cancelled {
		t.Error("Expected Cancelled to be true")
	}

	if outcome.Error != CancelledMessage {
		t.Errorf("Expected error message '%s', got '%s'", CancelledMessage, outcome.Error)
	}
}

func TestHasCodec(t *testing.T) {
	tests := []struct {
		codec    string
		expected bool
	}{
		{"avc1.640028", true},
		{"mp4a.40.2", true},
		{"none", false},
		{"null", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := HasCodec(tt.codec); got != tt.expected {
			t.Errorf("HasCodec(%q) = %v, expected %v", tt.codec, got, tt.expected)
		}
	}
}

func TestStreamDescriptorSize(t *testing.T) {
	exact := StreamDescriptor{Filesize: 1000, FilesizeApprox: 2000}
	if exact.Size() != 1000 {
		t.Errorf("Expected exact filesize 1000, got %d", exact.Size())
	}

	approx := StreamDescriptor{FilesizeApprox: 2000}
	if approx.Size() != 2000 {
		t.Errorf("Expected approximate filesize 2000, got %d", approx.Size())
	}

	unknown := StreamDescriptor{}
	if unknown.Size() != 0 {
		t.Errorf("Expected zero filesize, got %d", unknown.Size())
	}
}
