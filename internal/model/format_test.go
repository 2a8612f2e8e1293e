package model

import "testing"

func TestVideoInfoDisplayTitle(t *testing.T) {
	url := "https://example.com/watch?v=1"

	named := VideoInfo{Title: "A Clip"}
	if got := named.DisplayTitle(url); got != "A Clip" {
		t.Errorf("DisplayTitle() = %q, expected the title", got)
	}

	// Extractors sometimes echo the URL back as the title.
	echoed := VideoInfo{Title: "https://example.com/watch?v=1"}
	if got := echoed.DisplayTitle(url); got != url {
		t.Errorf("DisplayTitle() = %q, expected the url", got)
	}

	empty := VideoInfo{}
	if got := empty.DisplayTitle(url); got != url {
		t.Errorf("DisplayTitle() = %q, expected the url", got)
	}
}
