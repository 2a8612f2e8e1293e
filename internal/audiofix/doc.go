package audiofix

// Package audiofix detects audio downloads whose container does not match
// their extension (raw ADTS streams delivered as .m4a or .mp4) and fixes
// the extension so downstream players and mergers probe them correctly.
