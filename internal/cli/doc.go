package cli

// Package cli wires the download engine to a cobra command tree.
