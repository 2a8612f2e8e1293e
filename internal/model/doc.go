package model

// Package model defines domain data structures used across the engine: raw
// and normalized stream descriptors, download outcomes, and progress events.
// Structures are plain values designed for direct handoff to a host app.
