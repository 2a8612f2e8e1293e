package config

// Package config persists the engine tuning options as a YAML file.
