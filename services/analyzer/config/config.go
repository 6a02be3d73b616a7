// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads service configuration from the environment.
//
// The provider credential is the only required setting; Load fails fast
// when it is absent. Model name, sampling temperature and the output
// token limit are fixed constants, not runtime-tunable.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Fixed model parameters for every node's language-model call.
const (
	ModelName   = "gpt-3.5-turbo"
	Temperature = float32(0.1)
	MaxTokens   = 2000
)

// DefaultPort is the HTTP listen port when ANALYZER_PORT is unset.
const DefaultPort = "8000"

// DefaultCheckpointPath is the badger directory when CHECKPOINT_DB_PATH is unset.
const DefaultCheckpointPath = "checkpoints"

// ErrMissingAPIKey indicates the required provider credential is absent.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable is required")

// Config holds the resolved service configuration.
type Config struct {
	// OpenAIAPIKey is the provider credential. Never logged.
	OpenAIAPIKey string

	// Port is the HTTP listen port.
	Port string

	// CheckpointPath is the directory for the badger checkpoint store.
	CheckpointPath string

	// OTELEndpoint is the OTLP collector address. Empty disables tracing.
	OTELEndpoint string
}

// Load reads configuration from the environment.
//
// Description:
//
//	Loads a .env file when present (missing files are ignored), then
//	resolves all settings. Fails fast when OPENAI_API_KEY is not set;
//	everything else has a default.
//
// Outputs:
//
//	*Config - The resolved configuration.
//	error - ErrMissingAPIKey when the credential is absent.
func Load() (*Config, error) {
	// A missing .env is normal in container deployments.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded environment from .env file")
	}

	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := &Config{
		OpenAIAPIKey:   apiKey,
		Port:           os.Getenv("ANALYZER_PORT"),
		CheckpointPath: os.Getenv("CHECKPOINT_DB_PATH"),
		OTELEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.CheckpointPath == "" {
		cfg.CheckpointPath = DefaultCheckpointPath
	}

	return cfg, nil
}
