// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Cinemateca API server.
//
// Every object-storage credential is marked required so a misconfigured
// deployment fails at startup instead of on the first upload.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis, refresh-token sessions)
	RedisURL string `env:"REDIS_URL,required"`

	// JWT signing secret (HS256)
	JWTSecret string `env:"JWT_SECRET,required"`

	// Object Storage (Supabase Storage / MinIO / any S3-compatible provider).
	// StorageBaseURL is the public host that serves uploaded media
	// ({base}/object/public/{bucket}/{path}); StorageS3Endpoint is the
	// S3-protocol endpoint used for API calls.
	StorageBaseURL    string `env:"STORAGE_BASE_URL,required"`
	StorageS3Endpoint string `env:"STORAGE_S3_ENDPOINT,required"`
	StorageAccessKey  string `env:"STORAGE_ACCESS_KEY,required"`
	StorageSecretKey  string `env:"STORAGE_SECRET_KEY,required"`
	StorageBucket     string `env:"STORAGE_BUCKET,required"`
	StorageRegion     string `env:"STORAGE_REGION" envDefault:"auto"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
