// Package config handles loading and validating ProjectHub configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - The JWT signing secret should be set via PROJECTHUB_JWT_SECRET, never committed
//   - The config file should have restricted permissions (0600)
//   - Secrets shorter than 32 bytes are rejected
//
// Configuration is loaded once at startup and is read-only afterwards.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.API.Port)
package config
