// Package config loads, normalizes, and validates cgreplay configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, loads a .env file from the working directory, and honours
// environment fallbacks such as CGREPLAY_CATALOG. The Config type gathers the
// catalog location, the last-known-good fallback list, the pair count, and the
// storage, logging, and server settings in one place.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
