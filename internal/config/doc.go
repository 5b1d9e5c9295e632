// Package config loads, normalizes, and validates librieval configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// HF_TOKEN and ASSEMBLYAI_API_KEY. The Config type centralizes the corpus
// location, transcript output directory, ledger path, backend selection, and
// scoring policy so the CLI and the batch runner read them in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a canonical format list, and clear validation errors.
package config
