// Package config loads, normalizes, and validates Cooked configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks for
// vendor credentials (ANTHROPIC_API_KEY, OPENAI_API_KEY,
// GEMINI_API_KEY, ASSEMBLYAI_API_KEY, TRANSCRIPTAPI_API_KEY,
// OCR_API_KEY), including a local .env file. A missing credential
// disables that vendor; it is never a startup failure.
//
// Always obtain settings through this package so downstream code
// receives sanitized paths, canonical log formats, and clear
// validation errors.
package config
