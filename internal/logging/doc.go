// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

// Package logging provides zerolog-based structured logging for Cityfeed.
//
// A single global logger is configured once at startup with Init and then
// used through the package-level helpers or through component loggers
// derived with With. Request-scoped fields (request_id, correlation_id)
// travel in the context and are attached by Ctx.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("provider", "static").Msg("Catalog loaded")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Lookup failed")
//
// # Supervisor Integration
//
// Suture reports its events through slog. NewSlogLogger returns an
// slog.Logger that writes into zerolog so supervisor restarts land in the
// same stream as everything else:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
package logging
