// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

/*
Package supervisor runs the long-lived services of Cityfeed under suture v4.

The tree has two layers:

	RootSupervisor ("cityfeed")
	├── DataSupervisor ("data-layer")
	│   └── CatalogReloadService (static provider with CATALOG_RELOAD_INTERVAL)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Canceling the context
passed to Serve stops every service, each within TreeConfig.ShutdownTimeout.
Supervisor events are logged through sutureslog, usually with the slog
handler from internal/logging so they share the zerolog output.

Usage:

	tree, err := supervisor.NewSupervisorTree(slog.New(logging.NewSlogHandler()), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	return tree.Serve(ctx)
*/
package supervisor
