// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

/*
Package services adapts Cityfeed components to suture.Service.

  - HTTPServerService turns ListenAndServe/Shutdown into a context-aware Serve
    with a bounded graceful shutdown.
  - CatalogReloadService reloads the static catalog fixture on a ticker.

Every service implements fmt.Stringer so supervisor events name it.
*/
package services
