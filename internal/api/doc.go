// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

/*
Package api provides the HTTP surface of cityfeed.

The package is a thin layer over recommend.Engine and geo.Resolver: handlers
parse and validate query parameters, call exactly one engine operation, and
serialize the result inside the models.APIResponse envelope.

Routes (chi, mounted under /api/v1):

	GET    /feeds/popular?limit=
	GET    /feeds/nearest?city=&ip=&limit=
	GET    /feeds/personalized?user_id=&limit=
	GET    /feeds/similar?seed=m1,m2&exclude=&user_id=&limit=
	GET    /users/interests?user_id=
	GET    /users/ratings?user_id=
	PUT    /users/ratings              (live catalog only)
	DELETE /users/ratings?user_id=&media_id=  (live catalog only)
	GET    /media?user_id=
	GET    /location?city=&ip=
	GET    /health/live
	GET    /health/ready

Prometheus metrics are served at /metrics outside the versioned prefix.

User Identifiers:

A missing user_id on a user-scoped route is a 400 MISSING_USER_ID. A
malformed user_id is treated as an unknown user: the personalized feed falls
back to popular items, and interests and ratings are empty.

Middleware Stack:

	RequestID -> Recoverer -> CORS -> Compress -> RateLimit ->
	APISecurityHeaders -> PrometheusMetrics -> handler

Usage Example:

	handler := api.NewHandler(engine, resolver, provider)
	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
