// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"io/fs"
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/webko/site/config"
	"codeberg.org/webko/site/server/middleware"
	"codeberg.org/webko/site/server/routes"
)

// DefineRoutes sets up all the routes for the site on router.
//
// static holds the files served under /css/, /icons/, /js/ and /robots.txt.
func (router *Router) DefineRoutes(static fs.FS) {
	fileServerHandler := fileServer(static)

	router.Handle("GET /robots.txt", fileServerHandler)

	// Patterns ending in "/" are prefix matches.
	router.Handle("GET /css/", fileServerHandler)
	router.Handle("GET /icons/", fileServerHandler)
	router.Handle("GET /js/", fileServerHandler)

	router.HandleFunc("GET /sitemap.txt", middleware.CatchError(routes.Sitemap))

	// /{$} matches only the root path
	router.HandleFunc("GET /{$}", middleware.CatchError(routes.RootRedirect))

	// Links without a locale prefix, e.g. /about.
	router.HandleFunc("GET /{page}", redirectToLocale)

	router.HandleFunc("GET /{locale}/{path...}", middleware.CatchError(routes.LocalizedPage))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}
}

// Serve static files from embedded assets.
func fileServer(static fs.FS) http.HandlerFunc {
	fileServer := http.FileServerFS(static)

	return func(w http.ResponseWriter, r *http.Request) {
		// Using a strong ETag for static files embedded via go:embed
		// ref: https://www.rfc-editor.org/rfc/rfc9110#weak.and.strong.validators
		//
		// Since go:embed requires rebuilding when files change, we use a per-instance
		// cache ID to ensure browsers fetch fresh content after any deployment.
		w.Header().Set("ETag", `"`+config.Global.Instance.FileServerCacheID+`"`)
		fileServer.ServeHTTP(w, r)
	}
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	if !flightRecorder.Enabled() {
		if err := flightRecorder.Start(); err != nil {
			panic(err)
		}
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
