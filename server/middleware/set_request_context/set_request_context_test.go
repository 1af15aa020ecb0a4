// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/webko/site/server/middleware"
	"codeberg.org/webko/site/server/request_context"
)

// serve runs one request through the middleware and returns the context seen by the handler.
func serve(t *testing.T, r *http.Request) request_context.RequestContext {
	t.Helper()

	var seen request_context.RequestContext

	handler := middleware.Wrap(WithRequestContext, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = *request_context.FromRequest(r)

		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)

	return seen
}

func TestWithRequestContextAttachesContext(t *testing.T) {
	t.Parallel()

	rc := serve(t, httptest.NewRequest(http.MethodGet, "http://example.com/en/about?x=1", nil))

	assert.NotEmpty(t, rc.RequestID)
	assert.Equal(t, http.StatusOK, rc.StatusCode)
	assert.NoError(t, rc.RequestError)
	assert.False(t, rc.BypassCache)
	assert.Equal(t, "/en/about", rc.CommonData.CurrentPath)
	assert.Equal(t, "1", rc.CommonData.Queries["x"])
}

func TestWithRequestContextUniqueRequestIDs(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)

	for range 3 {
		rc := serve(t, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.False(t, seen[rc.RequestID], "duplicate request id %s", rc.RequestID)
		seen[rc.RequestID] = true
	}
}

func TestWithRequestContextBypassCache(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/en/", nil)
	r.Header.Set("Cache-Control", "No-Cache")

	assert.True(t, serve(t, r).BypassCache)
}
