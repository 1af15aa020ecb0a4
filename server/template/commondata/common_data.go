// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package commondata

import (
	"net/http"

	"codeberg.org/webko/site/server/utils"
)

// PageCommonData holds request-derived values accessible in views and handlers.
//
// It is populated once per request and attached to the
// request_context.RequestContext.
//
// Usage:
//
//	// In a view:
//	cd := request_context.FromContext(ctx).CommonData
//	// Now you can access fields like cd.BaseURL, cd.CurrentPath, etc.
type PageCommonData struct {
	// BaseURL is the origin URL (scheme + host) of the current request.
	BaseURL string

	// CurrentPath is the URL path from request (e.g., "/en/about").
	CurrentPath string

	// CurrentPathWithParams is the full request URI including query parameters.
	CurrentPathWithParams string

	// FullURL is the complete URL (scheme + host + path) of the request, not including query parameters.
	FullURL string

	// Queries is the URL query parameters (first value only for each key).
	Queries map[string]string
}

// PopulatePageCommonData fills the PageCommonData struct from the request.
func PopulatePageCommonData(r *http.Request, data *PageCommonData) {
	data.BaseURL = utils.GetOriginFromRequest(r)
	data.CurrentPath = r.URL.Path
	data.CurrentPathWithParams = r.URL.RequestURI()
	data.FullURL = data.BaseURL + r.URL.Path

	data.Queries = make(map[string]string)

	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			data.Queries[k] = v[0]
		}
	}
}
