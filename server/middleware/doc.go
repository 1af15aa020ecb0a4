// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware of the site and CatchError,
the error boundary wrapped around every handler.

Route definitions are centralized in the router package, which chains these
middlewares in front of an http.ServeMux.
*/
package middleware
