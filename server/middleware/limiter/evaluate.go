// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/webko/site/server/request_context"
	"codeberg.org/webko/site/server/routes"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     = "RateLimit-Limit"
	HeaderRateLimitRemaining = "RateLimit-Remaining"
	HeaderRateLimitReset     = "RateLimit-Reset"
)

var (
	errBlocked     = errors.New("client network is blocked")
	errRateLimited = errors.New("rate limit exceeded")
)

// excludedPaths never consume tokens.
var excludedPaths = []string{
	"/css/",
	"/icons/",
	"/js/",
	"/robots.txt",
}

func isExcludedPath(path string) bool {
	for _, prefix := range excludedPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// Evaluate is the entrypoint to the limiter middleware.
func (l *Limiter) Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer l.maybeCleanup()

	if isExcludedPath(r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	addr, ok := clientAddr(r)
	if !ok {
		next.ServeHTTP(w, r)

		return
	}

	if matchesAny(addr, l.pass) {
		next.ServeHTTP(w, r)

		return
	}

	network := networkOf(addr, l.ipv4Prefix, l.ipv6Prefix)

	if matchesAny(addr, l.block) {
		log.Warn().
			Str("ip", addr.String()).
			Str("network", network.String()).
			Msg("Request blocked, IP in block-list")

		refuse(w, r, http.StatusForbidden, errBlocked)

		return
	}

	q := l.take(network)
	setRateLimitHeaders(w, q)

	if !q.allowed {
		log.Warn().
			Str("ip", addr.String()).
			Str("network", network.String()).
			Msg("Request blocked, exceeded rate limit")

		w.Header().Set("Retry-After", strconv.FormatInt(max(q.reset, 1), 10))
		refuse(w, r, http.StatusTooManyRequests, errRateLimited)

		return
	}

	next.ServeHTTP(w, r)
}

func refuse(w http.ResponseWriter, r *http.Request, status int, err error) {
	rc := request_context.FromRequest(r)
	rc.StatusCode = status
	rc.RequestError = err

	routes.ErrorPage(w, r)
}

func setRateLimitHeaders(w http.ResponseWriter, q quota) {
	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(q.limit))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(q.remaining))
	w.Header().Set(HeaderRateLimitReset, strconv.FormatInt(q.reset, 10))
}
