// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that throttles inbound requests per client network.

Every page view costs several CMS reads, so clients are grouped by network
prefix and share a token bucket. Pass-listed addresses skip the bucket and
block-listed ones are refused outright.
*/
package limiter
