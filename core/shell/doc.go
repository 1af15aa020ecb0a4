// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package shell loads the data shared by every localized page: the navigation
bar, the footer and the head.

[Load] validates the locale, reads seven independent CMS documents
concurrently with [Fetch], then resolves the child pages of every dropdown
whose entries come from a parent page with [ResolveDropdowns]. Nothing is
cached here and nothing is shared between requests.
*/
package shell
