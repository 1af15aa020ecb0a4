// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package cms reads globals and pages from the headless CMS REST API.

All reads go through the requests package, so they share its audit logging,
rate limiting and response cache. Localized reads pass the requested locale
together with the default locale as fallback, and resolve link targets and
page pathnames against the requested locale.
*/
package cms
