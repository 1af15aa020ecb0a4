// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views renders the site's HTML as templ components.

[Shell] renders the document chrome shared by every localized page around a
page component. Page components are chosen by CMS template name with
[TemplateFor]. [ErrorPage] renders a standalone document, since the shell data
may be what failed to load.

Views read request-derived values such as the current path from
request_context and translate through the i18n package. They do no I/O.
*/
package views
