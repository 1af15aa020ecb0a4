// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import "context"

// ClientMessages are the msgids exposed to client-side scripts through the
// translation-message scope rendered by the page shell.
var ClientMessages = []MsgKey{
	"Open menu",
	"Close menu",
	"Language",
	"Loading…",
	"Something went wrong. Please try again.",
}

// Messages translates keys for the locale in ctx, keyed by msgid.
func Messages(ctx context.Context, keys ...MsgKey) map[string]string {
	out := make(map[string]string, len(keys))

	for _, key := range keys {
		out[string(key)] = key.Tr(ctx)
	}

	return out
}
