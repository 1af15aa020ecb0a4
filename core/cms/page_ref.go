// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cms

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PageRef is a relationship to a page. Depending on the query depth the CMS
// returns either the bare page id or the embedded page document.
type PageRef struct {
	ID PageID
	// Page is set only when the relationship was expanded.
	Page *PageSummary
}

// Expanded reports whether the referenced page document is embedded.
func (r *PageRef) Expanded() bool {
	return r != nil && r.Page != nil
}

// UnmarshalJSON accepts a number, a numeric string or a page object.
func (r *PageRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*r = PageRef{}

		return nil
	case data[0] == '{':
		var page PageSummary
		if err := json.Unmarshal(data, &page); err != nil {
			return fmt.Errorf("decode page relationship: %w", err)
		}

		*r = PageRef{ID: page.ID, Page: &page}

		return nil
	case data[0] == '"':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode page relationship: %w", err)
		}

		id, err := n.Int64()
		if err != nil {
			return fmt.Errorf("decode page relationship %s: %w", data, err)
		}

		*r = PageRef{ID: PageID(id)}

		return nil
	default:
		var id PageID
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("decode page relationship: %w", err)
		}

		*r = PageRef{ID: id}

		return nil
	}
}

// MarshalJSON writes the embedded document when expanded, otherwise the id.
func (r PageRef) MarshalJSON() ([]byte, error) {
	if r.Page != nil {
		return json.Marshal(r.Page)
	}

	return json.Marshal(r.ID)
}
