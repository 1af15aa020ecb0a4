// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cms

import (
	"bytes"
	"encoding/json"
)

// OptionalStrMap is a map that also accepts an empty JSON array or null.
//
// The CMS returns [] instead of {} for groups that were never filled in.
type OptionalStrMap[V any] map[string]V

// UnmarshalJSON decodes an object into the map; [] and null yield a nil map.
func (m *OptionalStrMap[V]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("[]")) || bytes.Equal(data, []byte("null")) {
		*m = nil

		return nil
	}

	var nm map[string]V
	if err := json.Unmarshal(data, &nm); err != nil {
		return err
	}

	*m = OptionalStrMap[V](nm)

	return nil
}
