// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRefUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantID   PageID
		expanded bool
		wantNil  bool
	}{
		{name: "number", input: `{"parentPage": 42}`, wantID: 42},
		{name: "numeric string", input: `{"parentPage": "42"}`, wantID: 42},
		{name: "object", input: `{"parentPage": {"id": 42, "slug": "services"}}`, wantID: 42, expanded: true},
		{name: "null", input: `{"parentPage": null}`, wantNil: true},
		{name: "absent", input: `{}`, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var item NavItem
			require.NoError(t, json.Unmarshal([]byte(tt.input), &item))

			if tt.wantNil {
				assert.Nil(t, item.ParentPage)
				assert.False(t, item.ParentPage.Expanded())

				return
			}

			require.NotNil(t, item.ParentPage)
			assert.Equal(t, tt.wantID, item.ParentPage.ID)
			assert.Equal(t, tt.expanded, item.ParentPage.Expanded())
		})
	}
}

func TestPageRefUnmarshalInvalid(t *testing.T) {
	t.Parallel()

	var ref PageRef

	require.Error(t, json.Unmarshal([]byte(`"abc"`), &ref))
	require.Error(t, json.Unmarshal([]byte(`true`), &ref))
}

func TestPageRefMarshal(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(PageRef{ID: 5})
	require.NoError(t, err)
	assert.JSONEq(t, `5`, string(data))

	data, err = json.Marshal(PageRef{ID: 5, Page: &PageSummary{ID: 5, Slug: "x"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":5,"title":"","slug":"x","breadcrumbs":null}`, string(data))
}

func TestOptionalStrMap(t *testing.T) {
	t.Parallel()

	var theme Theme

	require.NoError(t, json.Unmarshal([]byte(`{"colors": {"primary": "#000"}}`), &theme))
	assert.Equal(t, "#000", theme.Colors["primary"])

	require.NoError(t, json.Unmarshal([]byte(`{"colors": []}`), &theme))
	assert.Nil(t, theme.Colors)
}
