// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package commondata

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopulatePageCommonData(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "http://example.com/mk/about?ref=nav&ref=x", nil)

	var data PageCommonData
	PopulatePageCommonData(r, &data)

	assert.Equal(t, "http://example.com", data.BaseURL)
	assert.Equal(t, "/mk/about", data.CurrentPath)
	assert.Equal(t, "/mk/about?ref=nav&ref=x", data.CurrentPathWithParams)
	assert.Equal(t, "http://example.com/mk/about", data.FullURL)
	assert.Equal(t, map[string]string{"ref": "nav"}, data.Queries)
}
