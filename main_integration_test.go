// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.

The server runs against a stub CMS on the loopback interface.
*/
package main

import (
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	host      = "127.0.0.1:8283"
	authority = "http://" + host

	retryCount  = 20
	dialTimeout = 250 * time.Millisecond
)

var pageDocs = map[string]string{
	"home":  `{"id": 1, "title": "Home", "slug": "home", "content": "# Welcome", "contentFormat": "markdown"}`,
	"about": `{"id": 2, "title": "About", "slug": "about", "breadcrumbs": [{"url": "/about"}]}`,
}

// stubCMS answers every CMS read the page shell makes.
func stubCMS() *httptest.Server {
	mux := http.NewServeMux()

	for _, global := range []string{"navigation", "footer", "theme", "site-settings", "ui-strings"} {
		mux.HandleFunc("GET /api/globals/"+global, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{}`)
		})
	}

	mux.HandleFunc("GET /api/languages", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"docs": [{"code": "en", "label": "English"}, {"code": "mk", "label": "Македонски"}]}`)
	})

	mux.HandleFunc("GET /api/pages", func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("where[slug][equals]")

		var docs []string

		for s, doc := range pageDocs {
			if slug == "" || slug == s {
				docs = append(docs, doc)
			}
		}

		_, _ = io.WriteString(w, `{"docs": [`+strings.Join(docs, ",")+`]}`)
	})

	return httptest.NewServer(mux)
}

// TestMain starts the CMS stub and the server, then waits for the server
// to accept connections.
func TestMain(m *testing.M) {
	cms := stubCMS()

	hostName, port, _ := net.SplitHostPort(host)
	os.Setenv("SITE_HOST", hostName)
	os.Setenv("SITE_PORT", port)
	os.Setenv("SITE_CMS_URL", cms.URL)

	go func() {
		if err := run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	code := m.Run()

	cms.Close()
	os.Exit(code)
}

func waitForServerReady() bool {
	for range retryCount {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true
		}

		time.Sleep(dialTimeout)
	}

	return false
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		Timeout:       10 * time.Second,
	}

	testCases := []struct {
		path     string
		status   int
		location string
		contains string
	}{
		{path: "/robots.txt", status: http.StatusOK},
		{path: "/css/site.css", status: http.StatusOK},
		{path: "/js/site.js", status: http.StatusOK},
		{path: "/", status: http.StatusTemporaryRedirect, location: "/en/"},
		{path: "/about", status: http.StatusTemporaryRedirect, location: "/en/about"},
		{path: "/en", status: http.StatusPermanentRedirect, location: "/en/"},
		{path: "/en/", status: http.StatusOK, contains: "Welcome"},
		{path: "/mk/about", status: http.StatusOK, contains: `lang="mk"`},
		{path: "/en/missing", status: http.StatusNotFound, contains: "Page not found"},
		{path: "/sitemap.txt", status: http.StatusOK, contains: authority + "/en/about"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()

			resp, err := client.Get(authority + tc.path)
			require.NoError(t, err)

			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tc.status, resp.StatusCode)

			if tc.location != "" {
				assert.Equal(t, tc.location, resp.Header.Get("Location"))
			}

			if tc.contains != "" {
				assert.Contains(t, string(body), tc.contains)
			}
		})
	}
}
