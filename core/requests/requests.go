// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package requests performs the HTTP reads the site makes against the CMS.

Every request is audited, optionally rate limited and, for GET requests,
optionally served from an in-memory response cache.
*/
package requests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"codeberg.org/webko/site/config"
	"codeberg.org/webko/site/core/audit"
	"codeberg.org/webko/site/core/idgen"
	"codeberg.org/webko/site/server/request_context"
	"codeberg.org/webko/site/server/utils"
)

var (
	errInvalidJSON      = errors.New("response contained invalid JSON")
	errAPIResponseError = errors.New("CMS response indicated error")
	errMissingDocs      = errors.New("response has no docs array")
)

// GetJSON makes a GET request and returns the response body after checking
// that it is valid JSON without a non-empty "errors" array.
//
// Returns an *APIError for responses with a status code of 400 or above.
func GetJSON(ctx context.Context, url string, header http.Header) ([]byte, error) {
	body, err := do(ctx, RequestOptions{
		Method: http.MethodGet,
		URL:    url,
		Header: header,
	})
	if err != nil {
		return nil, err
	}

	return processJSONResponse(body)
}

// Docs extracts the raw "docs" array of a collection response envelope.
func Docs(body []byte) ([]byte, error) {
	docs := gjson.GetBytes(body, "docs")
	if !docs.IsArray() {
		return nil, errMissingDocs
	}

	return []byte(docs.Raw), nil
}

// Do sends an HTTP request and returns the raw *http.Response and the response body as a byte slice.
//
// GET responses with status 200 are cached when the cache is enabled and the
// incoming request did not ask to bypass it. Cached responses are returned
// with a synthetic 200 response.
//
// This function does not check for non-OK status codes, leaving that task to the caller.
func Do(ctx context.Context, opts RequestOptions) (*http.Response, []byte, error) {
	useCache := cacheable(ctx, opts)

	if useCache {
		if body, ok := cache.Get(opts.URL); ok {
			logCacheHit(ctx, opts, body)

			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(bytes.NewReader(body)),
			}, body, nil
		}
	}

	if err := waitForLimiter(ctx); err != nil {
		return nil, nil, err
	}

	req, err := newRequest(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	resp, body, err := sendRequest(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	if useCache && resp.StatusCode == http.StatusOK {
		cache.Set(opts.URL, body)
	}

	return resp, body, nil
}

// do performs a request using the given options and maps error status codes to *APIError.
func do(ctx context.Context, opts RequestOptions) ([]byte, error) {
	resp, body, err := Do(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, resp.StatusCode),
			Err:        errAPIResponseError,
		}
	}

	return body, nil
}

// errorMessage extracts a human readable message from a CMS error body.
func errorMessage(body []byte, statusCode int) string {
	if gjson.ValidBytes(body) {
		result := gjson.ParseBytes(body)

		if message := result.Get("errors.0.message").String(); message != "" {
			return message
		}

		if message := result.Get("message").String(); message != "" {
			return message
		}
	}

	if message := http.StatusText(statusCode); message != "" {
		return message
	}

	return "An unknown API error occurred"
}

// processJSONResponse validates a JSON body and surfaces CMS-level errors
// returned with a 2xx status.
func processJSONResponse(body []byte) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %.200s", errInvalidJSON, string(body))
	}

	if errs := gjson.GetBytes(body, "errors"); errs.IsArray() && len(errs.Array()) > 0 {
		message := errs.Get("0.message").String()
		if message == "" {
			message = "CMS response contained an error with no message"
		}

		return nil, fmt.Errorf("%w: %s", errAPIResponseError, message)
	}

	return body, nil
}

// newRequest constructs an *http.Request from RequestOptions.
func newRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for name, values := range opts.Header {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "webko-site/"+config.BuildVersion)

	return req, nil
}

// sendRequest executes the HTTP request within the configured timeout, reads
// the body for auditing, and returns the response with a new, readable body
// stream, along with the raw body bytes.
func sendRequest(
	ctx context.Context,
	req *http.Request,
) (_ *http.Response, _ []byte, err error) {
	span := audit.Span{
		Destination: audit.ToCMS,
		RequestID:   request_context.FromContext(ctx).RequestID + "-" + idgen.Make(),
		Method:      req.Method,
		URL:         req.URL.String(),
	}

	defer func() {
		span.Error = err
		span.End()
		span.Log()
	}()

	spanCtx := span.Begin(ctx)

	if timeout := config.Global.CMS.Timeout; timeout > 0 {
		var cancel context.CancelFunc

		spanCtx, cancel = context.WithTimeout(spanCtx, timeout)
		defer cancel()
	}

	resp, err := utils.HTTPClient.Do(req.WithContext(spanCtx))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.Body = body

	// Replace the consumed body with a new reader so the caller can still read it.
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return resp, body, nil
}

func logCacheHit(ctx context.Context, opts RequestOptions, body []byte) {
	span := audit.Span{
		Destination: audit.ToCMS,
		RequestID:   request_context.FromContext(ctx).RequestID,
		Method:      opts.Method,
		URL:         opts.URL,
		StatusCode:  http.StatusOK,
		Body:        body,
		CacheHit:    true,
	}

	span.Begin(ctx)
	span.End()
	span.Log()
}

// IsContextCanceled returns true if the error is due to context cancellation or deadline exceeded.
func IsContextCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
