// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	for _, compress := range []bool{false, true} {
		cache, err := New(3, time.Minute, compress)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cache.Len() != 0 {
			t.Errorf("expected cache length to be 0, got %d", cache.Len())
		}
	}

	if cache, err := New(0, time.Minute, false); err == nil || cache != nil {
		t.Fatal("expected error when creating cache of size 0")
	}
}

// TestSetAndGet verifies retrieval and that eviction occurs once the capacity is reached.
func TestSetAndGet(t *testing.T) {
	t.Parallel()

	cache, _ := New(2, 0, false)

	if cache.Set("foo", []byte("bar")) {
		t.Error("eviction should not occur when the cache is not full")
	}

	value, ok := cache.Get("foo")
	if !ok || string(value) != "bar" {
		t.Errorf("expected 'bar', got %q (found=%v)", value, ok)
	}

	cache.Set("hello", []byte("world"))

	// "foo" was used more recently than "hello", so "hello" goes first.
	cache.Get("foo")

	if !cache.Set("key3", []byte("value3")) {
		t.Error("expected eviction when adding third key to size 2 cache")
	}

	if _, ok := cache.Get("hello"); ok {
		t.Error("expected 'hello' to be evicted")
	}

	if got := cache.Keys(); strings.Join(got, ",") != "foo,key3" {
		t.Errorf("unexpected key order: %v", got)
	}
}

func TestSetExistingKey(t *testing.T) {
	t.Parallel()

	cache, _ := New(2, 0, false)

	cache.Set("k1", []byte("v1"))
	cache.Set("k2", []byte("v2"))

	if cache.Set("k1", []byte("v1-updated")) {
		t.Error("re-setting an existing key should not evict anything")
	}

	if val, _ := cache.Get("k1"); string(val) != "v1-updated" {
		t.Errorf("expected 'v1-updated', got %q", val)
	}

	if cache.Len() != 2 {
		t.Errorf("expected cache length 2, got %d", cache.Len())
	}
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	cache, _ := New(4, time.Minute, false)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Set("page", []byte("body"))

	now = now.Add(59 * time.Second)

	if _, ok := cache.Get("page"); !ok {
		t.Fatal("expected entry to be fresh")
	}

	now = now.Add(time.Second)

	if _, ok := cache.Get("page"); ok {
		t.Fatal("expected entry to be expired")
	}

	if cache.Len() != 0 {
		t.Errorf("expected expired entry to be dropped, len=%d", cache.Len())
	}
}

func TestValuesAreCopied(t *testing.T) {
	t.Parallel()

	for _, compress := range []bool{false, true} {
		cache, _ := New(2, 0, compress)

		original := []byte("immutable")
		cache.Set("k", original)
		original[0] = 'X'

		got, _ := cache.Get("k")
		got[1] = 'Y'

		again, _ := cache.Get("k")
		if string(again) != "immutable" {
			t.Errorf("compress=%v: cached value was mutated: %q", compress, again)
		}
	}
}

func TestCompressionRoundTrip(t *testing.T) {
	t.Parallel()

	cache, _ := New(2, 0, true)

	payload := bytes.Repeat([]byte(`{"docs":[{"title":"Services"}]}`), 200)
	cache.Set("big", payload)

	el := cache.items["big"]
	if e, _ := el.Value.(*entry); !e.compressed || len(e.value) >= len(payload) {
		t.Errorf("expected compressible payload to be stored compressed")
	}

	got, ok := cache.Get("big")
	if !ok || !bytes.Equal(got, payload) {
		t.Error("decompressed payload differs from original")
	}

	// Tiny values do not shrink and stay uncompressed.
	cache.Set("tiny", []byte("x"))

	if e, _ := cache.items["tiny"].Value.(*entry); e.compressed {
		t.Error("expected tiny value to be stored uncompressed")
	}
}

func TestRemoveAndPurge(t *testing.T) {
	t.Parallel()

	cache, _ := New(3, 0, false)

	cache.Set("a", []byte("1"))
	cache.Set("b", []byte("2"))

	if !cache.Remove("a") || cache.Remove("a") {
		t.Error("expected the first Remove to succeed and the second to fail")
	}

	cache.Purge()

	if cache.Len() != 0 || len(cache.Keys()) != 0 {
		t.Error("expected purge to empty the cache")
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	cache, _ := New(50, time.Minute, true)

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func(worker int) {
			defer wg.Done()

			for j := range 200 {
				key := strconv.Itoa((worker * j) % 75)
				cache.Set(key, []byte(strings.Repeat(key, 20)))
				cache.Get(key)
			}
		}(i)
	}

	wg.Wait()

	if cache.Len() > 50 {
		t.Errorf("cache exceeded capacity: %d", cache.Len())
	}
}
