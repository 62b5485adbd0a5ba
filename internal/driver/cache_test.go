package driver

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHashPlan_Sensitivity(t *testing.T) {
	base := HashPlan([]byte("module = \"demo\""), 340)

	if got := HashPlan([]byte("module = \"demo\""), 340); got != base {
		t.Error("identical inputs hashed differently")
	}
	if got := HashPlan([]byte("module = \"other\""), 340); got == base {
		t.Error("digest ignores plan content")
	}
	if got := HashPlan([]byte("module = \"demo\""), 330); got == base {
		t.Error("digest ignores target version")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("adder-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	key := HashPlan([]byte("plan"), 340)
	want := &DiskPayload{
		Schema:         diskCacheSchemaVersion,
		Module:         "demo",
		Target:         340,
		Code:           "/* generated */\n",
		BodyNames:      []string{"greet", "farewell"},
		BodyLines:      []int{12, 4},
		NeedsException: []bool{true, false},
	}
	if err := cache.Put(key, want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got DiskPayload
	hit, err := cache.Get(key, &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("stored entry missed")
	}
	if diff := cmp.Diff(want, &got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestDiskCache_MissAndSchema(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("adder-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	var out DiskPayload
	hit, err := cache.Get(HashPlan([]byte("absent"), 340), &out)
	if err != nil || hit {
		t.Fatalf("missing entry: hit=%v err=%v", hit, err)
	}

	// An entry written under another schema version is a clean miss.
	key := HashPlan([]byte("stale"), 340)
	if err := cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion + 1, Module: "old"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	hit, err = cache.Get(key, &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("schema mismatch treated as a hit")
	}
}

func TestDiskCache_DropAll(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("adder-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	key := HashPlan([]byte("plan"), 340)
	if err := cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion, Module: "demo"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}

	var out DiskPayload
	hit, err := cache.Get(key, &out)
	if err != nil || hit {
		t.Errorf("entry survived DropAll: hit=%v err=%v", hit, err)
	}
}

func TestPayloadFor(t *testing.T) {
	res := &Result{
		Module: "demo",
		Code:   "/* unit */",
		Bodies: []BodyResult{
			{Name: "f", Lines: 3, NeedsException: true},
			{Name: "g", Lines: 1},
		},
	}
	got := PayloadFor(res, 330)
	want := &DiskPayload{
		Schema:         diskCacheSchemaVersion,
		Module:         "demo",
		Target:         330,
		Code:           "/* unit */",
		BodyNames:      []string{"f", "g"},
		BodyLines:      []int{3, 1},
		NeedsException: []bool{true, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PayloadFor mismatch (-want +got):\n%s", diff)
	}
}
