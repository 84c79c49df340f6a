package cache

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

var footerPattern = regexp.MustCompile(`^<!-- generated by static-hub in (\d+)ms, \d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} -->$`)

const testPage = "<html>\n<body>hello</body>\n<!-- generated by static-hub in 7ms, 2020/04/14 10:00:00 -->"

func TestPageCacheRoundTrip(t *testing.T) {
	pc, _ := newTestPageCache(t)
	req := Request{Method: "GET", Path: "/articles/hello"}

	pc.Put(req, []byte(testPage))

	got, ok := pc.Get(req)
	if !ok {
		t.Fatalf("expected cache hit after put")
	}

	wantLines := strings.Split(testPage, "\n")
	gotLines := strings.Split(got, "\n")
	if len(gotLines) != len(wantLines) {
		t.Fatalf("line count changed: got %d want %d", len(gotLines), len(wantLines))
	}
	for i := 0; i < len(wantLines)-1; i++ {
		if gotLines[i] != wantLines[i] {
			t.Fatalf("line %d altered: %q", i, gotLines[i])
		}
	}

	m := footerPattern.FindStringSubmatch(gotLines[len(gotLines)-1])
	if m == nil {
		t.Fatalf("footer not rewritten: %q", gotLines[len(gotLines)-1])
	}
}

func TestPageCacheStoredFooterUntouched(t *testing.T) {
	pc, dir := newTestPageCache(t)
	req := Request{Method: "GET", Path: "/about"}

	pc.Put(req, []byte(testPage))

	blob, err := os.ReadFile(filepath.Join(dir, "_about"))
	if err != nil {
		t.Fatalf("read stored entry: %v", err)
	}
	raw, err := Decompress(blob)
	if err != nil {
		t.Fatalf("stored entry should be gzip: %v", err)
	}
	if string(raw) != testPage {
		t.Fatalf("stored content must keep original footer")
	}
}

func TestPageCacheNotCacheableRequests(t *testing.T) {
	pc, _ := newTestPageCache(t)

	// Seed a cacheable entry so bypasses are tested against warm state.
	pc.Put(Request{Method: "GET", Path: "/p"}, []byte(testPage))

	cases := []Request{
		{Method: "POST", Path: "/p"},
		{Method: "PUT", Path: "/p"},
		{Method: "GET", Path: "/p", LoggedIn: true},
	}
	for _, req := range cases {
		if _, ok := pc.Get(req); ok {
			t.Fatalf("expected miss for %+v", req)
		}
		pc.Put(req, []byte("<html>personalized</html>\nfooter"))
	}

	// The non-cacheable puts must not have touched the stored entry.
	got, ok := pc.Get(Request{Method: "GET", Path: "/p"})
	if !ok {
		t.Fatalf("expected original entry to survive")
	}
	if strings.Contains(got, "personalized") {
		t.Fatalf("non-cacheable put leaked into cache: %q", got)
	}
}

func TestPageCacheStaleEntryIsMiss(t *testing.T) {
	pc, dir := newTestPageCache(t)
	req := Request{Method: "GET", Path: "/old"}

	pc.Put(req, []byte(testPage))

	backdate(t, filepath.Join(dir, "_old"), 7*time.Hour)

	if _, ok := pc.Get(req); ok {
		t.Fatalf("expected miss for stale entry")
	}
	if _, err := os.Stat(filepath.Join(dir, "_old")); err != nil {
		t.Fatalf("stale entry must remain on disk: %v", err)
	}
}

func TestPageCacheWriteSuppressedWithinTTL(t *testing.T) {
	pc, dir := newTestPageCache(t)
	req := Request{Method: "GET", Path: "/fresh"}
	path := filepath.Join(dir, "_fresh")

	pc.Put(req, []byte(testPage))
	backdate(t, path, time.Hour)

	before := mustModTime(t, path)
	pc.Put(req, []byte("<html>newer</html>\nfooter"))
	after := mustModTime(t, path)

	if !after.Equal(before) {
		t.Fatalf("fresh entry must not be rewritten: %v -> %v", before, after)
	}
}

func TestPageCacheOverwritesStaleEntry(t *testing.T) {
	pc, dir := newTestPageCache(t)
	req := Request{Method: "GET", Path: "/fresh"}
	path := filepath.Join(dir, "_fresh")

	pc.Put(req, []byte(testPage))
	backdate(t, path, 7*time.Hour)

	pc.Put(req, []byte("<html>regenerated</html>\nfooter"))

	got, ok := pc.Get(req)
	if !ok {
		t.Fatalf("expected hit after overwrite")
	}
	if !strings.Contains(got, "regenerated") {
		t.Fatalf("stale entry should have been replaced, got %q", got)
	}
}

func TestPageCacheMobileDesktopIsolation(t *testing.T) {
	pc, _ := newTestPageCache(t)
	desktop := Request{Method: "GET", Path: "/home"}
	mobile := Request{Method: "GET", Path: "/home", Mobile: true}

	pc.Put(desktop, []byte("<html>desktop</html>\nfooter"))

	if _, ok := pc.Get(mobile); ok {
		t.Fatalf("mobile get must not hit desktop entry")
	}

	pc.Put(mobile, []byte("<html>mobile</html>\nfooter"))

	gotDesktop, ok := pc.Get(desktop)
	if !ok || !strings.Contains(gotDesktop, "desktop") {
		t.Fatalf("desktop entry corrupted: %q", gotDesktop)
	}
	gotMobile, ok := pc.Get(mobile)
	if !ok || !strings.Contains(gotMobile, "mobile") {
		t.Fatalf("mobile entry corrupted: %q", gotMobile)
	}
}

func TestPageCacheClear(t *testing.T) {
	pc, _ := newTestPageCache(t)
	reqs := []Request{
		{Method: "GET", Path: "/a"},
		{Method: "GET", Path: "/b", Mobile: true},
	}
	for _, req := range reqs {
		pc.Put(req, []byte(testPage))
	}

	pc.Clear()

	for _, req := range reqs {
		if _, ok := pc.Get(req); ok {
			t.Fatalf("expected miss after clear for %+v", req)
		}
	}
}

func TestPageCacheServesRawStoredBytes(t *testing.T) {
	pc, dir := newTestPageCache(t)

	// Simulate a put whose compression failed: raw bytes on disk.
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("store error: %v", err)
	}
	if err := store.Put("_raw", []byte(testPage)); err != nil {
		t.Fatalf("put error: %v", err)
	}

	got, ok := pc.Get(Request{Method: "GET", Path: "/raw"})
	if !ok {
		t.Fatalf("expected hit on raw stored entry")
	}
	if !strings.Contains(got, "<body>hello</body>") {
		t.Fatalf("raw entry content lost: %q", got)
	}
}

func TestPageCacheDisabledStore(t *testing.T) {
	pc := New(nil, 0, testFooterFormat, discardLogger())

	if pc.Enabled() {
		t.Fatalf("nil store must report disabled")
	}
	if _, ok := pc.Get(Request{Method: "GET", Path: "/x"}); ok {
		t.Fatalf("disabled cache must always miss")
	}
	pc.Put(Request{Method: "GET", Path: "/x"}, []byte(testPage))
	pc.Clear()
}

func newTestPageCache(t *testing.T) (*PageCache, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return New(store, DefaultTTL, testFooterFormat, discardLogger()), dir
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func backdate(t *testing.T, path string, age time.Duration) {
	t.Helper()
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func mustModTime(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	return info.ModTime()
}
