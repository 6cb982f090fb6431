package config

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type nodeProfile struct {
	Node      string `toml:"node"`
	MaxHeight int    `toml:"max_height"`
}

func loadNodeProfile(path string) (nodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nodeProfile{}, err
	}
	var p nodeProfile
	err = toml.Unmarshal(data, &p)
	return p, err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeProfileFile(t *testing.T, path, node string, maxHeight int) {
	t.Helper()
	content := fmt.Appendf(nil, "node = %q\nmax_height = %d\n", node, maxHeight)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
}

func tempProfileFile(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp("", "profile_*.toml")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := tempProfileFile(t)
	writeProfileFile(t, path, "rack1-node3", 1080)

	received := make(chan nodeProfile, 1)
	w := NewConfigWatcher(path, loadNodeProfile, quietLogger(),
		WithDebounce[nodeProfile](50*time.Millisecond))
	w.OnReload(func(p nodeProfile) {
		received <- p
	})

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	writeProfileFile(t, path, "rack1-node3", 2160)

	select {
	case p := <-received:
		if p.Node != "rack1-node3" || p.MaxHeight != 2160 {
			t.Errorf("got %+v, want node=rack1-node3 max_height=2160", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload")
	}
}

func TestWatcherLoadsFreshOnEachChange(t *testing.T) {
	path := tempProfileFile(t)
	writeProfileFile(t, path, "n", 1)

	var loads atomic.Int32
	loader := func(p string) (nodeProfile, error) {
		loads.Add(1)
		return loadNodeProfile(p)
	}

	received := make(chan nodeProfile, 10)
	w := NewConfigWatcher(path, loader, quietLogger(),
		WithDebounce[nodeProfile](50*time.Millisecond))
	w.OnReload(func(p nodeProfile) {
		received <- p
	})

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	writeProfileFile(t, path, "n", 720)
	<-received

	time.Sleep(100 * time.Millisecond)
	writeProfileFile(t, path, "n", 1080)
	p := <-received

	if p.MaxHeight != 1080 {
		t.Errorf("expected max_height=1080, got %d", p.MaxHeight)
	}
	if got := loads.Load(); got < 2 {
		t.Errorf("expected at least 2 loads, got %d", got)
	}
}

func TestWatcherFansOutToAllHandlers(t *testing.T) {
	path := tempProfileFile(t)
	writeProfileFile(t, path, "n", 1)

	var count atomic.Int32
	var mu sync.Mutex
	var snapshots []nodeProfile

	w := NewConfigWatcher(path, loadNodeProfile, quietLogger(),
		WithDebounce[nodeProfile](50*time.Millisecond))
	for range 3 {
		w.OnReload(func(p nodeProfile) {
			count.Add(1)
			mu.Lock()
			snapshots = append(snapshots, p)
			mu.Unlock()
		})
	}

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	writeProfileFile(t, path, "n2", 2)
	time.Sleep(200 * time.Millisecond)

	if got := count.Load(); got != 3 {
		t.Errorf("expected 3 handler calls, got %d", got)
	}
	mu.Lock()
	defer mu.Unlock()
	for i, p := range snapshots {
		if p.Node != "n2" || p.MaxHeight != 2 {
			t.Errorf("handler %d got wrong snapshot: %+v", i, p)
		}
	}
}

func TestWatcherUnsubscribe(t *testing.T) {
	path := tempProfileFile(t)
	writeProfileFile(t, path, "n", 1)

	var kept, removed atomic.Int32
	w := NewConfigWatcher(path, loadNodeProfile, quietLogger(),
		WithDebounce[nodeProfile](50*time.Millisecond))
	w.OnReload(func(nodeProfile) { kept.Add(1) })
	unsub := w.OnReload(func(nodeProfile) { removed.Add(1) })

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	writeProfileFile(t, path, "n", 2)
	time.Sleep(200 * time.Millisecond)

	unsub()

	writeProfileFile(t, path, "n", 3)
	time.Sleep(200 * time.Millisecond)

	if got := kept.Load(); got != 2 {
		t.Errorf("kept handler: expected 2 calls, got %d", got)
	}
	if got := removed.Load(); got != 1 {
		t.Errorf("removed handler: expected 1 call, got %d", got)
	}
}

func TestWatcherErrorHandler(t *testing.T) {
	path := tempProfileFile(t)
	writeProfileFile(t, path, "n", 1)

	errs := make(chan error, 1)
	reloads := make(chan nodeProfile, 1)

	w := NewConfigWatcher(path, loadNodeProfile, quietLogger(),
		WithDebounce[nodeProfile](50*time.Millisecond),
		WithErrorHandler[nodeProfile](func(err error) {
			errs <- err
		}))
	w.OnReload(func(p nodeProfile) {
		reloads <- p
	})

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("not toml [[["), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-errs:
	case <-reloads:
		t.Fatal("reload handler must not run on a load error")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error handler")
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	path := tempProfileFile(t)
	writeProfileFile(t, path, "n", 0)

	var count atomic.Int32
	var last atomic.Int32
	w := NewConfigWatcher(path, loadNodeProfile, quietLogger(),
		WithDebounce[nodeProfile](200*time.Millisecond))
	w.OnReload(func(p nodeProfile) {
		count.Add(1)
		last.Store(int32(p.MaxHeight))
	})

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	for i := 1; i <= 5; i++ {
		writeProfileFile(t, path, "n", i)
		time.Sleep(50 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 debounced reload, got %d", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("expected final max_height 5, got %d", got)
	}
}

func TestWatcherStop(t *testing.T) {
	path := tempProfileFile(t)
	writeProfileFile(t, path, "n", 1)

	var count atomic.Int32
	w := NewConfigWatcher(path, loadNodeProfile, quietLogger(),
		WithDebounce[nodeProfile](50*time.Millisecond))
	w.OnReload(func(nodeProfile) { count.Add(1) })

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Fatal(err)
	}

	writeProfileFile(t, path, "n", 99)
	time.Sleep(200 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected no reloads after Stop, got %d", got)
	}
}

func TestWatcherConcurrentSubscribe(t *testing.T) {
	path := tempProfileFile(t)
	writeProfileFile(t, path, "n", 1)

	w := NewConfigWatcher(path, loadNodeProfile, quietLogger(),
		WithDebounce[nodeProfile](10*time.Millisecond))

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := w.OnReload(func(nodeProfile) {})
			time.Sleep(time.Millisecond)
			unsub()
		}()
	}

	for i := range 10 {
		writeProfileFile(t, path, "n", i)
		time.Sleep(20 * time.Millisecond)
	}
	wg.Wait()
}
