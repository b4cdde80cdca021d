package flowvars

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestGetResolvesTiers(t *testing.T) {
	store := NewStore(Config{})
	exec := store.NewExecution("exec1")

	exec.Bind("customer_name", "Maria")

	if v, ok := store.Get("exec1_customer_name"); !ok || v != "Maria" {
		t.Errorf("execution tier = %q, %v", v, ok)
	}
	if v, ok := store.Get("webhook_customer_name"); !ok || v != "Maria" {
		t.Errorf("source tier = %q, %v", v, ok)
	}
	if v, ok := store.Get("customer_name"); !ok || v != "Maria" {
		t.Errorf("unscoped tier = %q, %v", v, ok)
	}
	if _, ok := store.Get("other_key"); ok {
		t.Error("unexpected hit for unbound key")
	}
}

func TestExecutionTierIsWriteOnce(t *testing.T) {
	store := NewStore(Config{})
	exec := store.NewExecution("exec1")

	exec.Bind("status", "first")
	exec.Bind("status", "second")

	if v, _ := store.Get("exec1_status"); v != "first" {
		t.Errorf("execution-scoped value = %q, want first write kept", v)
	}
	if v, _ := store.Get("status"); v != "second" {
		t.Errorf("unscoped value = %q, want last write", v)
	}
}

func TestSourceTierLastWriteWins(t *testing.T) {
	store := NewStore(Config{})

	store.NewExecution("a").Bind("platform", "kiwify")
	store.NewExecution("b").Bind("platform", "eduzz")

	if v, _ := store.Get("webhook_platform"); v != "eduzz" {
		t.Errorf("source tier = %q, want latest", v)
	}
	if v, _ := store.Get("a_platform"); v != "kiwify" {
		t.Errorf("execution a value = %q, must be untouched", v)
	}
}

func TestPrefixedKeysAreNotDoublePrefixed(t *testing.T) {
	store := NewStore(Config{})
	store.NewExecution("a").Bind("webhook_platform", "braip")

	if v, ok := store.Get("webhook_platform"); !ok || v != "braip" {
		t.Errorf("webhook_platform = %q, %v", v, ok)
	}
	if _, ok := store.Get("webhook_webhook_platform"); ok {
		t.Error("key was double prefixed")
	}
}

func TestSweepExpiresEntries(t *testing.T) {
	store := NewStore(Config{TTL: time.Minute})
	exec := store.NewExecution("old")
	exec.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	exec.Bind("k", "v")

	store.Sweep(time.Now().UTC())

	if _, ok := store.Get("old_k"); ok {
		t.Error("expired execution entry survived sweep")
	}
	if _, ok := store.Get("k"); ok {
		t.Error("expired unscoped entry survived sweep")
	}
	// The source tier is not swept; the latest webhook values stay.
	if _, ok := store.Get("webhook_k"); !ok {
		t.Error("source tier entry should survive sweep")
	}
}

func TestUnscopedTierIsBounded(t *testing.T) {
	store := NewStore(Config{MaxEntries: 10})
	exec := store.NewExecution("e")

	for i := 0; i < 25; i++ {
		exec.Bind(fmt.Sprintf("key_%d", i), "v")
	}

	_, _, latest := store.Len()
	if latest > 10 {
		t.Errorf("unscoped tier holds %d entries, cap is 10", latest)
	}
}

func TestConcurrentBinds(t *testing.T) {
	store := NewStore(Config{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			exec := store.NewExecution(fmt.Sprintf("exec%d", n))
			for j := 0; j < 100; j++ {
				exec.Bind(fmt.Sprintf("key_%d", j), "v")
				store.Get(fmt.Sprintf("key_%d", j))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		if _, ok := store.Get(fmt.Sprintf("exec%d_key_0", i)); !ok {
			t.Errorf("missing execution-scoped key for exec%d", i)
		}
	}
}
