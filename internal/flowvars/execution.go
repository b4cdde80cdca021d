package flowvars

import "time"

// ExecutionContext binds variables for one flow execution. Bindings
// land in all three store tiers; the execution-scoped tier is
// write-once per key.
type ExecutionContext struct {
	store *Store
	id    string
	now   func() time.Time
}

// NewExecution returns a binding context scoped to the execution id.
func (s *Store) NewExecution(executionID string) *ExecutionContext {
	return &ExecutionContext{
		store: s,
		id:    executionID,
		now:   time.Now,
	}
}

func (e *ExecutionContext) ID() string { return e.id }

// Bind stores one variable under the execution-scoped, source-scoped
// and unscoped keys.
func (e *ExecutionContext) Bind(key, value string) {
	e.store.set(e.id, key, value, e.now().UTC())
}

// BindAll stores every entry of the variable map.
func (e *ExecutionContext) BindAll(vars map[string]string) {
	for key, value := range vars {
		e.Bind(key, value)
	}
}

// Get resolves a key for this execution, preferring the
// execution-scoped binding.
func (e *ExecutionContext) Get(key string) (string, bool) {
	if v, ok := e.store.Get(e.id + "_" + key); ok {
		return v, true
	}
	return e.store.Get(key)
}
