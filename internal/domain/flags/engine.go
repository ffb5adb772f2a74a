package flags

import "time"

// Engine evaluates progression rules against a catalog. It holds no player
// state and is safe for concurrent use.
type Engine struct {
	catalog *Catalog
	now     func() time.Time
}

type EngineOption func(*Engine)

// WithClock overrides the time source used for completion timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(catalog *Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: catalog,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// IsEligible reports whether key is a known, not yet completed flag whose
// dependencies are all completed.
func (e *Engine) IsEligible(key string, flags Flags) bool {
	def, ok := e.catalog.Get(key)
	if !ok || flags[key] {
		return false
	}
	return len(missing(def, flags)) == 0
}

// Status places key in the NotEligible/Eligible/Completed state machine.
func (e *Engine) Status(key string, flags Flags) FlagStatus {
	switch {
	case flags[key] && e.catalog.Has(key):
		return StatusCompleted
	case e.IsEligible(key, flags):
		return StatusEligible
	default:
		return StatusNotEligible
	}
}

// CompleteFlag returns a copy of record with key completed. It fails with
// ErrUnknownFlag or a *MissingDependenciesError naming every unmet direct
// dependency; record is never modified. Completing an already completed flag
// returns the record unchanged with Transitioned set to false.
func (e *Engine) CompleteFlag(key string, record FlagMap) (Completion, error) {
	def, ok := e.catalog.Get(key)
	if !ok {
		return Completion{}, unknownFlag(key)
	}

	if state := record[key]; state.Completed {
		out := record.clone()
		completedAt := e.now()
		if state.CompletedAt != nil {
			completedAt = *state.CompletedAt
		}
		return Completion{Flag: def, Flags: out, CompletedAt: completedAt}, nil
	}

	if unmet := missing(def, record.Completed()); len(unmet) > 0 {
		return Completion{}, &MissingDependenciesError{Flag: key, Missing: unmet}
	}

	now := e.now()
	out := record.clone()
	out[key] = FlagState{Completed: true, CompletedAt: &now}
	return Completion{
		Flag:         def,
		Flags:        out,
		Transitioned: true,
		CompletedAt:  now,
	}, nil
}

// ResetFlags returns a map holding only the completed root flag. The root's
// original completion time is kept when present.
func (e *Engine) ResetFlags(record FlagMap) FlagMap {
	root := e.catalog.Root().Key
	state := record[root]
	if !state.Completed || state.CompletedAt == nil {
		now := e.now()
		state = FlagState{Completed: true, CompletedAt: &now}
	}
	return FlagMap{root: state}
}

// NextAvailable lists the eligible flags in catalog order.
func (e *Engine) NextAvailable(flags Flags) []FlagDefinition {
	var out []FlagDefinition
	for _, def := range e.catalog.defs {
		if flags[def.Key] {
			continue
		}
		if len(missing(def, flags)) == 0 {
			out = append(out, cloneDef(def))
		}
	}
	return out
}

// CompletedCount counts completed catalog flags; unknown keys are ignored.
func (e *Engine) CompletedCount(flags Flags) int {
	n := 0
	for _, def := range e.catalog.defs {
		if flags[def.Key] {
			n++
		}
	}
	return n
}

// CompletionPercentage is the completed share of the whole catalog, rounded down.
func (e *Engine) CompletionPercentage(flags Flags) int {
	return Percentage(e.CompletedCount(flags), e.catalog.Len())
}

func (e *Engine) IsTerminalComplete(flags Flags) bool {
	return flags[e.catalog.terminal]
}

// Percentage returns floor(100*done/total), or 0 for an empty total.
func Percentage(done, total int) int {
	if total <= 0 {
		return 0
	}
	return done * 100 / total
}

func missing(def FlagDefinition, flags Flags) []string {
	var unmet []string
	for _, dep := range def.DependsOn {
		if !flags[dep] {
			unmet = append(unmet, dep)
		}
	}
	return unmet
}
