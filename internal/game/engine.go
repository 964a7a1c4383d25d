// Package game wires the catalog, validator, scoring, and hint engine into
// a session controller driven by discrete events.
package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/mgorbunov/plately/internal/catalog"
	"github.com/mgorbunov/plately/internal/dataset"
	"github.com/mgorbunov/plately/internal/hint"
	"github.com/mgorbunov/plately/internal/model"
	"github.com/mgorbunov/plately/internal/rules"
	"github.com/mgorbunov/plately/internal/session"
	"github.com/mgorbunov/plately/internal/store"
)

// Persister saves lifetime stats at round finalization. The SQLite store
// implements it; tests inject fakes.
type Persister interface {
	SaveLifetimeStats(ctx context.Context, stats *model.LifetimeStats) error
}

var _ Persister = (*store.Store)(nil)

// SubmitResult is the discriminated outcome of one word submission.
type SubmitResult struct {
	Verdict  rules.Verdict
	Word     string
	Points   int
	Snapshot session.Snapshot
}

// Engine owns the active session and all gameplay state transitions. All
// methods are synchronous; the only asynchronous boundary is the dataset
// gate, before whose resolution every operation fails closed.
type Engine struct {
	cfg      model.Config
	gate     *dataset.Gate
	persist  Persister
	lifetime *model.LifetimeStats
	rnd      *rand.Rand

	ds        *dataset.Dataset
	loadErr   error
	plates    *catalog.Catalog
	validator *rules.Validator
	hints     *hint.Engine

	sess  *session.Session
	round int
}

// New constructs an engine. persist may be nil (stats kept in memory only).
func New(cfg model.Config, gate *dataset.Gate, persist Persister, lifetime *model.LifetimeStats, rnd *rand.Rand) *Engine {
	if lifetime == nil {
		lifetime = model.NewLifetimeStats()
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{cfg: cfg, gate: gate, persist: persist, lifetime: lifetime, rnd: rnd}
}

// Ready reports whether the dataset has loaded and gameplay can begin.
func (e *Engine) Ready() bool {
	return e.ensureLoaded()
}

// LoadErr surfaces a dataset load failure, if any.
func (e *Engine) LoadErr() error {
	return e.loadErr
}

// Round is the current round generation. Timer events carry it so ticks
// from a superseded round are dropped.
func (e *Engine) Round() int {
	return e.round
}

// Lifetime exposes the accumulated stats for presentation.
func (e *Engine) Lifetime() *model.LifetimeStats {
	return e.lifetime
}

// CatalogStats returns per-tier draw diagnostics, nil before load.
func (e *Engine) CatalogStats() []catalog.TierStats {
	if !e.ensureLoaded() {
		return nil
	}
	return e.plates.Stats()
}

// StartRound finalizes any active session synchronously, draws the next
// plate, and activates a fresh session. Before the dataset resolves it
// serves the placeholder plate so callers never block or crash.
func (e *Engine) StartRound() session.Snapshot {
	e.finalize()
	e.round++

	if !e.ensureLoaded() {
		e.sess = session.New(model.PlaceholderPlate)
		return e.sess.Snapshot()
	}
	plate := e.plates.Draw()
	if e.cfg.Mode == model.ModeEnsemble {
		e.sess = session.NewEnsemble(plate, e.ds.Solutions(plate.Letters))
	} else {
		e.sess = session.New(plate)
	}
	return e.sess.Snapshot()
}

// Submit validates one word against the active session. Invalid submissions
// break the combo streak; the result is a value, never an error.
func (e *Engine) Submit(text string) SubmitResult {
	if e.sess == nil || !e.sess.Active() || !e.ensureLoaded() {
		res := SubmitResult{Verdict: rules.VerdictNotReady}
		if e.sess != nil {
			res.Snapshot = e.sess.Snapshot()
		}
		return res
	}

	w, verdict := e.validator.Check(text, e.sess.Plate().Letters, e.sess.Used())
	var sol *model.Solution
	if verdict == rules.VerdictOK && e.cfg.Mode == model.ModeEnsemble {
		sol = e.sess.Solution(w.Text)
		if sol == nil {
			verdict = rules.VerdictNotInDictionary
		}
	}
	if verdict != rules.VerdictOK {
		e.sess.AddInvalid()
		return SubmitResult{Verdict: verdict, Word: text, Snapshot: e.sess.Snapshot()}
	}

	info := 0
	if sol != nil {
		info = sol.Information
	}
	pts := e.sess.AddValid(w, info)
	return SubmitResult{Verdict: rules.VerdictOK, Word: w.Text, Points: pts, Snapshot: e.sess.Snapshot()}
}

// Hint produces a hint for the given round generation, or an empty string
// when the round is stale, the dataset is not ready, or no hint applies.
func (e *Engine) Hint(round int) string {
	if round != e.round || e.sess == nil || !e.sess.Active() || !e.ensureLoaded() {
		return ""
	}
	plate := e.sess.Plate()
	candidates := e.candidates()
	if len(candidates) == 0 {
		return ""
	}
	return e.hints.Next(candidates, plate)
}

// RoundExpired handles the external round-timeout signal. Stale generations
// are ignored so a cancelled timer can never finalize a newer session.
func (e *Engine) RoundExpired(round int) (int, bool) {
	if round != e.round {
		return 0, false
	}
	return e.finalize(), true
}

// EndRound finalizes the active session immediately (explicit plate change
// or quit) and returns the final plate score.
func (e *Engine) EndRound() int {
	return e.finalize()
}

// Snapshot returns a read-only view of the active session.
func (e *Engine) Snapshot() (session.Snapshot, bool) {
	if e.sess == nil {
		return session.Snapshot{}, false
	}
	return e.sess.Snapshot(), true
}

func (e *Engine) finalize() int {
	if e.sess == nil || !e.sess.Active() {
		return 0
	}
	if e.sess.Plate().Letters == model.PlaceholderPlate.Letters {
		// Waiting rounds served before the dataset resolves are not games;
		// close the session without touching lifetime stats.
		e.sess.Finalize(model.NewLifetimeStats(), time.Now())
		return 0
	}
	score := e.sess.Finalize(e.lifetime, time.Now())
	if e.persist != nil {
		if err := e.persist.SaveLifetimeStats(context.Background(), e.lifetime); err != nil {
			// Persistence failures must not end the game; stats stay in
			// memory and the next finalization retries.
			_ = err
		}
	}
	return score
}

func (e *Engine) candidates() []model.Word {
	plate := e.sess.Plate()
	if e.cfg.Mode == model.ModeEnsemble {
		var out []model.Word
		for text, sol := range e.sess.Solutions() {
			if sol.Found {
				continue
			}
			if w, ok := e.ds.Lookup(text); ok {
				out = append(out, w)
			}
		}
		return out
	}
	return e.ds.Candidates(plate.Letters, e.sess.Used())
}

func (e *Engine) ensureLoaded() bool {
	if e.ds != nil {
		return true
	}
	if e.gate == nil {
		return false
	}
	ds, err := e.gate.Dataset()
	if err != nil {
		e.loadErr = err
		return false
	}
	if ds == nil {
		return false
	}
	e.ds = ds
	e.plates = catalog.NewWithRand(ds.Plates, e.rnd)
	e.validator = rules.NewValidator(ds, e.cfg.MinWordLen)
	e.hints = hint.NewWithRand(ds.Size(), e.rnd)
	return true
}
