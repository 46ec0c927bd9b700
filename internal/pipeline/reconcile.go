package pipeline

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"supplymatch/internal"
	"supplymatch/internal/catalog"
	"supplymatch/internal/config"
	"supplymatch/internal/match"
)

// MappingStore is what the reconciler needs from persistence. Store
// errors are logged and treated as cache misses, never as fatal.
type MappingStore interface {
	GetMapping(invoiceName string) (*internal.LearnedMapping, error)
	SaveMappings(mappings map[string]internal.LearnedMapping) error
	RemoveMapping(invoiceName string) error
}

// Result is one reconciliation run over a parsed document.
type Result struct {
	TraceID  string
	Lines    []internal.ReconciledLine
	Supplier *internal.Supplier
}

type Reconciler struct {
	engine *match.Engine
	store  MappingStore
	cfg    config.Config
}

func NewReconciler(engine *match.Engine, store MappingStore, cfg config.Config) *Reconciler {
	return &Reconciler{engine: engine, store: store, cfg: cfg}
}

// Reconcile resolves every extracted line against the catalog snapshot:
// remembered mappings first, fuzzy search otherwise. A remembered
// mapping whose product id is gone from the snapshot is removed on the
// spot and the line falls back to search.
func (r *Reconciler) Reconcile(doc internal.ParsedDocument, snap *catalog.Snapshot, suppliers []internal.Supplier) Result {
	res := Result{TraceID: uuid.NewString()}
	logger := log.With().Str("trace_id", res.TraceID).Logger()

	if doc.SupplierName != "" {
		res.Supplier = match.MatchSupplier(doc.SupplierName, suppliers, r.cfg.SupplierMinScore)
	}

	learnedHits := 0
	for _, line := range doc.LineItems {
		rl := internal.ReconciledLine{Line: line}

		if m := r.learned(line.Name, snap); m != nil {
			rl.Match = m
			rl.Learned = true
			learnedHits++
		} else {
			candidates := r.engine.Search(line.Name, snap.Pool, r.cfg.MatchLimit, r.cfg.MatchMinScore)
			if len(candidates) > 0 {
				rl.Match = &candidates[0]
			}
			if len(candidates) > 1 {
				rl.Runner = &candidates[1]
			}
		}

		res.Lines = append(res.Lines, rl)
	}

	logger.Info().
		Int("lines", len(res.Lines)).
		Int("learned", learnedHits).
		Bool("supplier_matched", res.Supplier != nil).
		Msg("reconciliation finished")
	return res
}

// learned returns the remembered candidate for an invoice name, healing
// the store when the remembered id went stale.
func (r *Reconciler) learned(invoiceName string, snap *catalog.Snapshot) *internal.MatchCandidate {
	if r.store == nil {
		return nil
	}
	m, err := r.store.GetMapping(invoiceName)
	if err != nil {
		log.Warn().Err(err).Str("name", invoiceName).Msg("mapping lookup failed")
		return nil
	}
	if m == nil {
		return nil
	}

	it, ok := snap.Get(m.ID)
	if !ok {
		if err := r.store.RemoveMapping(invoiceName); err != nil {
			log.Warn().Err(err).Str("name", invoiceName).Msg("stale mapping removal failed")
		}
		return nil
	}
	// Name and code come from the live snapshot, not the stored copy.
	return &internal.MatchCandidate{ID: it.ID, Name: it.Name, Code: it.Code, Score: 100}
}

// ConfirmMapping persists a human-confirmed match. Group ids and ids
// outside the snapshot pool are rejected before anything is written.
func (r *Reconciler) ConfirmMapping(invoiceName, productID string, snap *catalog.Snapshot) error {
	it, ok := snap.Get(productID)
	if !ok {
		return fmt.Errorf("%w: %s", internal.ErrInvalidMatchTarget, productID)
	}
	if r.store == nil {
		return fmt.Errorf("%w: no store configured", internal.ErrPersistence)
	}
	return r.store.SaveMappings(map[string]internal.LearnedMapping{
		invoiceName: {ID: it.ID, Name: it.Name, Code: it.Code},
	})
}
