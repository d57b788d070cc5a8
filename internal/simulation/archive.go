package simulation

import (
	"context"
	"fmt"

	"syncperf/internal/db"
)

// Records converts a successful analysis to archive rows.
func Records(a *Analysis) (db.SelectionRecord, []db.GroupRecord, error) {
	if a.Err != nil || a.Selection == nil {
		return db.SelectionRecord{}, nil, fmt.Errorf("analysis of %s has no selection", a.Dir)
	}

	rec := db.SelectionRecord{
		Dir:    a.Dir,
		Winner: a.Selection.Identity.Name(),
		Mean:   a.Selection.Mean,
		Groups: len(a.Stats),
	}
	if a.Data != nil {
		rec.ConfigKey = a.Data.Key()
	}

	groups := make([]db.GroupRecord, 0, len(a.Stats))
	for _, gs := range a.Stats {
		groups = append(groups, db.GroupRecord{
			Identity: gs.Identity.Name(),
			N:        gs.Stats.N,
			Mean:     gs.Stats.Mean,
			Variance: gs.Stats.Variance,
			StdDev:   gs.Stats.StdDev,
		})
	}
	return rec, groups, nil
}

// Archive stores a successful analysis and returns its selection ID.
func Archive(ctx context.Context, store db.Store, a *Analysis) (int64, error) {
	rec, groups, err := Records(a)
	if err != nil {
		return 0, err
	}
	id, err := store.SaveSelection(ctx, rec, groups)
	if err != nil {
		return 0, fmt.Errorf("failed to archive %s: %w", a.Dir, err)
	}
	return id, nil
}
