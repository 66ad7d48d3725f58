package stats

import (
	"context"

	"github.com/verte-zerg/zigen/internal/model"
	"github.com/verte-zerg/zigen/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions          []model.SessionAggregate
	WindowSessionIDs  []int64
	RadicalAggsAll    []model.RadicalAggregate
	RadicalAggsWindow []model.RadicalAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	all, err := st.ListRadicalAggregatesForSessions(ctx, SessionIDs(sessions))
	if err != nil {
		return Report{}, err
	}
	window, err := st.ListRadicalAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions:          sessions,
		WindowSessionIDs:  windowIDs,
		RadicalAggsAll:    all,
		RadicalAggsWindow: window,
	}, nil
}

// SessionIDs returns the row ids of sessions in order.
func SessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return SessionIDs(sessions)
	}
	return SessionIDs(sessions[len(sessions)-window:])
}
