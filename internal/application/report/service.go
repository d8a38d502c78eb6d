package report

import (
	"github.com/rhys706/house-inspector/internal/application"
	"github.com/rhys706/house-inspector/internal/domain/inspection"
)

// Service derives grouped reports from a session's record store. Pure
// projection: it never mutates the store.
type Service struct {
	Clock application.Clock
}

// Build recomputes the grouped view from the store. An empty store is a
// valid "no items yet" report.
func (s *Service) Build(sessionID string, store *inspection.Store) inspection.Report {
	groups := store.GroupByRoom()
	total := 0
	for _, g := range groups {
		total += len(g.Records)
	}
	rep := inspection.Report{
		SessionID:   sessionID,
		GeneratedAt: s.Clock.Now(),
		Rooms:       groups,
		Total:       total,
		Empty:       len(groups) == 0,
	}
	if rep.Empty {
		rep.Note = "no items yet"
	}
	return rep
}
