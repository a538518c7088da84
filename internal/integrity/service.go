// Package integrity provides out-of-band validation and repair of stored
// simulation records. Nothing here runs on the request path.
package integrity

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/Daniel-Kats256/simulations/internal/metrics"
	"github.com/Daniel-Kats256/simulations/internal/simulations/domain"
	"github.com/Daniel-Kats256/simulations/internal/simulations/repository"
)

type Service struct {
	store repository.Store
}

func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// Validate scans the full record set and reports human-readable issue
// descriptions. It never mutates.
func (s *Service) Validate(ctx context.Context) ([]string, error) {
	recs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	issues := make([]string, 0)
	for _, rec := range recs {
		if rec.Name == "" {
			issues = append(issues, fmt.Sprintf("Simulation %s: Missing simulation name", rec.ID))
		}
		if rec.Type == "" {
			issues = append(issues, fmt.Sprintf("Simulation %s: Missing simulation type", rec.ID))
		}
		if rec.OwnerID == "" {
			issues = append(issues, fmt.Sprintf("Simulation %s: Missing owner reference", rec.ID))
		}
		if rec.Result != "" && !json.Valid([]byte(rec.Result)) {
			issues = append(issues, fmt.Sprintf("Simulation %s: Invalid JSON in result field", rec.ID))
		}
	}
	return issues, nil
}

// Cleanup applies deterministic repairs to every record Validate would
// flag and returns the number of records touched. Running it twice in a
// row repairs nothing the second time.
func (s *Service) Cleanup(ctx context.Context) (int, error) {
	recs, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("cleanup: %w", err)
	}

	cleaned := 0
	for _, rec := range recs {
		var patch repository.Patch

		if rec.Name == "" {
			name := fmt.Sprintf("Unnamed %s Simulation", rec.Type)
			patch.Name = &name
		}
		if rec.Result != "" && !json.Valid([]byte(rec.Result)) {
			wrapped := domain.WrapInvalidResult(rec.Result, time.Now())
			patch.Result = &wrapped
		}
		if rec.Status == "" {
			status := domain.StatusUnknown
			patch.Status = &status
		}

		if patch.Name == nil && patch.Result == nil && patch.Status == nil {
			continue
		}
		if err := s.store.Update(ctx, rec.ID, patch); err != nil {
			return cleaned, fmt.Errorf("cleanup %s: %w", rec.ID, err)
		}
		cleaned++
	}

	metrics.IntegrityRepairs.Add(float64(cleaned))
	return cleaned, nil
}

// Stats summarizes record statuses. SuccessRate is completed/total
// rounded to two decimal places, 0 for an empty store.
type Stats struct {
	Total       int     `json:"total"`
	Completed   int     `json:"completed"`
	Failed      int     `json:"failed"`
	Running     int     `json:"running"`
	SuccessRate float64 `json:"successRate"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}

	st := Stats{
		Total:     counts.Total,
		Completed: counts.Completed,
		Failed:    counts.Failed,
		Running:   counts.Running,
	}
	if st.Total > 0 {
		st.SuccessRate = math.Round(float64(st.Completed)/float64(st.Total)*100) / 100
	}
	return st, nil
}

// FindStuck returns running records whose last update is older than the
// threshold: runs whose finalize write never happened. Reporting only;
// no remediation is applied.
func (s *Service) FindStuck(ctx context.Context, threshold time.Duration) ([]domain.SimulationRecord, error) {
	recs, err := s.store.FindStuck(ctx, time.Now().Add(-threshold))
	if err != nil {
		return nil, fmt.Errorf("find stuck: %w", err)
	}
	return recs, nil
}
