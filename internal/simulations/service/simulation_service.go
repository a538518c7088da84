package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	authdomain "github.com/Daniel-Kats256/simulations/internal/auth/domain"
	"github.com/Daniel-Kats256/simulations/internal/events"
	"github.com/Daniel-Kats256/simulations/internal/metrics"
	"github.com/Daniel-Kats256/simulations/internal/simulations/domain"
	"github.com/Daniel-Kats256/simulations/internal/simulations/repository"
)

// Runner produces the outcome payload for one simulation run. Satisfied
// by the engine; tests substitute instant or failing runners.
type Runner interface {
	Run(ctx context.Context, rawType string, config map[string]interface{}) *domain.ResultPayload
}

// Service is the simulation lifecycle controller. A launch creates the
// record in running state, answers the caller immediately, and hands the
// engine run plus the single finalize write to a background goroutine.
type Service struct {
	store     repository.Store
	engine    Runner
	publisher *events.Publisher

	wg sync.WaitGroup
}

func NewService(store repository.Store, engine Runner, publisher *events.Publisher) *Service {
	return &Service{store: store, engine: engine, publisher: publisher}
}

// Launch validates the request, creates the record with a placeholder
// result and spawns the background run. The returned projection reflects
// the record before any result is known.
func (s *Service) Launch(ctx context.Context, principal authdomain.Principal, req domain.LaunchRequest) (*domain.LaunchResponse, error) {
	if principal.Role != authdomain.RoleAdmin && principal.Role != authdomain.RoleAnalyst {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Type) == "" {
		return nil, fmt.Errorf("%w: name and type are required", domain.ErrValidation)
	}

	rec := &domain.SimulationRecord{
		Name:    name,
		Type:    req.Type,
		Config:  req.Config,
		OwnerID: principal.ID,
		Status:  domain.StatusRunning,
		Result:  domain.InitializingResult(time.Now()),
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create simulation: %w", err)
	}

	metrics.SimulationsLaunched.WithLabelValues(string(domain.ParseType(rec.Type))).Inc()
	s.publisher.Publish(ctx, events.Event{
		SimulationID: rec.ID,
		Name:         rec.Name,
		Type:         rec.Type,
		Status:       rec.Status,
	})
	log.Printf("[info] operation=launch sim=%s type=%s owner=%s", rec.ID, rec.Type, rec.OwnerID)

	// Detached from the request context on purpose: the run must outlive
	// the HTTP response and always reach its finalize write.
	s.wg.Add(1)
	go s.runAndFinalize(context.Background(), rec.ID, rec.Type, req.Config)

	return &domain.LaunchResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		Type:      rec.Type,
		Status:    rec.Status,
		OwnerID:   rec.OwnerID,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// runAndFinalize performs the engine run and exactly one finalize write.
// Nothing on this path may panic the process or leave an unparsable
// result behind; the worst accepted outcome is a record left running for
// the stuck-detector to surface.
func (s *Service) runAndFinalize(ctx context.Context, id, rawType string, config map[string]interface{}) {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[error] operation=finalize sim=%s panic=%v", id, r)
		}
	}()

	start := time.Now()
	payload := s.engine.Run(ctx, rawType, config)
	metrics.SimulationDuration.Observe(time.Since(start).Seconds())

	status := domain.StatusFailed
	if payload.Success && payload.Error == "" {
		status = domain.StatusCompleted
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		// cannot happen for payloads the engine builds, but the record
		// must still finalize
		status = domain.StatusFailed
		raw = []byte(fmt.Sprintf(`{"error":%q,"timestamp":%q}`,
			"Failed to encode simulation results",
			time.Now().UTC().Format(time.RFC3339)))
	}

	if err := s.store.UpdateResult(ctx, id, status, string(raw)); err != nil {
		log.Printf("[error] operation=finalize sim=%s error=%v", id, err)

		// one retry writing a degraded failed result describing the
		// update failure
		degraded, _ := json.Marshal(map[string]string{
			"error":         "Failed to update simulation results",
			"originalError": err.Error(),
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
		})
		status = domain.StatusFailed
		if err := s.store.UpdateResult(ctx, id, status, string(degraded)); err != nil {
			// accepted inconsistency: record stays running until an
			// operator acts on the stuck report
			log.Printf("[error] operation=finalize sim=%s retry failed, record left stale: %v", id, err)
			return
		}
	}

	typ := string(domain.ParseType(rawType))
	if status == domain.StatusCompleted {
		metrics.SimulationsCompleted.WithLabelValues(typ).Inc()
	} else {
		metrics.SimulationsFailed.WithLabelValues(typ).Inc()
	}
	s.publisher.Publish(ctx, events.Event{
		SimulationID: id,
		Type:         rawType,
		Status:       status,
	})
	log.Printf("[info] operation=finalize sim=%s status=%s", id, status)
}

// List returns the role-scoped records, newest first, with result fields
// repaired at read time so callers never see unparsable data.
func (s *Service) List(ctx context.Context, principal authdomain.Principal) ([]domain.SimulationRecord, error) {
	var (
		recs []domain.SimulationRecord
		err  error
	)
	if principal.IsAdmin() {
		recs, err = s.store.ListAll(ctx)
	} else {
		recs, err = s.store.ListByOwner(ctx, principal.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("list simulations: %w", err)
	}

	for i := range recs {
		recs[i].Result, _ = domain.SanitizeResult(recs[i].Result)
	}
	return recs, nil
}

// Get returns one record. A record that exists but belongs to someone
// else is reported as not found, same as a missing id.
func (s *Service) Get(ctx context.Context, principal authdomain.Principal, id string) (*domain.SimulationRecord, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && rec.OwnerID != principal.ID {
		return nil, domain.ErrNotFound
	}
	rec.Result, _ = domain.SanitizeResult(rec.Result)
	return rec, nil
}

// Status answers a poll for one record with the same ownership opacity
// as Get. The Redis status cache is preferred when it has an entry, so
// polls stay off the database hot path once an event has been published;
// the stored record is the fallback when Redis is absent or cold.
func (s *Service) Status(ctx context.Context, principal authdomain.Principal, id string) (*domain.StatusView, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && rec.OwnerID != principal.ID {
		return nil, domain.ErrNotFound
	}

	status := rec.Status
	if cached, err := s.publisher.LatestStatus(ctx, id); err == nil && cached != "" {
		status = cached
	}
	return &domain.StatusView{
		ID:       rec.ID,
		Status:   status,
		Terminal: domain.IsTerminal(status),
	}, nil
}

// Delete removes a record permanently. Admin only.
func (s *Service) Delete(ctx context.Context, principal authdomain.Principal, id string) error {
	if !principal.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.store.Delete(ctx, id)
}

// Wait blocks until every in-flight background run has finalized. Used
// by graceful shutdown and tests.
func (s *Service) Wait() {
	s.wg.Wait()
}
