package integrity

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Daniel-Kats256/simulations/internal/simulations/domain"
	"github.com/Daniel-Kats256/simulations/internal/simulations/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, store *repository.Memory, recs ...*domain.SimulationRecord) {
	t.Helper()
	for _, rec := range recs {
		require.NoError(t, store.Create(context.Background(), rec))
	}
}

func TestValidate_ReportsEveryIssueClass(t *testing.T) {
	store := repository.NewMemory()
	svc := NewService(store)
	seed(t, store,
		&domain.SimulationRecord{ID: "ok", Name: "Fine", Type: "DDoS", OwnerID: "u1",
			Status: domain.StatusCompleted, Result: `{"success":true}`},
		&domain.SimulationRecord{ID: "no-name", Name: "", Type: "Malware", OwnerID: "u1",
			Status: domain.StatusCompleted},
		&domain.SimulationRecord{ID: "no-type", Name: "Typeless", Type: "", OwnerID: "u1",
			Status: domain.StatusCompleted},
		&domain.SimulationRecord{ID: "no-owner", Name: "Orphan", Type: "DDoS", OwnerID: "",
			Status: domain.StatusFailed},
		&domain.SimulationRecord{ID: "bad-json", Name: "Corrupt", Type: "DDoS", OwnerID: "u1",
			Status: domain.StatusCompleted, Result: "{not json"},
	)

	issues, err := svc.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, issues, 4)

	assert.Contains(t, issues, "Simulation no-name: Missing simulation name")
	assert.Contains(t, issues, "Simulation no-type: Missing simulation type")
	assert.Contains(t, issues, "Simulation no-owner: Missing owner reference")
	assert.Contains(t, issues, "Simulation bad-json: Invalid JSON in result field")
}

func TestValidate_EmptyResultIsNotAnIssue(t *testing.T) {
	store := repository.NewMemory()
	svc := NewService(store)
	seed(t, store, &domain.SimulationRecord{
		ID: "pending", Name: "Fresh", Type: "DDoS", OwnerID: "u1",
		Status: domain.StatusRunning,
	})

	issues, err := svc.Validate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestCleanup_RepairsAndIsIdempotent(t *testing.T) {
	store := repository.NewMemory()
	svc := NewService(store)
	ctx := context.Background()
	seed(t, store,
		&domain.SimulationRecord{ID: "no-name", Name: "", Type: "Phishing", OwnerID: "u1",
			Status: domain.StatusCompleted},
		&domain.SimulationRecord{ID: "bad-json", Name: "Corrupt", Type: "DDoS", OwnerID: "u1",
			Status: domain.StatusCompleted, Result: "{not json"},
		&domain.SimulationRecord{ID: "no-status", Name: "Limbo", Type: "DDoS", OwnerID: "u1",
			Status: ""},
		&domain.SimulationRecord{ID: "ok", Name: "Fine", Type: "DDoS", OwnerID: "u1",
			Status: domain.StatusCompleted, Result: `{"success":true}`},
	)

	cleaned, err := svc.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, cleaned)

	t.Run("missing name gets the placeholder", func(t *testing.T) {
		rec, err := store.GetByID(ctx, "no-name")
		require.NoError(t, err)
		assert.Equal(t, "Unnamed Phishing Simulation", rec.Name)
	})

	t.Run("corrupt result is wrapped, original preserved", func(t *testing.T) {
		rec, err := store.GetByID(ctx, "bad-json")
		require.NoError(t, err)
		var wrapped map[string]string
		require.NoError(t, json.Unmarshal([]byte(rec.Result), &wrapped))
		assert.Equal(t, "Invalid result data", wrapped["error"])
		assert.Equal(t, "{not json", wrapped["originalData"])
	})

	t.Run("missing status becomes unknown", func(t *testing.T) {
		rec, err := store.GetByID(ctx, "no-status")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusUnknown, rec.Status)
	})

	t.Run("second pass repairs nothing", func(t *testing.T) {
		cleaned, err := svc.Cleanup(ctx)
		require.NoError(t, err)
		assert.Zero(t, cleaned)

		issues, err := svc.Validate(ctx)
		require.NoError(t, err)
		assert.Empty(t, issues)
	})
}

func TestStats(t *testing.T) {
	t.Run("empty store yields zeros", func(t *testing.T) {
		svc := NewService(repository.NewMemory())
		st, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Stats{}, st)
	})

	t.Run("success rate is completed over total", func(t *testing.T) {
		store := repository.NewMemory()
		svc := NewService(store)
		seed(t, store,
			&domain.SimulationRecord{ID: "a", Name: "a", Type: "DDoS", OwnerID: "u", Status: domain.StatusCompleted},
			&domain.SimulationRecord{ID: "b", Name: "b", Type: "DDoS", OwnerID: "u", Status: domain.StatusCompleted},
			&domain.SimulationRecord{ID: "c", Name: "c", Type: "DDoS", OwnerID: "u", Status: domain.StatusFailed},
			&domain.SimulationRecord{ID: "d", Name: "d", Type: "DDoS", OwnerID: "u", Status: domain.StatusRunning},
		)

		st, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4, st.Total)
		assert.Equal(t, 2, st.Completed)
		assert.Equal(t, 1, st.Failed)
		assert.Equal(t, 1, st.Running)
		assert.InDelta(t, 0.5, st.SuccessRate, 1e-9)
	})

	t.Run("rate rounds to two decimals", func(t *testing.T) {
		store := repository.NewMemory()
		svc := NewService(store)
		seed(t, store,
			&domain.SimulationRecord{ID: "a", Name: "a", Type: "DDoS", OwnerID: "u", Status: domain.StatusCompleted},
			&domain.SimulationRecord{ID: "b", Name: "b", Type: "DDoS", OwnerID: "u", Status: domain.StatusFailed},
			&domain.SimulationRecord{ID: "c", Name: "c", Type: "DDoS", OwnerID: "u", Status: domain.StatusFailed},
		)

		st, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.InDelta(t, 0.33, st.SuccessRate, 1e-9)
	})
}

func TestFindStuck(t *testing.T) {
	store := repository.NewMemory()
	svc := NewService(store)
	ctx := context.Background()

	old := time.Now().Add(-time.Hour)
	seed(t, store,
		&domain.SimulationRecord{ID: "stuck", Name: "Stuck", Type: "DDoS", OwnerID: "u",
			Status: domain.StatusRunning, CreatedAt: old, UpdatedAt: old},
		&domain.SimulationRecord{ID: "fresh", Name: "Fresh", Type: "DDoS", OwnerID: "u",
			Status: domain.StatusRunning},
		&domain.SimulationRecord{ID: "done", Name: "Done", Type: "DDoS", OwnerID: "u",
			Status: domain.StatusCompleted, CreatedAt: old, UpdatedAt: old},
	)

	stuck, err := svc.FindStuck(ctx, 5*time.Minute)
	require.NoError(t, err)
	require.Len(t, stuck, 1)
	assert.Equal(t, "stuck", stuck[0].ID)

	t.Run("terminal records never count as stuck", func(t *testing.T) {
		stuck, err := svc.FindStuck(ctx, time.Nanosecond)
		require.NoError(t, err)
		for _, rec := range stuck {
			assert.Equal(t, domain.StatusRunning, rec.Status)
		}
	})
}
