package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"slateai/health-planner/internal/agent"
	"slateai/health-planner/internal/catalog"
	"slateai/health-planner/internal/domain"
	"slateai/health-planner/internal/llm"
	"slateai/health-planner/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// offlineCompleter drives the orchestrator down its deterministic
// fallback paths so service tests need no model.
type offlineCompleter struct{}

func (offlineCompleter) Complete(context.Context, llm.CompletionRequest) (string, error) {
	return "", errors.New("model unavailable")
}

// fakePlanRepo is an in-memory PlanRepository. failWith, when set, is
// returned from every method.
type fakePlanRepo struct {
	records  map[string]*domain.PlanRecord
	failWith error
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{records: make(map[string]*domain.PlanRecord)}
}

func (r *fakePlanRepo) Create(_ context.Context, record *domain.PlanRecord) (primitive.ObjectID, error) {
	if r.failWith != nil {
		return primitive.NilObjectID, r.failWith
	}
	record.ID = primitive.NewObjectID()
	record.IsActive = true
	copied := *record
	r.records[record.PlanID] = &copied
	return record.ID, nil
}

func (r *fakePlanRepo) GetByPlanID(_ context.Context, planID string) (*domain.PlanRecord, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	record, ok := r.records[planID]
	if !ok || !record.IsActive {
		return nil, repository.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakePlanRepo) GetRecordByPlanID(_ context.Context, planID string) (*domain.PlanRecord, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	record, ok := r.records[planID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakePlanRepo) ListActive(_ context.Context) ([]domain.PlanRecord, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []domain.PlanRecord
	for _, record := range r.records {
		if record.IsActive {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) Update(_ context.Context, record *domain.PlanRecord) error {
	if r.failWith != nil {
		return r.failWith
	}
	existing, ok := r.records[record.PlanID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.PlanData = record.PlanData
	existing.Metadata = record.Metadata
	return nil
}

func (r *fakePlanRepo) Deactivate(_ context.Context, planID string) error {
	if r.failWith != nil {
		return r.failWith
	}
	record, ok := r.records[planID]
	if !ok || !record.IsActive {
		return repository.ErrNotFound
	}
	record.IsActive = false
	return nil
}

func (r *fakePlanRepo) Delete(_ context.Context, planID string) error {
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.records[planID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.records, planID)
	return nil
}

// fakeBackup records backup calls.
type fakeBackup struct {
	saved   map[string][]byte
	deleted []string
}

func newFakeBackup() *fakeBackup {
	return &fakeBackup{saved: make(map[string][]byte)}
}

func (b *fakeBackup) SavePlanBackup(_ context.Context, planID string, data []byte) error {
	b.saved[planID] = data
	return nil
}

func (b *fakeBackup) DeletePlanBackup(_ context.Context, planID string) error {
	b.deleted = append(b.deleted, planID)
	return nil
}

func writeCatalog(t *testing.T, plans map[string]domain.PlanDocument) *catalog.Catalog {
	t.Helper()
	data, err := json.Marshal(plans)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	cat, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}

func testOrchestrator() *agent.Orchestrator {
	return agent.NewOrchestrator(offlineCompleter{})
}

func TestPlanServiceGenerate(t *testing.T) {
	ctx := context.Background()
	req := domain.PlanRequest{Population: "general", Goals: []string{"strength_improvement"}}

	t.Run("stores the generated plan", func(t *testing.T) {
		repo := newFakePlanRepo()
		svc := NewPlanService(testOrchestrator(), repo, nil, nil)

		generated, err := svc.Generate(ctx, req)
		require.NoError(t, err)
		assert.True(t, generated.Stored)
		assert.Equal(t, "general_strength_improvement", generated.PlanID)

		stored, err := repo.GetByPlanID(ctx, generated.PlanID)
		require.NoError(t, err)
		assert.Equal(t, generated.Plan.Overview, stored.PlanData.Overview)
		assert.Equal(t, "ai_generated", stored.Metadata.Type)
	})

	t.Run("regeneration updates in place", func(t *testing.T) {
		repo := newFakePlanRepo()
		svc := NewPlanService(testOrchestrator(), repo, nil, nil)

		first, err := svc.Generate(ctx, req)
		require.NoError(t, err)
		second, err := svc.Generate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, first.PlanID, second.PlanID)
		assert.Len(t, repo.records, 1)
	})

	t.Run("store failure still returns the plan and snapshots it", func(t *testing.T) {
		repo := newFakePlanRepo()
		repo.failWith = repository.ErrUnavailable
		backup := newFakeBackup()
		svc := NewPlanService(testOrchestrator(), repo, nil, backup)

		generated, err := svc.Generate(ctx, req)
		require.NoError(t, err)
		assert.False(t, generated.Stored)
		assert.NotEmpty(t, generated.Plan.Days)
		assert.Contains(t, backup.saved, generated.PlanID)
	})
}

func TestPlanServiceGet(t *testing.T) {
	ctx := context.Background()
	catalogPlan := domain.PlanDocument{Overview: "bundled starter plan"}
	cat := writeCatalog(t, map[string]domain.PlanDocument{"building_muscle": catalogPlan})

	t.Run("database hit", func(t *testing.T) {
		repo := newFakePlanRepo()
		_, err := repo.Create(ctx, &domain.PlanRecord{
			PlanID:   "building_muscle",
			PlanData: domain.PlanDocument{Overview: "stored plan"},
		})
		require.NoError(t, err)

		svc := NewPlanService(testOrchestrator(), repo, cat, nil)
		plan, source, err := svc.Get(ctx, "building_muscle")
		require.NoError(t, err)
		assert.Equal(t, SourceDatabase, source)
		assert.Equal(t, "stored plan", plan.Overview)
	})

	t.Run("database miss falls back to catalog", func(t *testing.T) {
		svc := NewPlanService(testOrchestrator(), newFakePlanRepo(), cat, nil)
		plan, source, err := svc.Get(ctx, "building_muscle")
		require.NoError(t, err)
		assert.Equal(t, SourceCatalog, source)
		assert.Equal(t, "bundled starter plan", plan.Overview)
	})

	t.Run("unavailable store falls back to catalog", func(t *testing.T) {
		repo := newFakePlanRepo()
		repo.failWith = repository.ErrUnavailable
		svc := NewPlanService(testOrchestrator(), repo, cat, nil)
		_, source, err := svc.Get(ctx, "building_muscle")
		require.NoError(t, err)
		assert.Equal(t, SourceCatalog, source)
	})

	t.Run("unknown everywhere", func(t *testing.T) {
		svc := NewPlanService(testOrchestrator(), newFakePlanRepo(), cat, nil)
		_, _, err := svc.Get(ctx, "no_such_plan")
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("deactivated plan misses reads but record remains", func(t *testing.T) {
		repo := newFakePlanRepo()
		_, err := repo.Create(ctx, &domain.PlanRecord{PlanID: "retired", PlanData: domain.PlanDocument{Overview: "old"}})
		require.NoError(t, err)

		svc := NewPlanService(testOrchestrator(), repo, nil, nil)
		require.NoError(t, svc.Deactivate(ctx, "retired"))

		_, _, err = svc.Get(ctx, "retired")
		assert.ErrorIs(t, err, ErrPlanNotFound)

		record, err := repo.GetRecordByPlanID(ctx, "retired")
		require.NoError(t, err)
		assert.False(t, record.IsActive)
	})
}

func TestPlanServiceDiscover(t *testing.T) {
	ctx := context.Background()
	cat := writeCatalog(t, map[string]domain.PlanDocument{
		"building_muscle": {Overview: "catalog muscle"},
		"weight_loss":     {Overview: "catalog cut"},
	})

	repo := newFakePlanRepo()
	_, err := repo.Create(ctx, &domain.PlanRecord{
		PlanID:   "weight_loss",
		PlanData: domain.PlanDocument{Overview: "db cut"},
		Metadata: domain.PlanMetadata{Type: "ai_generated", Category: "weight_loss", Difficulty: "beginner", Duration: "12_weeks"},
	})
	require.NoError(t, err)

	svc := NewPlanService(testOrchestrator(), repo, cat, nil)

	t.Run("database wins on id collision", func(t *testing.T) {
		plans, err := svc.Discover(ctx, DiscoverFilter{})
		require.NoError(t, err)
		require.Len(t, plans, 2)
		assert.Equal(t, SourceDatabase, plans["weight_loss"].Source)
		assert.Equal(t, "db cut", plans["weight_loss"].Overview)
		assert.Equal(t, SourceCatalog, plans["building_muscle"].Source)
	})

	t.Run("catalog entries get default metadata", func(t *testing.T) {
		plans, err := svc.Discover(ctx, DiscoverFilter{})
		require.NoError(t, err)
		meta := plans["building_muscle"].Metadata
		assert.Equal(t, "default", meta.Type)
		assert.Equal(t, "general", meta.Category)
		assert.Equal(t, "intermediate", meta.Difficulty)
		assert.Equal(t, "12_weeks", meta.Duration)
	})

	t.Run("plan type filter", func(t *testing.T) {
		plans, err := svc.Discover(ctx, DiscoverFilter{PlanType: "ai_generated"})
		require.NoError(t, err)
		require.Len(t, plans, 1)
		assert.Contains(t, plans, "weight_loss")
	})

	t.Run("category filter", func(t *testing.T) {
		plans, err := svc.Discover(ctx, DiscoverFilter{Category: "general"})
		require.NoError(t, err)
		require.Len(t, plans, 1)
		assert.Contains(t, plans, "building_muscle")
	})

	t.Run("limit over sorted ids", func(t *testing.T) {
		plans, err := svc.Discover(ctx, DiscoverFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, plans, 1)
		assert.Contains(t, plans, "building_muscle") // first alphabetically
	})

	t.Run("unavailable store serves catalog only", func(t *testing.T) {
		down := newFakePlanRepo()
		down.failWith = repository.ErrUnavailable
		svc := NewPlanService(testOrchestrator(), down, cat, nil)

		plans, err := svc.Discover(ctx, DiscoverFilter{})
		require.NoError(t, err)
		require.Len(t, plans, 2)
		for _, entry := range plans {
			assert.Equal(t, SourceCatalog, entry.Source)
		}
	})
}

func TestPlanServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("hard delete removes record and backup", func(t *testing.T) {
		repo := newFakePlanRepo()
		_, err := repo.Create(ctx, &domain.PlanRecord{PlanID: "doomed"})
		require.NoError(t, err)
		backup := newFakeBackup()

		svc := NewPlanService(testOrchestrator(), repo, nil, backup)
		require.NoError(t, svc.Delete(ctx, "doomed"))

		_, err = repo.GetRecordByPlanID(ctx, "doomed")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Equal(t, []string{"doomed"}, backup.deleted)
	})

	t.Run("missing plan maps to ErrPlanNotFound", func(t *testing.T) {
		svc := NewPlanService(testOrchestrator(), newFakePlanRepo(), nil, nil)
		assert.ErrorIs(t, svc.Delete(ctx, "ghost"), ErrPlanNotFound)
		assert.ErrorIs(t, svc.Deactivate(ctx, "ghost"), ErrPlanNotFound)
	})
}
