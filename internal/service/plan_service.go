package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"

	"slateai/health-planner/internal/agent"
	"slateai/health-planner/internal/catalog"
	"slateai/health-planner/internal/domain"
	"slateai/health-planner/internal/repository"
	"slateai/health-planner/internal/storage"
)

var ErrPlanNotFound = errors.New("plan not found")

// PlanSource marks where a served plan came from.
const (
	SourceDatabase = "database"
	SourceCatalog  = "json"
)

// GeneratedPlan is the result of a generation request. Stored reports
// whether the plan made it into the database; generation succeeds
// either way.
type GeneratedPlan struct {
	PlanID   string
	Plan     domain.PlanDocument
	Metadata domain.PlanMetadata
	Safety   agent.SafetyReport
	Stored   bool
}

// DiscoverFilter narrows the merged plan listing.
type DiscoverFilter struct {
	Category   string
	Difficulty string
	PlanType   string
	Limit      int
}

// DiscoverEntry is one plan in the merged listing.
type DiscoverEntry struct {
	domain.PlanDocument
	Metadata domain.PlanMetadata `json:"metadata"`
	Source   string              `json:"source"`
}

type PlanService interface {
	Generate(ctx context.Context, req domain.PlanRequest) (*GeneratedPlan, error)
	Get(ctx context.Context, planID string) (domain.PlanDocument, string, error)
	Discover(ctx context.Context, filter DiscoverFilter) (map[string]DiscoverEntry, error)
	Deactivate(ctx context.Context, planID string) error
	Delete(ctx context.Context, planID string) error
}

type planService struct {
	orchestrator *agent.Orchestrator
	planRepo     repository.PlanRepository
	catalog      *catalog.Catalog
	backup       storage.BackupStorage
}

// NewPlanService wires the generation pipeline to persistence. backup
// may be nil when no object storage is configured.
func NewPlanService(orchestrator *agent.Orchestrator, planRepo repository.PlanRepository, cat *catalog.Catalog, backup storage.BackupStorage) PlanService {
	if cat == nil {
		cat = catalog.Empty()
	}
	return &planService{
		orchestrator: orchestrator,
		planRepo:     planRepo,
		catalog:      cat,
		backup:       backup,
	}
}

// Generate runs the agent pipeline and persists the result. A pipeline
// error fails the whole call; a persistence error does not, the plan is
// still returned and a backup snapshot is attempted instead.
func (s *planService) Generate(ctx context.Context, req domain.PlanRequest) (*GeneratedPlan, error) {
	result, err := s.orchestrator.GeneratePlan(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &GeneratedPlan{
		PlanID:   result.PlanID,
		Plan:     result.Plan,
		Metadata: result.Metadata,
		Safety:   result.Safety,
	}

	if err := s.store(ctx, result); err != nil {
		log.Printf("WARN: failed to store plan %s: %v", result.PlanID, err)
		s.backupPlan(ctx, result.PlanID, result.Plan)
		return out, nil
	}
	out.Stored = true
	return out, nil
}

// store creates the record, or updates it when the plan id already
// exists. The check-then-write is not atomic; concurrent generation of
// the same plan id last-writer-wins, which is acceptable for idempotent
// regeneration.
func (s *planService) store(ctx context.Context, result agent.GenerateResult) error {
	record := &domain.PlanRecord{
		PlanID:   result.PlanID,
		PlanData: result.Plan,
		Metadata: result.Metadata,
	}

	_, err := s.planRepo.GetRecordByPlanID(ctx, result.PlanID)
	if err == nil {
		return s.planRepo.Update(ctx, record)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	_, err = s.planRepo.Create(ctx, record)
	return err
}

func (s *planService) backupPlan(ctx context.Context, planID string, plan domain.PlanDocument) {
	if s.backup == nil {
		return
	}
	data, err := json.Marshal(plan)
	if err != nil {
		log.Printf("ERROR: failed to marshal plan %s for backup: %v", planID, err)
		return
	}
	if err := s.backup.SavePlanBackup(ctx, planID, data); err != nil {
		log.Printf("WARN: plan backup for %s failed: %v", planID, err)
	}
}

// Get returns the active plan for the id, falling back to the bundled
// catalog when the database misses or is unreachable. The second
// return value reports the source.
func (s *planService) Get(ctx context.Context, planID string) (domain.PlanDocument, string, error) {
	record, err := s.planRepo.GetByPlanID(ctx, planID)
	if err == nil {
		return record.PlanData, SourceDatabase, nil
	}
	if !errors.Is(err, repository.ErrNotFound) && !errors.Is(err, repository.ErrUnavailable) {
		return domain.PlanDocument{}, "", err
	}

	if plan, ok := s.catalog.Get(planID); ok {
		return plan, SourceCatalog, nil
	}
	return domain.PlanDocument{}, "", ErrPlanNotFound
}

// Discover merges database plans with the bundled catalog. Database
// plans win on id collision; catalog entries get default metadata.
// Results are filtered, then limited over sorted ids so pagination is
// stable.
func (s *planService) Discover(ctx context.Context, filter DiscoverFilter) (map[string]DiscoverEntry, error) {
	all := make(map[string]DiscoverEntry)

	records, err := s.planRepo.ListActive(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrUnavailable) {
			return nil, err
		}
		log.Printf("WARN: plan store unavailable, serving catalog only: %v", err)
	}
	for _, record := range records {
		all[record.PlanID] = DiscoverEntry{
			PlanDocument: record.PlanData,
			Metadata:     record.Metadata,
			Source:       SourceDatabase,
		}
	}

	for planID, plan := range s.catalog.All() {
		if _, exists := all[planID]; exists {
			continue
		}
		all[planID] = DiscoverEntry{
			PlanDocument: plan,
			Metadata: domain.PlanMetadata{
				Type:       "default",
				Category:   "general",
				Difficulty: "intermediate",
				Duration:   "12_weeks",
			},
			Source: SourceCatalog,
		}
	}

	filtered := make(map[string]DiscoverEntry)
	for planID, entry := range all {
		if filter.Category != "" && entry.Metadata.Category != filter.Category {
			continue
		}
		if filter.Difficulty != "" && entry.Metadata.Difficulty != filter.Difficulty {
			continue
		}
		if filter.PlanType != "" && entry.Metadata.Type != filter.PlanType {
			continue
		}
		filtered[planID] = entry
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if len(filtered) <= limit {
		return filtered, nil
	}

	ids := make([]string, 0, len(filtered))
	for planID := range filtered {
		ids = append(ids, planID)
	}
	sort.Strings(ids)

	limited := make(map[string]DiscoverEntry, limit)
	for _, planID := range ids[:limit] {
		limited[planID] = filtered[planID]
	}
	return limited, nil
}

// Deactivate soft-deletes the plan. The record stays in the database
// with isActive false and disappears from reads and listings.
func (s *planService) Deactivate(ctx context.Context, planID string) error {
	err := s.planRepo.Deactivate(ctx, planID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

// Delete removes the plan record entirely, plus its backup snapshot.
func (s *planService) Delete(ctx context.Context, planID string) error {
	err := s.planRepo.Delete(ctx, planID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanNotFound
	}
	if err != nil {
		return err
	}
	if s.backup != nil {
		if berr := s.backup.DeletePlanBackup(ctx, planID); berr != nil {
			log.Printf("WARN: failed to delete backup for %s: %v", planID, berr)
		}
	}
	return nil
}
