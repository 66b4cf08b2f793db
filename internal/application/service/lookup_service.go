package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
)

var assignableRoles = map[string]bool{
	entity.RoleRnD:       true,
	entity.RoleEvaluator: true,
	entity.RoleRDEC:      true,
	entity.RoleAdmin:     true,
}

// LookupService serves the reference tables used by proposal forms
type LookupService interface {
	All(ctx context.Context, p *Principal) (*entity.Lookups, error)
	UsersByRole(ctx context.Context, p *Principal, role string, departmentID int64) ([]entity.Account, error)
}

type lookupServiceImpl struct {
	cache    port.Cache
	cacheTTL time.Duration
	logger   Logger
}

// NewLookupService creates a new LookupService
func NewLookupService(cache port.Cache, cacheTTL time.Duration, logger Logger) LookupService {
	return &lookupServiceImpl{cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// All fetches every lookup table concurrently. Lookups are the same for
// every user and cached globally.
func (s *lookupServiceImpl) All(ctx context.Context, p *Principal) (*entity.Lookups, error) {
	lookups, err := cached(ctx, s.cache, s.cacheTTL, s.logger, NamespaceLookups, nil, func(ctx context.Context) (entity.Lookups, error) {
		return s.fetchAll(ctx, p.API)
	})
	if err != nil {
		s.logger.Error("Failed to fetch lookups", "error", err)
		return nil, err
	}
	return &lookups, nil
}

func (s *lookupServiceImpl) fetchAll(ctx context.Context, api port.ProposalAPI) (entity.Lookups, error) {
	var out entity.Lookups
	g, ctx := errgroup.WithContext(ctx)

	tables := []struct {
		name string
		dest *[]entity.Ref
	}{
		{port.LookupDepartment, &out.Departments},
		{port.LookupDiscipline, &out.Disciplines},
		{port.LookupSector, &out.Sectors},
		{port.LookupTag, &out.Tags},
		{port.LookupPriority, &out.Priorities},
		{port.LookupStation, &out.Stations},
		{port.LookupCommodity, &out.Commodities},
	}
	for _, t := range tables {
		t := t
		g.Go(func() error {
			refs, err := api.Lookup(ctx, t.name)
			if err != nil {
				return err
			}
			*t.dest = refs
			return nil
		})
	}
	g.Go(func() error {
		agencies, err := api.Agencies(ctx, false)
		out.Agencies = agencies
		return err
	})
	g.Go(func() error {
		agencies, err := api.Agencies(ctx, true)
		out.CooperatingAgencies = agencies
		return err
	})

	if err := g.Wait(); err != nil {
		return entity.Lookups{}, err
	}
	return out, nil
}

// UsersByRole lists accounts that can be assigned work
func (s *lookupServiceImpl) UsersByRole(ctx context.Context, p *Principal, role string, departmentID int64) ([]entity.Account, error) {
	if !assignableRoles[role] {
		return nil, validationError("role must be rnd, evaluator, rdec or admin")
	}
	if departmentID < 0 {
		return nil, validationError("department_id cannot be negative")
	}
	users, err := p.API.UsersByRole(ctx, role, departmentID)
	if err != nil {
		s.logger.Error("Failed to list users by role", "role", role, "error", err)
		return nil, err
	}
	return users, nil
}
