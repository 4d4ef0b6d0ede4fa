package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"projecthub/lifecycle"
	"projecthub/models"

	"github.com/google/uuid"
)

// MemoryStore keeps the whole marketplace in process. It implements the same
// contracts as DB and is used for local runs (STORE=memory) and tests.
// Transactions hold the store lock and restore a snapshot on failure.
type MemoryStore struct {
	mu   sync.Mutex
	data memData
}

type memData struct {
	accounts     map[uuid.UUID]models.Account
	profiles     map[uuid.UUID]models.Profile
	projects     map[uuid.UUID]models.Project
	applications map[uuid.UUID]models.Application
	stats        map[uuid.UUID]models.Stats
	completions  map[uuid.UUID]uuid.UUID
	badgeQueue   map[uuid.UUID]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: memData{
		accounts:     map[uuid.UUID]models.Account{},
		profiles:     map[uuid.UUID]models.Profile{},
		projects:     map[uuid.UUID]models.Project{},
		applications: map[uuid.UUID]models.Application{},
		stats:        map[uuid.UUID]models.Stats{},
		completions:  map[uuid.UUID]uuid.UUID{},
		badgeQueue:   map[uuid.UUID]time.Time{},
	}}
}

func (d memData) clone() memData {
	out := memData{
		accounts:     make(map[uuid.UUID]models.Account, len(d.accounts)),
		profiles:     make(map[uuid.UUID]models.Profile, len(d.profiles)),
		projects:     make(map[uuid.UUID]models.Project, len(d.projects)),
		applications: make(map[uuid.UUID]models.Application, len(d.applications)),
		stats:        make(map[uuid.UUID]models.Stats, len(d.stats)),
		completions:  make(map[uuid.UUID]uuid.UUID, len(d.completions)),
		badgeQueue:   make(map[uuid.UUID]time.Time, len(d.badgeQueue)),
	}
	for k, v := range d.accounts {
		out.accounts[k] = v
	}
	for k, v := range d.profiles {
		out.profiles[k] = v
	}
	for k, v := range d.projects {
		out.projects[k] = cloneProject(v)
	}
	for k, v := range d.applications {
		out.applications[k] = v
	}
	for k, v := range d.stats {
		out.stats[k] = v
	}
	for k, v := range d.completions {
		out.completions[k] = v
	}
	for k, v := range d.badgeQueue {
		out.badgeQueue[k] = v
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneProject(p models.Project) models.Project {
	p.Skills = append([]string(nil), p.Skills...)
	if p.AssignedStudentID != nil {
		id := *p.AssignedStudentID
		p.AssignedStudentID = &id
	}
	p.AssignedAt = cloneTime(p.AssignedAt)
	p.InProgressAt = cloneTime(p.InProgressAt)
	p.InReviewAt = cloneTime(p.InReviewAt)
	p.CompletedAt = cloneTime(p.CompletedAt)
	return p
}

// InTx runs fn with exclusive access to the store.
func (s *MemoryStore) InTx(ctx context.Context, fn func(tx lifecycle.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	err := fn(&memTx{d: &s.data})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.data = snapshot
	}
	return err
}

func (s *MemoryStore) locked(fn func(tx *memTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memTx{d: &s.data})
}

// memTx operates on the data without locking; callers hold the store lock.
type memTx struct {
	d *memData
}

func (t *memTx) InsertProject(_ context.Context, p *models.Project) error {
	if _, ok := t.d.projects[p.ID]; ok {
		return fmt.Errorf("failed to create project: %w", lifecycle.ErrDuplicate)
	}
	t.d.projects[p.ID] = cloneProject(*p)
	return nil
}

func (t *memTx) GetProject(_ context.Context, id uuid.UUID) (*models.Project, error) {
	p, ok := t.d.projects[id]
	if !ok {
		return nil, lifecycle.ErrNotFound
	}
	out := cloneProject(p)
	return &out, nil
}

func (t *memTx) UpdateProject(_ context.Context, p *models.Project, expected models.ProjectStatus) error {
	current, ok := t.d.projects[p.ID]
	if !ok || current.Status != expected {
		return lifecycle.ErrStaleStatus
	}
	if p.Status.HasAssignee() != (p.AssignedStudentID != nil) {
		return fmt.Errorf("failed to update project: assignee does not match status %s", p.Status)
	}
	t.d.projects[p.ID] = cloneProject(*p)
	return nil
}

func (t *memTx) DeleteProject(_ context.Context, id uuid.UUID, expected models.ProjectStatus) error {
	current, ok := t.d.projects[id]
	if !ok || current.Status != expected {
		return lifecycle.ErrStaleStatus
	}
	delete(t.d.projects, id)
	for appID, a := range t.d.applications {
		if a.ProjectID == id {
			delete(t.d.applications, appID)
		}
	}
	return nil
}

func (t *memTx) ListProjects(_ context.Context, filter models.ProjectFilter) ([]models.Project, int64, error) {
	matched := []models.Project{}
	for _, p := range t.d.projects {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.OwnerID != nil && p.BusinessOwnerID != *filter.OwnerID {
			continue
		}
		matched = append(matched, cloneProject(p))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	limit := validateLimit(filter.Limit, defaultLimit, maxLimit)
	offset := validateOffset(filter.Offset)
	if offset >= len(matched) {
		return []models.Project{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (t *memTx) InsertApplication(_ context.Context, a *models.Application) error {
	if _, ok := t.d.projects[a.ProjectID]; !ok {
		return fmt.Errorf("failed to create application: project %s does not exist", a.ProjectID)
	}
	for _, other := range t.d.applications {
		if other.ProjectID == a.ProjectID && other.ApplicantID == a.ApplicantID && other.Status.Active() {
			return fmt.Errorf("failed to create application: %w", lifecycle.ErrDuplicate)
		}
	}
	t.d.applications[a.ID] = *a
	return nil
}

func (t *memTx) GetApplication(_ context.Context, id uuid.UUID) (*models.Application, error) {
	a, ok := t.d.applications[id]
	if !ok {
		return nil, lifecycle.ErrNotFound
	}
	return &a, nil
}

func (t *memTx) FindActiveApplication(_ context.Context, projectID, applicantID uuid.UUID) (*models.Application, error) {
	for _, a := range t.d.applications {
		if a.ProjectID == projectID && a.ApplicantID == applicantID && a.Status.Active() {
			out := a
			return &out, nil
		}
	}
	return nil, lifecycle.ErrNotFound
}

func (t *memTx) UpdateApplication(_ context.Context, a *models.Application, expected models.ApplicationStatus) error {
	current, ok := t.d.applications[a.ID]
	if !ok || current.Status != expected {
		return lifecycle.ErrStaleStatus
	}
	if a.Status == models.ApplicationAccepted && current.Status != models.ApplicationAccepted {
		for _, other := range t.d.applications {
			if other.ProjectID == a.ProjectID && other.Status == models.ApplicationAccepted {
				return fmt.Errorf("failed to update application: %w", lifecycle.ErrDuplicate)
			}
		}
	}
	current.Status = a.Status
	current.SeenByApplicant = a.SeenByApplicant
	current.StatusChangedAt = a.StatusChangedAt
	t.d.applications[a.ID] = current
	return nil
}

func (t *memTx) ListApplicationsByProject(_ context.Context, projectID uuid.UUID) ([]models.Application, error) {
	return t.listApplications(func(a models.Application) bool { return a.ProjectID == projectID }, true), nil
}

func (t *memTx) ListApplicationsByApplicant(_ context.Context, applicantID uuid.UUID) ([]models.Application, error) {
	return t.listApplications(func(a models.Application) bool { return a.ApplicantID == applicantID }, false), nil
}

func (t *memTx) listApplications(match func(models.Application) bool, oldestFirst bool) []models.Application {
	out := []models.Application{}
	for _, a := range t.d.applications {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if oldestFirst {
			return out[i].AppliedAt.Before(out[j].AppliedAt)
		}
		return out[i].AppliedAt.After(out[j].AppliedAt)
	})
	return out
}

// Store methods outside an explicit transaction.

func (s *MemoryStore) InsertProject(ctx context.Context, p *models.Project) error {
	return s.locked(func(tx *memTx) error { return tx.InsertProject(ctx, p) })
}

func (s *MemoryStore) GetProject(ctx context.Context, id uuid.UUID) (p *models.Project, err error) {
	err = s.locked(func(tx *memTx) error {
		p, err = tx.GetProject(ctx, id)
		return err
	})
	return p, err
}

func (s *MemoryStore) UpdateProject(ctx context.Context, p *models.Project, expected models.ProjectStatus) error {
	return s.locked(func(tx *memTx) error { return tx.UpdateProject(ctx, p, expected) })
}

func (s *MemoryStore) DeleteProject(ctx context.Context, id uuid.UUID, expected models.ProjectStatus) error {
	return s.locked(func(tx *memTx) error { return tx.DeleteProject(ctx, id, expected) })
}

func (s *MemoryStore) ListProjects(ctx context.Context, filter models.ProjectFilter) (ps []models.Project, total int64, err error) {
	err = s.locked(func(tx *memTx) error {
		ps, total, err = tx.ListProjects(ctx, filter)
		return err
	})
	return ps, total, err
}

func (s *MemoryStore) InsertApplication(ctx context.Context, a *models.Application) error {
	return s.locked(func(tx *memTx) error { return tx.InsertApplication(ctx, a) })
}

func (s *MemoryStore) GetApplication(ctx context.Context, id uuid.UUID) (a *models.Application, err error) {
	err = s.locked(func(tx *memTx) error {
		a, err = tx.GetApplication(ctx, id)
		return err
	})
	return a, err
}

func (s *MemoryStore) FindActiveApplication(ctx context.Context, projectID, applicantID uuid.UUID) (a *models.Application, err error) {
	err = s.locked(func(tx *memTx) error {
		a, err = tx.FindActiveApplication(ctx, projectID, applicantID)
		return err
	})
	return a, err
}

func (s *MemoryStore) UpdateApplication(ctx context.Context, a *models.Application, expected models.ApplicationStatus) error {
	return s.locked(func(tx *memTx) error { return tx.UpdateApplication(ctx, a, expected) })
}

func (s *MemoryStore) ListApplicationsByProject(ctx context.Context, projectID uuid.UUID) (apps []models.Application, err error) {
	err = s.locked(func(tx *memTx) error {
		apps, err = tx.ListApplicationsByProject(ctx, projectID)
		return err
	})
	return apps, err
}

func (s *MemoryStore) ListApplicationsByApplicant(ctx context.Context, applicantID uuid.UUID) (apps []models.Application, err error) {
	err = s.locked(func(tx *memTx) error {
		apps, err = tx.ListApplicationsByApplicant(ctx, applicantID)
		return err
	})
	return apps, err
}

// Accounts, profiles and stats.

func (s *MemoryStore) CreateAccount(_ context.Context, externalID string, role models.Role) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.data.accounts {
		if a.ExternalID == externalID {
			return nil, fmt.Errorf("failed to create account: %w", lifecycle.ErrDuplicate)
		}
	}
	a := models.Account{ID: uuid.New(), ExternalID: externalID, Role: role, CreatedAt: time.Now().UTC()}
	s.data.accounts[a.ID] = a
	return &a, nil
}

func (s *MemoryStore) ResolveActor(_ context.Context, externalID string) (*models.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.data.accounts {
		if a.ExternalID == externalID {
			return a.Actor(), nil
		}
	}
	return nil, lifecycle.ErrNotFound
}

func (s *MemoryStore) SaveProfile(_ context.Context, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Skills = append([]string(nil), p.Skills...)
	p.Education = append([]string(nil), p.Education...)
	s.data.profiles[p.AccountID] = p
	return nil
}

func (s *MemoryStore) CheckProfile(_ context.Context, accountID uuid.UUID) (models.ProfileCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.data.profiles[accountID]
	if !ok {
		return (*models.Profile)(nil).Check(), nil
	}
	return p.Check(), nil
}

func (s *MemoryStore) IncrementStats(_ context.Context, accountID uuid.UUID, inc models.StatsIncrement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, done := s.data.completions[inc.ProjectID]; done {
		return nil
	}
	s.data.completions[inc.ProjectID] = accountID
	st := s.data.stats[accountID]
	st.AccountID = accountID
	st.ProjectsCompleted += inc.ProjectsCompleted
	st.HoursContributed += inc.HoursContributed
	s.data.stats[accountID] = st
	return nil
}

func (s *MemoryStore) RecalculateBadges(_ context.Context, accountID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.badgeQueue[accountID] = time.Now().UTC()
	return nil
}

func (s *MemoryStore) GetStats(_ context.Context, accountID uuid.UUID) (*models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.data.stats[accountID]
	st.AccountID = accountID
	return &st, nil
}

// BadgeRecalculationPending reports whether a recalculation was requested
// for the account.
func (s *MemoryStore) BadgeRecalculationPending(accountID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.data.badgeQueue[accountID]
	return ok
}
