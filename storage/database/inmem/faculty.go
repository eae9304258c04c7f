package inmemdb

import (
	"context"
	"time"

	"github.com/facsched/backend/core/faculty"
)

type facultyRepository struct {
	db *facultyTable
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db *DB) faculty.Repository {
	return &facultyRepository{db: db.faculty}
}

func (repo *facultyRepository) GetProfile(_ context.Context, userID string) (faculty.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.table[userID]; ok {
		return clone(p), nil
	}
	return faculty.Profile{}, faculty.ErrNotFound
}

func (repo *facultyRepository) SaveProfile(_ context.Context, p faculty.Profile) (faculty.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	now := p.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	stored, ok := repo.db.table[p.UserID]
	if !ok {
		stored = &faculty.Profile{UserID: p.UserID, CreatedAt: now}
		repo.db.table[p.UserID] = stored
	}
	stored.Name = p.Name
	stored.Department = p.Department
	stored.EmployeeID = p.EmployeeID
	if p.Email != "" {
		stored.Email = p.Email
	}
	stored.Timetable = p.Timetable.Clone()
	stored.SignupCompleted = false
	stored.UpdatedAt = now
	return clone(stored), nil
}

func (repo *facultyRepository) CompleteSignup(_ context.Context, userID string, at time.Time) (faculty.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored, ok := repo.db.table[userID]
	if !ok {
		return faculty.Profile{}, faculty.ErrNotFound
	}
	at = at.UTC()
	stored.SignupCompleted = true
	stored.CompletedAt = &at
	stored.UpdatedAt = at
	return clone(stored), nil
}

func (repo *facultyRepository) DeleteProfile(_ context.Context, userID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[userID]; !ok {
		return faculty.ErrNotFound
	}
	delete(repo.db.table, userID)
	return nil
}

// clone copies a stored profile so callers never share its timetable or completion time.
func clone(p *faculty.Profile) faculty.Profile {
	c := *p
	c.Timetable = p.Timetable.Clone()
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		c.CompletedAt = &at
	}
	return c
}
