package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/facsched/backend/core"
	"github.com/facsched/backend/core/faculty"
	"github.com/facsched/backend/core/timetable"
)

const facultyColumns = `user_id, name, department, employee_id, email, timetable, signup_completed, completed_at, created_at, updated_at`

type facultyRow struct {
	UserID          string    `db:"user_id"`
	Name            string    `db:"name"`
	Department      string    `db:"department"`
	EmployeeID      string    `db:"employee_id"`
	Email           string    `db:"email"`
	Timetable       null.JSON `db:"timetable"`
	SignupCompleted bool      `db:"signup_completed"`
	CompletedAt     null.Time `db:"completed_at"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type facultyRepository struct {
	exec core.DBExecutor
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(exec core.DBExecutor) faculty.Repository {
	return &facultyRepository{exec: exec}
}

func (repo facultyRepository) toRow(p faculty.Profile) (facultyRow, error) {
	row := facultyRow{
		UserID:          p.UserID,
		Name:            p.Name,
		Department:      p.Department,
		EmployeeID:      p.EmployeeID,
		Email:           p.Email,
		SignupCompleted: p.SignupCompleted,
		CompletedAt:     null.TimeFromPtr(p.CompletedAt),
		CreatedAt:       p.CreatedAt.UTC(),
		UpdatedAt:       p.UpdatedAt.UTC(),
	}
	if p.Timetable != nil {
		data, err := json.Marshal(p.Timetable)
		if err != nil {
			return facultyRow{}, errors.Wrap(err, "encoding timetable")
		}
		row.Timetable = null.JSONFrom(data)
	}
	return row, nil
}

func (repo facultyRepository) fromRow(row facultyRow) (faculty.Profile, error) {
	p := faculty.Profile{
		UserID:          row.UserID,
		Name:            row.Name,
		Department:      row.Department,
		EmployeeID:      row.EmployeeID,
		Email:           row.Email,
		SignupCompleted: row.SignupCompleted,
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
	}
	if row.CompletedAt.Valid {
		at := row.CompletedAt.Time.UTC()
		p.CompletedAt = &at
	}
	if row.Timetable.Valid {
		tt := new(timetable.Timetable)
		if err := row.Timetable.Unmarshal(tt); err != nil {
			return faculty.Profile{}, errors.Wrap(err, "decoding timetable")
		}
		p.Timetable = tt
	}
	return p, nil
}

func (repo facultyRepository) getOne(ctx context.Context, query string, args ...interface{}) (faculty.Profile, error) {
	var row facultyRow
	if err := repo.exec.GetContext(ctx, &row, repo.exec.Rebind(query), args...); err != nil {
		if err == sql.ErrNoRows {
			return faculty.Profile{}, faculty.ErrNotFound
		}
		return faculty.Profile{}, err
	}
	return repo.fromRow(row)
}

func (repo facultyRepository) GetProfile(ctx context.Context, userID string) (faculty.Profile, error) {
	p, err := repo.getOne(ctx, `SELECT `+facultyColumns+` FROM faculty WHERE user_id = ?`, userID)
	return p, errors.Wrap(err, "selecting faculty")
}

func (repo facultyRepository) SaveProfile(ctx context.Context, p faculty.Profile) (faculty.Profile, error) {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	p.CreatedAt = p.UpdatedAt
	p.SignupCompleted = false

	row, err := repo.toRow(p)
	if err != nil {
		return faculty.Profile{}, err
	}

	q := `INSERT INTO faculty (user_id, name, department, employee_id, email, timetable, signup_completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, FALSE, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			department = EXCLUDED.department,
			employee_id = EXCLUDED.employee_id,
			email = COALESCE(NULLIF(EXCLUDED.email, ''), faculty.email),
			timetable = EXCLUDED.timetable,
			signup_completed = FALSE,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + facultyColumns
	saved, err := repo.getOne(ctx, q,
		row.UserID, row.Name, row.Department, row.EmployeeID, row.Email, row.Timetable, row.CreatedAt, row.UpdatedAt)
	return saved, errors.Wrap(err, "upserting faculty")
}

func (repo facultyRepository) CompleteSignup(ctx context.Context, userID string, at time.Time) (faculty.Profile, error) {
	q := `UPDATE faculty SET signup_completed = TRUE, completed_at = ?, updated_at = ? WHERE user_id = ? RETURNING ` + facultyColumns
	p, err := repo.getOne(ctx, q, at.UTC(), at.UTC(), userID)
	return p, errors.Wrap(err, "completing faculty signup")
}

func (repo facultyRepository) DeleteProfile(ctx context.Context, userID string) error {
	res, err := repo.exec.ExecContext(ctx, repo.exec.Rebind(`DELETE FROM faculty WHERE user_id = ?`), userID)
	if err != nil {
		return errors.Wrap(err, "deleting faculty")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting faculty")
	}
	if n == 0 {
		return faculty.ErrNotFound
	}
	return nil
}
