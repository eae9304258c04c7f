package sqlxrepos

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facsched/backend/core/faculty"
	"github.com/facsched/backend/core/timetable"
	"github.com/facsched/backend/storage/database"
)

const sampleInput = "08:00\t09:00\n08:50\t09:50\n08:00\t09:40\n09:40\t11:20\n" +
	"Monday\tTHEORY\tA1-BCSE305L-TH-SJT704-ALL\tL1\nMonday\tLAB\tB2\t-\n" +
	"Tuesday\tTHEORY\tB1\t-\nTuesday\tLAB\t-\tL2\n" +
	"Wednesday\tTHEORY\tC1\t-\nWednesday\tLAB\t-\t-\n" +
	"Thursday\tTHEORY\tD1\t-\nThursday\tLAB\t-\t-\n" +
	"Friday\tTHEORY\tE1\t-\nFriday\tLAB\t-\t-\n" +
	"Saturday\tTHEORY\tF1\t-\nSaturday\tLAB\t-\t-"

// not sorted in any way the database could produce on its own
var weekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// setup connects to the database named by DATABASE_URL; the tests are skipped without it.
func setup(t *testing.T) faculty.Repository {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := database.OpenURL("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, database.Ping(ctx, db, 5))
	require.NoError(t, database.Migrate(db))

	_, err = db.Exec("TRUNCATE faculty")
	require.NoError(t, err)
	return NewFacultyRepository(db)
}

func TestFacultyRepository(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()

	tt, err := timetable.Parse(sampleInput)
	require.NoError(t, err)

	_, err = repo.GetProfile(ctx, "uid-1")
	assert.Equal(t, faculty.ErrNotFound, errors.Cause(err))

	now := time.Now().UTC().Truncate(time.Microsecond)
	saved, err := repo.SaveProfile(ctx, faculty.Profile{
		UserID:     "uid-1",
		Name:       "Ada Lovelace",
		Department: "CSE",
		EmployeeID: "EMP-1",
		Email:      "ada@uni.test",
		Timetable:  tt,
		UpdatedAt:  now,
	})
	require.NoError(t, err)
	assert.False(t, saved.SignupCompleted)
	assert.Equal(t, tt, saved.Timetable)
	assert.Equal(t, weekDays, saved.Timetable.Days.Names())

	got, err := repo.GetProfile(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, tt, got.Timetable)
	assert.Equal(t, weekDays, got.Timetable.Days.Names())

	completedAt := now.Add(time.Minute)
	completed, err := repo.CompleteSignup(ctx, "uid-1", completedAt)
	require.NoError(t, err)
	assert.True(t, completed.SignupCompleted)
	require.NotNil(t, completed.CompletedAt)
	assert.True(t, completedAt.Equal(*completed.CompletedAt))
	assert.Equal(t, weekDays, completed.Timetable.Days.Names())

	// saving again keeps the email when none is given and resets the signup
	resaved, err := repo.SaveProfile(ctx, faculty.Profile{UserID: "uid-1", Name: "Ada", Department: "CSE", EmployeeID: "EMP-1", Timetable: tt})
	require.NoError(t, err)
	assert.Equal(t, "ada@uni.test", resaved.Email)
	assert.Equal(t, "Ada", resaved.Name)
	assert.False(t, resaved.SignupCompleted)
	assert.True(t, saved.CreatedAt.Equal(resaved.CreatedAt))

	_, err = repo.CompleteSignup(ctx, "uid-unknown", now)
	assert.Equal(t, faculty.ErrNotFound, errors.Cause(err))

	require.NoError(t, repo.DeleteProfile(ctx, "uid-1"))
	assert.Equal(t, faculty.ErrNotFound, errors.Cause(repo.DeleteProfile(ctx, "uid-1")))
}
