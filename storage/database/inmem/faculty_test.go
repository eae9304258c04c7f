package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facsched/backend/core/faculty"
	"github.com/facsched/backend/core/timetable"
	testutil "github.com/facsched/backend/tests"
)

func TestFacultyRepository(t *testing.T) {
	repo := NewFacultyRepository(Open())
	ctx := context.Background()

	_, err := repo.GetProfile(ctx, "uid-1")
	assert.Equal(t, faculty.ErrNotFound, err)

	now := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)
	saved := testutil.CreateProfile(t, repo, "uid-1", "Ada", "ada@uni.test", true, now)
	assert.True(t, saved.SignupCompleted)
	assert.Equal(t, now, saved.CreatedAt)

	resaved, err := repo.SaveProfile(ctx, faculty.Profile{UserID: "uid-1", Name: "Ada L.", Timetable: saved.Timetable})
	require.NoError(t, err)
	assert.Equal(t, "ada@uni.test", resaved.Email)
	assert.False(t, resaved.SignupCompleted)
	assert.Equal(t, now, resaved.CreatedAt)

	require.NoError(t, repo.DeleteProfile(ctx, "uid-1"))
	assert.Equal(t, faculty.ErrNotFound, repo.DeleteProfile(ctx, "uid-1"))
	_, err = repo.CompleteSignup(ctx, "uid-1", now)
	assert.Equal(t, faculty.ErrNotFound, err)
}

func TestFacultyRepository_copies(t *testing.T) {
	repo := NewFacultyRepository(Open())
	ctx := context.Background()

	input := testutil.ParseTimetable(t)
	want := input.Clone()
	saved, err := repo.SaveProfile(ctx, faculty.Profile{UserID: "uid-1", Name: "Ada", Timetable: input})
	require.NoError(t, err)
	completed, err := repo.CompleteSignup(ctx, "uid-1", time.Now())
	require.NoError(t, err)

	// edits through the caller's values never reach the stored profile
	input.Days[0].Theory[0].Code = "ZZ"
	saved.Timetable.Days[0].Theory[0] = nil
	saved.Timetable.Days = append(saved.Timetable.Days, timetable.Day{Name: "WED"})
	completed.Timetable.TheorySlots[0].Start = "00:00"
	*completed.CompletedAt = time.Time{}

	got, err := repo.GetProfile(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, want, got.Timetable)
	require.NotNil(t, got.CompletedAt)
	assert.False(t, got.CompletedAt.IsZero())

	got.Timetable.Days[1].Name = "FRI"
	again, err := repo.GetProfile(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, want, again.Timetable)
}
