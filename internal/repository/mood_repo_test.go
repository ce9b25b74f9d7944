package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/testutil"
)

func TestMoodUpsert_OverwritesSameDate(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "alice")
	repo := NewMoodRepository(db)
	ctx := context.Background()
	date := mustDate(t, "2024-03-01")

	first, created, err := repo.Upsert(ctx, owner.ID, &domain.Mood{Date: date, Mood: domain.MoodNeutral, Highlights: "work", Description: "ok"})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.Upsert(ctx, owner.ID, &domain.Mood{Date: date, Mood: domain.MoodHappy, Highlights: "beach", Description: "great"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, "great", second.Description)
	assert.Equal(t, domain.MoodHappy, second.Mood)
	assert.Equal(t, "work", second.Highlights)

	var count int64
	require.NoError(t, db.Model(&domain.Mood{}).Where("owner_id = ?", owner.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMoodUpsert_CodeCollisionLeavesOtherOwnerAlone(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	repo := NewMoodRepository(db)
	ctx := context.Background()
	date := mustDate(t, "2024-03-01")

	stubCodes(t, "aaaaaaaa", "aaaaaaaa", "bbbbbbbb")
	_, created, err := repo.Upsert(ctx, alice.ID, &domain.Mood{Date: date, Mood: domain.MoodSad, Highlights: "-", Description: "alice"})
	require.NoError(t, err)
	require.True(t, created)

	stored, created, err := repo.Upsert(ctx, bob.ID, &domain.Mood{Date: date, Mood: domain.MoodGood, Highlights: "-", Description: "bob"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "bbbbbbbb", stored.Code)
	assert.Equal(t, bob.ID, stored.OwnerID)

	mood, err := repo.FindByDate(ctx, alice.ID, date)
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaa", mood.Code)
	assert.Equal(t, "alice", mood.Description)
	assert.Equal(t, domain.MoodSad, mood.Mood)
}

func TestMoodUpsert_GivesUpWhenEveryCodeIsTaken(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	repo := NewMoodRepository(db)
	ctx := context.Background()

	stubCodes(t, "aaaaaaaa")
	_, _, err := repo.Upsert(ctx, alice.ID, &domain.Mood{Date: mustDate(t, "2024-03-01"), Mood: domain.MoodSad, Highlights: "-", Description: "a"})
	require.NoError(t, err)

	_, _, err = repo.Upsert(ctx, bob.ID, &domain.Mood{Date: mustDate(t, "2024-03-01"), Mood: domain.MoodGood, Highlights: "-", Description: "b"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestMoodUpsert_DatesAreIndependentPerOwner(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	repo := NewMoodRepository(db)
	ctx := context.Background()
	date := mustDate(t, "2024-03-01")

	_, created, err := repo.Upsert(ctx, alice.ID, &domain.Mood{Date: date, Mood: domain.MoodSad, Highlights: "-", Description: "a"})
	require.NoError(t, err)
	assert.True(t, created)
	_, created, err = repo.Upsert(ctx, bob.ID, &domain.Mood{Date: date, Mood: domain.MoodGood, Highlights: "-", Description: "b"})
	require.NoError(t, err)
	assert.True(t, created)

	mood, err := repo.FindByDate(ctx, alice.ID, date)
	require.NoError(t, err)
	assert.Equal(t, "a", mood.Description)

	_, err = repo.FindByDate(ctx, alice.ID, mustDate(t, "2024-03-02"))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMoodUpsert_ConcurrentSavesConverge(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "alice")
	repo := NewMoodRepository(db)
	date := mustDate(t, "2024-03-01")

	const writers = 8
	var wg sync.WaitGroup
	createdCount := make(chan bool, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := repo.Upsert(context.Background(), owner.ID, &domain.Mood{Date: date, Mood: domain.MoodGood, Highlights: "-", Description: "same day"})
			assert.NoError(t, err)
			createdCount <- created
		}()
	}
	wg.Wait()
	close(createdCount)

	inserts := 0
	for created := range createdCount {
		if created {
			inserts++
		}
	}
	assert.Equal(t, 1, inserts)

	var count int64
	require.NoError(t, db.Model(&domain.Mood{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
