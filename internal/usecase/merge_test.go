package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChannelFeed/internal/domain"
)

func record(id, title, date string) domain.CommunicationRecord {
	return domain.CommunicationRecord{
		ID:       id,
		Title:    title,
		Content:  title,
		Date:     date,
		Author:   "Telegram Channel",
		Category: domain.CategoryDidattica,
		Priority: domain.PriorityLow,
	}
}

func TestMergeExistingWins(t *testing.T) {
	t.Parallel()

	existing := []domain.CommunicationRecord{record("42", "Old", "2025-09-02T10:00:00.000Z")}
	fresh := []domain.CommunicationRecord{
		record("42", "New", "2025-09-02T10:00:00.000Z"),
		record("43", "Other", "2025-09-03T10:00:00.000Z"),
	}

	result := Merge(existing, fresh)

	require.Len(t, result.Records, 2)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, "43", result.Records[0].ID)
	assert.Equal(t, "42", result.Records[1].ID)
	assert.Equal(t, "Old", result.Records[1].Title)
}

func TestMergeEmptyBatchKeepsStore(t *testing.T) {
	t.Parallel()

	existing := []domain.CommunicationRecord{
		record("1", "a", "2025-09-01T10:00:00.000Z"),
		record("2", "b", "2025-09-05T10:00:00.000Z"),
		record("3", "c", "2025-09-03T10:00:00.000Z"),
	}

	result := Merge(existing, nil)

	assert.ElementsMatch(t, existing, result.Records)
	assert.Zero(t, result.Added)
}

func TestMergeIntoEmptyStoreYieldsBatch(t *testing.T) {
	t.Parallel()

	fresh := []domain.CommunicationRecord{
		record("1", "a", "2025-09-01T10:00:00.000Z"),
		record("2", "b", "2025-09-05T10:00:00.000Z"),
	}

	result := Merge(nil, fresh)

	assert.ElementsMatch(t, fresh, result.Records)
	assert.Equal(t, 2, result.Added)
}

func TestMergeSortsNewestFirstWithUnparseableDatesLast(t *testing.T) {
	t.Parallel()

	existing := []domain.CommunicationRecord{
		record("bad", "x", "yesterday"),
		record("old", "x", "2025-09-01T10:00:00.000Z"),
	}
	fresh := []domain.CommunicationRecord{
		record("new", "x", "2025-09-10T10:00:00.000Z"),
		record("same-b", "x", "2025-09-05T10:00:00.000Z"),
		record("same-a", "x", "2025-09-05T12:00:00+02:00"),
	}

	result := Merge(existing, fresh)

	ids := make([]string, 0, len(result.Records))
	for _, rec := range result.Records {
		ids = append(ids, rec.ID)
	}
	assert.Equal(t, []string{"new", "same-a", "same-b", "old", "bad"}, ids)
}

func TestMergeDuplicateFreshIDsCountOnce(t *testing.T) {
	t.Parallel()

	fresh := []domain.CommunicationRecord{
		record("7", "first", "2025-09-01T10:00:00.000Z"),
		record("7", "second", "2025-09-01T10:00:00.000Z"),
	}

	result := Merge(nil, fresh)

	require.Len(t, result.Records, 1)
	assert.Equal(t, 1, result.Added)
}
