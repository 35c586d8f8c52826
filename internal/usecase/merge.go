package usecase

import (
	"sort"

	"ChannelFeed/internal/domain"
)

// Merge unions fresh records into the stored feed keyed by id. Stored records
// win over fresh ones with the same id, so upstream edits to an already
// scraped message are not picked up. The result is sorted newest first.
func Merge(existing, fresh []domain.CommunicationRecord) domain.MergeResult {
	byID := make(map[string]domain.CommunicationRecord, len(existing)+len(fresh))
	for _, rec := range fresh {
		byID[rec.ID] = rec
	}

	stored := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		byID[rec.ID] = rec
		stored[rec.ID] = struct{}{}
	}

	merged := make([]domain.CommunicationRecord, 0, len(byID))
	for _, rec := range byID {
		merged = append(merged, rec)
	}
	SortNewestFirst(merged)

	return domain.MergeResult{Records: merged, Added: len(byID) - len(stored)}
}

// SortNewestFirst orders records by date descending, breaking ties by id.
func SortNewestFirst(records []domain.CommunicationRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, tj := records[i].Time(), records[j].Time()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return records[i].ID < records[j].ID
	})
}
