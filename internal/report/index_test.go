package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masar-farm/masar/internal/domain"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestLatestByFieldPicksNewest(t *testing.T) {
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	index := LatestByField([]domain.InspectionReport{
		{FieldID: 1, Report: "قديم", Rating: intPtr(4), CreatedAt: timePtr(base)},
		{FieldID: 1, Report: "أحدث", Rating: intPtr(2), CreatedAt: timePtr(base.Add(time.Hour))},
		{FieldID: 2, Report: "حقل آخر", CreatedAt: timePtr(base)},
	})

	require.Len(t, index, 2)
	assert.Equal(t, "أحدث", index[1].Report)
	require.NotNil(t, index[1].Rating)
	assert.Equal(t, 2, *index[1].Rating)
	assert.Equal(t, "حقل آخر", index[2].Report)
	assert.Nil(t, index[2].Rating)
}

func TestLatestByFieldTieKeepsFirstSeen(t *testing.T) {
	ts := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	index := LatestByField([]domain.InspectionReport{
		{FieldID: 1, Report: "الأول", CreatedAt: timePtr(ts)},
		{FieldID: 1, Report: "الثاني", CreatedAt: timePtr(ts)},
	})

	assert.Equal(t, "الأول", index[1].Report)
}

func TestLatestByFieldMissingTimestamps(t *testing.T) {
	ts := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	// Both untimestamped: first seen wins.
	index := LatestByField([]domain.InspectionReport{
		{FieldID: 1, Report: "الأول"},
		{FieldID: 1, Report: "الثاني"},
	})
	assert.Equal(t, "الأول", index[1].Report)

	// A timestamped record displaces an untimestamped incumbent.
	index = LatestByField([]domain.InspectionReport{
		{FieldID: 1, Report: "بلا تاريخ"},
		{FieldID: 1, Report: "مؤرخ", CreatedAt: timePtr(ts)},
	})
	assert.Equal(t, "مؤرخ", index[1].Report)

	// An untimestamped record never displaces a timestamped one.
	index = LatestByField([]domain.InspectionReport{
		{FieldID: 1, Report: "مؤرخ", CreatedAt: timePtr(ts)},
		{FieldID: 1, Report: "بلا تاريخ"},
	})
	assert.Equal(t, "مؤرخ", index[1].Report)
}

func TestLatestByFieldEmpty(t *testing.T) {
	assert.Empty(t, LatestByField(nil))
}
