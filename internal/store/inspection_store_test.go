package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masar-farm/masar/internal/domain"
)

func seedField(t *testing.T, farms *FarmStore, fields *FieldStore, userID string) *domain.Field {
	t.Helper()
	ctx := context.Background()

	farm, err := farms.Create(ctx, &domain.Farm{UserID: userID, Name: "مزرعة الوادي"})
	require.NoError(t, err)

	field, err := fields.Create(ctx, &domain.Field{
		FarmID:   farm.ID,
		UserID:   userID,
		Name:     "الحقل الشمالي",
		CropType: "خضروات",
	})
	require.NoError(t, err)
	return field
}

func TestInspectionStoreCreate(t *testing.T) {
	d := openTestDB(t)
	farms := NewFarmStore(d)
	fields := NewFieldStore(d)
	inspections := NewInspectionStore(d)
	ctx := context.Background()

	field := seedField(t, farms, fields, "user-1")

	rating := 4
	report, err := inspections.Create(ctx, field.ID, "user-1", "النبات سليم بشكل عام.", &rating)
	require.NoError(t, err)
	assert.NotZero(t, report.ID)
	assert.Equal(t, field.ID, report.FieldID)
	assert.Equal(t, "النبات سليم بشكل عام.", report.Report)
	require.NotNil(t, report.Rating)
	assert.Equal(t, 4, *report.Rating)
	assert.NotNil(t, report.CreatedAt)
}

func TestInspectionStoreCreateWithoutRating(t *testing.T) {
	d := openTestDB(t)
	farms := NewFarmStore(d)
	fields := NewFieldStore(d)
	inspections := NewInspectionStore(d)
	ctx := context.Background()

	field := seedField(t, farms, fields, "user-1")

	report, err := inspections.Create(ctx, field.ID, "user-1", "تقرير بدون تقييم", nil)
	require.NoError(t, err)
	assert.Nil(t, report.Rating)
}

func TestInspectionStoreListByUser(t *testing.T) {
	d := openTestDB(t)
	farms := NewFarmStore(d)
	fields := NewFieldStore(d)
	inspections := NewInspectionStore(d)
	ctx := context.Background()

	field := seedField(t, farms, fields, "user-1")
	otherField := seedField(t, farms, fields, "user-2")

	_, err := inspections.Create(ctx, field.ID, "user-1", "الأول", nil)
	require.NoError(t, err)
	_, err = inspections.Create(ctx, field.ID, "user-1", "الثاني", nil)
	require.NoError(t, err)
	_, err = inspections.Create(ctx, otherField.ID, "user-2", "لمستخدم آخر", nil)
	require.NoError(t, err)

	reports, err := inspections.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	// Stable iteration order: created_at then id.
	assert.Equal(t, "الأول", reports[0].Report)
	assert.Equal(t, "الثاني", reports[1].Report)
}

func TestInspectionStoreListByFieldID(t *testing.T) {
	d := openTestDB(t)
	farms := NewFarmStore(d)
	fields := NewFieldStore(d)
	inspections := NewInspectionStore(d)
	ctx := context.Background()

	field := seedField(t, farms, fields, "user-1")

	_, err := inspections.Create(ctx, field.ID, "user-1", "تقرير", nil)
	require.NoError(t, err)

	reports, err := inspections.ListByFieldID(ctx, field.ID)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestInspectionsDeletedWithField(t *testing.T) {
	d := openTestDB(t)
	farms := NewFarmStore(d)
	fields := NewFieldStore(d)
	inspections := NewInspectionStore(d)
	ctx := context.Background()

	field := seedField(t, farms, fields, "user-1")
	_, err := inspections.Create(ctx, field.ID, "user-1", "سيُحذف مع الحقل", nil)
	require.NoError(t, err)

	require.NoError(t, fields.Delete(ctx, field.ID))

	reports, err := inspections.ListByFieldID(ctx, field.ID)
	require.NoError(t, err)
	assert.Empty(t, reports)
}
