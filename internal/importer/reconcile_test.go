package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/storage"
	"github.com/wurt83ow/worktravel/internal/workday"
	"go.uber.org/zap"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) PutWorkdays(ctx context.Context, wds []models.Workday) error {
	args := m.Called(ctx, wds)
	return args.Error(0)
}

func testCities() workday.Cities {
	return workday.NewCities([]models.City{
		{Name: "Verona", DistanceKm: 0, TravelTimeMinutes: 0, DefaultArrivalTime: "10:00"},
		{Name: "Modena", DistanceKm: 103, TravelTimeMinutes: 70, DefaultArrivalTime: "10:00"},
		{Name: "Parma", DistanceKm: 125, TravelTimeMinutes: 90, DefaultArrivalTime: "10:00"},
	})
}

func newBatch(rows []models.ImportRow, existing ...string) Batch {
	dates := make(map[string]struct{})
	for _, d := range existing {
		dates[d] = struct{}{}
	}

	return Batch{
		Rows:          rows,
		UserID:        "u1",
		ExistingDates: dates,
		Cities:        testCities(),
		Settings:      models.DefaultSettings(),
	}
}

func TestImportBatch_Mixed(t *testing.T) {
	rows := []models.ImportRow{
		{Line: 1, Date: "01/07/2025", City: "MODENA"},
		{Line: 2, Date: "02/07/2025", City: "FERIE"},
		{Line: 3, Date: "2025-07-03", Status: "Malattia"},
		{Line: 4, Date: "04/07/2025", City: "Atlantide"},
		{Line: 5, Date: "05/07/2025", City: "Parma"},
		{Line: 6, Date: "", City: "Parma"},
		{Line: 7, Date: "31/02/2025", City: "Parma"},
		{Line: 8, Date: "08/07/2025"},
	}

	w := new(mockWriter)
	w.On("PutWorkdays", mock.Anything, mock.MatchedBy(func(wds []models.Workday) bool {
		return len(wds) == 3
	})).Return(nil).Once()

	r := NewReconciler(w, 3, zap.NewNop())
	res, err := r.ImportBatch(context.Background(), newBatch(rows, "2025-07-05"))
	require.NoError(t, err)

	assert.Equal(t, 8, res.RowsRead)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, 3, res.Skipped)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "Riga 4: city Atlantide not found", res.Errors[0])
	assert.Contains(t, res.Errors[1], "Riga 7:")

	w.AssertExpectations(t)

	saved := w.Calls[0].Arguments.Get(1).([]models.Workday)
	assert.Equal(t, "2025-07-01", saved[0].Date)
	assert.Equal(t, "Modena", *saved[0].City)
	assert.Equal(t, 206.0, saved[0].TotalKm)
	assert.Equal(t, "u1", saved[0].UserID)
	assert.NotEmpty(t, saved[0].ID)

	assert.Equal(t, "Ferie", *saved[1].Status)
	assert.Nil(t, saved[1].City)
	assert.Zero(t, saved[1].TotalKm)

	assert.Equal(t, "Malattia", *saved[2].Status)
}

func TestImportBatch_DuplicateWithinFile(t *testing.T) {
	rows := []models.ImportRow{
		{Line: 1, Date: "01/07/2025", City: "Modena"},
		{Line: 2, Date: "2025-07-01", City: "Parma"},
	}

	w := new(mockWriter)
	w.On("PutWorkdays", mock.Anything, mock.Anything).Return(nil)

	res, err := NewReconciler(w, 2, zap.NewNop()).ImportBatch(context.Background(), newBatch(rows))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, res.Errors)

	saved := w.Calls[0].Arguments.Get(1).([]models.Workday)
	assert.Equal(t, "Modena", *saved[0].City)
}

func TestImportBatch_ErrorCap(t *testing.T) {
	var rows []models.ImportRow
	for i := 1; i <= 15; i++ {
		rows = append(rows, models.ImportRow{Line: i, Date: fmt.Sprintf("%02d/07/2025", i), City: "Nowhere"})
	}

	w := new(mockWriter)
	res, err := NewReconciler(w, 4, zap.NewNop()).ImportBatch(context.Background(), newBatch(rows))
	require.NoError(t, err)

	assert.Zero(t, res.Imported)
	assert.Len(t, res.Errors, MaxReportedErrors)
	assert.Equal(t, "Riga 1: city Nowhere not found", res.Errors[0])
	w.AssertNotCalled(t, "PutWorkdays", mock.Anything, mock.Anything)
}

func TestImportBatch_BatchInsertFailure(t *testing.T) {
	rows := []models.ImportRow{{Line: 1, Date: "01/07/2025", City: "Verona"}}

	w := new(mockWriter)
	w.On("PutWorkdays", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	res, err := NewReconciler(w, 1, zap.NewNop()).ImportBatch(context.Background(), newBatch(rows))
	require.NoError(t, err)

	assert.Zero(t, res.Imported)
	assert.Equal(t, []string{"Errore batch insert: connection reset"}, res.Errors)
}

func TestImportBatch_PartialBatchInsert(t *testing.T) {
	rows := []models.ImportRow{
		{Line: 1, Date: "01/07/2025", City: "Verona"},
		{Line: 2, Date: "02/07/2025", City: "Modena"},
		{Line: 3, Date: "03/07/2025", City: "Parma"},
	}

	w := new(mockWriter)
	w.On("PutWorkdays", mock.Anything, mock.Anything).
		Return(&storage.PartialWriteError{Written: 2, Err: errors.New("duplicate key")})

	res, err := NewReconciler(w, 2, zap.NewNop()).ImportBatch(context.Background(), newBatch(rows))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Errore batch insert:")
}

func TestEvaluate_StatusDecoration(t *testing.T) {
	rows := []models.ImportRow{
		{Line: 1, Date: "01/07/2025", Status: "--Festivo--"},
		{Line: 2, Date: "02/07/2025", Status: "Permesso-ROL"},
		{Line: 3, Date: "03/07/2025", Status: " - Ferie - "},
	}

	out := NewReconciler(nil, 2, zap.NewNop()).Evaluate(newBatch(rows))
	require.Len(t, out, 3)

	for i, want := range []string{"Festivo", "Permesso-ROL", "Ferie"} {
		assert.Equal(t, RestDay, out[i].State)
		assert.Equal(t, want, *out[i].Workday.Status)
	}
}

func TestEvaluate_ObservedTimes(t *testing.T) {
	rows := []models.ImportRow{{
		Line:           1,
		Date:           "01/07/2025",
		City:           "Modena",
		ArrivalAtStore: "10:00",
		ExitFromStore:  "18:30",
		ReturnHome:     "n/a",
	}}

	out := NewReconciler(nil, 1, zap.NewNop()).Evaluate(newBatch(rows))
	require.Len(t, out, 1)
	assert.Equal(t, WorkDay, out[0].State)

	wd := out[0].Workday
	assert.Empty(t, wd.ActualArrivalAtStore)
	assert.Equal(t, "18:30", wd.ActualExitFromStore)
	assert.Empty(t, wd.ActualReturnHome)
}

func TestMatchKeyword(t *testing.T) {
	kw, ok := MatchKeyword("  festivo ")
	assert.True(t, ok)
	assert.Equal(t, "Festivo", kw)

	_, ok = MatchKeyword("Mantova")
	assert.False(t, ok)
}

func TestRowState_String(t *testing.T) {
	assert.Equal(t, "skipped (duplicate)", SkippedDuplicate.String())
	assert.Equal(t, "pending", Pending.String())
}
