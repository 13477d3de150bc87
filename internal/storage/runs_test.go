package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/hotel-itemizer/internal/common"
	"github.com/Veraticus/hotel-itemizer/internal/model"
)

func testRun(invoiceNumber string, createdAt time.Time) *model.Run {
	return &model.Run{
		InvoiceNumber: invoiceNumber,
		HotelName:     "Grand Hotel",
		CheckIn:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Currency:      "USD",
		TotalOriginal: decimal.RequireFromString("301.00"),
		TotalItemized: decimal.RequireFromString("301.00"),
		Nights:        3,
		Stage:         "finalized",
		Passed:        true,
		Outcome:       json.RawMessage(`{"stage":"finalized"}`),
		CreatedAt:     createdAt,
	}
}

func TestSaveRun_AssignsIDAndRoundTrips(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	run := testRun("INV-1", time.Time{})
	run.Errors = []string{"first", "second"}
	require.NoError(t, store.SaveRun(ctx, run))

	_, err := uuid.Parse(run.ID)
	require.NoError(t, err, "SaveRun should assign a UUID")
	assert.False(t, run.CreatedAt.IsZero())

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "INV-1", got.InvoiceNumber)
	assert.Equal(t, "Grand Hotel", got.HotelName)
	assert.True(t, got.CheckIn.Equal(run.CheckIn))
	assert.True(t, got.CheckOut.Equal(run.CheckOut))
	assert.Equal(t, "301.00", got.TotalOriginal.StringFixed(2))
	assert.True(t, got.TotalItemized.Equal(run.TotalItemized))
	assert.Equal(t, 3, got.Nights)
	assert.Equal(t, "finalized", got.Stage)
	assert.True(t, got.Passed)
	assert.Equal(t, []string{"first", "second"}, got.Errors)
	assert.JSONEq(t, `{"stage":"finalized"}`, string(got.Outcome))
	assert.True(t, got.CreatedAt.Equal(run.CreatedAt.UTC()))
	assert.Nil(t, got.SubmittedAt)
	assert.Nil(t, got.Submission)
}

func TestSaveRun_KeepsExactAmounts(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	run := testRun("INV-2", time.Time{})
	run.TotalItemized = decimal.RequireFromString("100.333333333333333333")
	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.333333333333333333", got.TotalItemized.String())
}

func TestSaveRun_ReplacesExisting(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	run := testRun("INV-3", time.Time{})
	require.NoError(t, store.SaveRun(ctx, run))

	run.Passed = false
	run.Stage = "validated"
	require.NoError(t, store.SaveRun(ctx, run))

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].Passed)
	assert.Equal(t, "validated", runs[0].Stage)
}

func TestSaveRun_RejectsInvalid(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	run := testRun("INV-4", time.Time{})
	run.HotelName = ""
	assert.ErrorIs(t, store.SaveRun(context.Background(), run), ErrInvalidRun)
	assert.ErrorIs(t, store.SaveRun(context.Background(), nil), ErrNilParameter)
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, number := range []string{"A", "B", "C"} {
		require.NoError(t, store.SaveRun(ctx, testRun(number, base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "C", runs[0].InvoiceNumber)
	assert.Equal(t, "B", runs[1].InvoiceNumber)
	assert.Equal(t, "A", runs[2].InvoiceNumber)

	limited, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGetRunsByInvoiceNumber(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveRun(ctx, testRun("INV-9", base)))
	require.NoError(t, store.SaveRun(ctx, testRun("INV-9", base.Add(time.Hour))))
	require.NoError(t, store.SaveRun(ctx, testRun("INV-10", base)))

	runs, err := store.GetRunsByInvoiceNumber(ctx, "INV-9")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].CreatedAt.After(runs[1].CreatedAt))

	none, err := store.GetRunsByInvoiceNumber(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = store.GetRunsByInvoiceNumber(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestRecordSubmission(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	run := testRun("INV-11", time.Time{})
	require.NoError(t, store.SaveRun(ctx, run))

	report := model.SubmissionReport{
		Driver: "log",
		Results: []model.EntrySubmission{
			{Index: 0, Subcategory: model.CategoryDailyRoomRate, Attempts: 1, Success: true},
		},
		Submitted: 1,
	}
	require.NoError(t, store.RecordSubmission(ctx, run.ID, report))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SubmittedAt)
	require.NotNil(t, got.Submission)
	assert.Equal(t, report, *got.Submission)

	err = store.RecordSubmission(ctx, "does-not-exist", report)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteRun(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	run := testRun("INV-12", time.Time{})
	require.NoError(t, store.SaveRun(ctx, run))
	require.NoError(t, store.DeleteRun(ctx, run.ID))

	_, err := store.GetRun(ctx, run.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, store.DeleteRun(ctx, run.ID), common.ErrNotFound)
}
