// Package repositorytest holds the behaviour every repository.Store driver
// must satisfy, shared by the driver test suites.
package repositorytest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/buffalo/internal/domain/models"
	"github.com/mamadbah2/buffalo/internal/repository"
)

// Record returns a fully populated record for the given id.
func Record(id string) models.BuffaloRecord {
	return models.BuffaloRecord{
		ID:            id,
		Name:          "Buffalo " + id,
		Price:         10000,
		Year:          2024,
		LabourExpense: 2000,
		OtherExpenses: []models.Expense{
			{Reason: "transport", Amount: 500},
			{Reason: "fodder", Amount: 300},
		},
		Shareholders: []models.Shareholder{
			{Name: "Asif", AmountReceived: 4000},
			{Name: "Bilal", AmountReceived: 4500},
		},
		RegistrationDate: time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC),
	}
}

// RunStoreContract exercises get/set/update/delete/list on a fresh store.
func RunStoreContract(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Get(ctx, "1000000000")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("set then get round-trips the record", func(t *testing.T) {
		store := newStore(t)
		want := Record("1234567890")

		require.NoError(t, store.Set(ctx, want))

		got, err := store.Get(ctx, want.ID)
		require.NoError(t, err)
		AssertSameRecord(t, want, got)
	})

	t.Run("set overwrites an existing record", func(t *testing.T) {
		store := newStore(t)
		first := Record("1234567890")
		require.NoError(t, store.Set(ctx, first))

		second := Record("1234567890")
		second.Name = "replaced"
		second.Shareholders = nil
		require.NoError(t, store.Set(ctx, second))

		got, err := store.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "replaced", got.Name)
		assert.Empty(t, got.Shareholders)
	})

	t.Run("update merges top-level fields and replaces lists", func(t *testing.T) {
		store := newStore(t)
		record := Record("1234567890")
		require.NoError(t, store.Set(ctx, record))

		holders := []models.Shareholder{{Name: "Chand", AmountReceived: 100, AdditionalAmountAdded: 100}}
		weight := models.NewWeightData(70, 20, "2024-06-17", time.Date(2024, 6, 17, 9, 0, 0, 0, time.UTC))
		require.NoError(t, store.Update(ctx, record.ID, models.BuffaloPatch{
			Shareholders: &holders,
			WeightData:   &weight,
		}))

		got, err := store.Get(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, record.Name, got.Name)
		assert.Equal(t, record.OtherExpenses, got.OtherExpenses)
		assert.Equal(t, holders, got.Shareholders)
		require.NotNil(t, got.WeightData)
		assert.Equal(t, models.Number(90), got.WeightData.TotalWeight)
		assert.True(t, weight.LastUpdated.Equal(got.WeightData.LastUpdated))
	})

	t.Run("update missing returns ErrNotFound", func(t *testing.T) {
		store := newStore(t)
		name := "ghost"

		err := store.Update(ctx, "1000000000", models.BuffaloPatch{Name: &name})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		err = store.Update(ctx, "1000000000", models.BuffaloPatch{})
		assert.ErrorIs(t, err, repository.ErrNotFound, "an empty patch still checks the id")
	})

	t.Run("delete removes the record from get and list", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, Record("1111111111")))
		require.NoError(t, store.Set(ctx, Record("2222222222")))

		require.NoError(t, store.Delete(ctx, "1111111111"))

		_, err := store.Get(ctx, "1111111111")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		all, err := store.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "2222222222", all[0].ID)

		assert.ErrorIs(t, store.Delete(ctx, "1111111111"), repository.ErrNotFound)
	})

	t.Run("list returns records and ids ordered by id", func(t *testing.T) {
		store := newStore(t)
		for _, id := range []string{"3333333333", "1111111111", "2222222222"} {
			require.NoError(t, store.Set(ctx, Record(id)))
		}

		all, err := store.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "1111111111", all[0].ID)
		assert.Equal(t, "3333333333", all[2].ID)

		ids, err := store.ListIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"1111111111", "2222222222", "3333333333"}, ids)
	})

	t.Run("returned records do not alias stored state", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, Record("1234567890")))

		got, err := store.Get(ctx, "1234567890")
		require.NoError(t, err)
		got.OtherExpenses[0].Reason = "mutated"

		again, err := store.Get(ctx, "1234567890")
		require.NoError(t, err)
		assert.Equal(t, "transport", again.OtherExpenses[0].Reason)
	})
}

// AssertSameRecord compares two records, using time.Equal for timestamps.
func AssertSameRecord(t *testing.T, want, got models.BuffaloRecord) {
	t.Helper()
	assert.True(t, want.RegistrationDate.Equal(got.RegistrationDate), "registration date")
	want.RegistrationDate, got.RegistrationDate = time.Time{}, time.Time{}
	if want.WeightData != nil && got.WeightData != nil {
		assert.True(t, want.WeightData.LastUpdated.Equal(got.WeightData.LastUpdated), "weight last updated")
		w, g := *want.WeightData, *got.WeightData
		w.LastUpdated, g.LastUpdated = time.Time{}, time.Time{}
		want.WeightData, got.WeightData = &w, &g
	}
	assert.Equal(t, want, got)
}
