package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/mamadbah2/buffalo/internal/domain/models"
	"github.com/mamadbah2/buffalo/internal/repository"
)

func TestPatchDocument(t *testing.T) {
	t.Run("empty patch sets nothing", func(t *testing.T) {
		assert.Empty(t, patchDocument(models.BuffaloPatch{}))
	})

	t.Run("only provided fields are set", func(t *testing.T) {
		name := "Kala"
		price := models.Number(9000)
		weight := models.NewWeightData(50, 10, "2024-06-17", time.Now())

		set := patchDocument(models.BuffaloPatch{Name: &name, Price: &price, WeightData: &weight})

		require.Len(t, set, 3)
		assert.Equal(t, "Kala", set["name"])
		assert.Equal(t, models.Number(9000), set["price"])
		assert.Equal(t, models.Number(60), set["weightData"].(models.WeightData).TotalWeight)
	})

	t.Run("empty lists replace the stored list", func(t *testing.T) {
		var none []models.Shareholder

		set := patchDocument(models.BuffaloPatch{Shareholders: &none})

		holders, ok := set["shareholders"].([]models.Shareholder)
		require.True(t, ok)
		assert.NotNil(t, holders)
		assert.Empty(t, holders)
	})
}

func mockRepository(mt *mtest.T) *MongoDBRepository {
	return &MongoDBRepository{
		client:   mt.Client,
		dbName:   mt.DB.Name(),
		collName: mt.Coll.Name(),
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := func(mt *mtest.T) string { return mt.DB.Name() + "." + mt.Coll.Name() }

	mt.Run("empty patch on missing id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		err := mockRepository(mt).Update(context.Background(), "1234567890", models.BuffaloPatch{})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("empty patch on existing id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}))

		err := mockRepository(mt).Update(context.Background(), "1234567890", models.BuffaloPatch{})
		assert.NoError(mt, err)
	})

	mt.Run("patch on missing id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: int32(0)},
			bson.E{Key: "nModified", Value: int32(0)},
		))
		name := "Kala"

		err := mockRepository(mt).Update(context.Background(), "1234567890", models.BuffaloPatch{Name: &name})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}
