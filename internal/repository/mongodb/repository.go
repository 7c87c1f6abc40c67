package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/buffalo/internal/domain/models"
	"github.com/mamadbah2/buffalo/internal/repository"
)

// MongoDBRepository implements repository.Store on a MongoDB collection.
// Documents are keyed by the buffalo id in _id.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

var _ repository.Store = (*MongoDBRepository)(nil)

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri, dbName, collName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	if collName == "" {
		collName = repository.CollectionName
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: collName,
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// Get loads a single buffalo by id.
func (r *MongoDBRepository) Get(ctx context.Context, id string) (models.BuffaloRecord, error) {
	var record models.BuffaloRecord
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.BuffaloRecord{}, repository.ErrNotFound
	}
	if err != nil {
		return models.BuffaloRecord{}, fmt.Errorf("failed to find buffalo %s: %w", id, err)
	}
	return record, nil
}

// Set upserts the whole document.
func (r *MongoDBRepository) Set(ctx context.Context, record models.BuffaloRecord) error {
	if record.ID == "" {
		return errors.New("buffalo id must not be empty")
	}
	_, err := r.collection().ReplaceOne(ctx, bson.M{"_id": record.ID}, record, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save buffalo %s: %w", record.ID, err)
	}
	return nil
}

// Update applies the patch with $set on the top-level fields only.
func (r *MongoDBRepository) Update(ctx context.Context, id string, patch models.BuffaloPatch) error {
	set := patchDocument(patch)
	if len(set) == 0 {
		n, err := r.collection().CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("failed to find buffalo %s: %w", id, err)
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return nil
	}

	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update buffalo %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the document permanently.
func (r *MongoDBRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete buffalo %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListAll scans the full collection ordered by id.
func (r *MongoDBRepository) ListAll(ctx context.Context) ([]models.BuffaloRecord, error) {
	cursor, err := r.collection().Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list buffalos: %w", err)
	}

	records := []models.BuffaloRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode buffalos: %w", err)
	}
	return records, nil
}

// ListIDs returns every id in use.
func (r *MongoDBRepository) ListIDs(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list buffalo ids: %w", err)
	}

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode buffalo ids: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func patchDocument(patch models.BuffaloPatch) bson.M {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Year != nil {
		set["year"] = *patch.Year
	}
	if patch.LabourExpense != nil {
		set["labourExpense"] = *patch.LabourExpense
	}
	if patch.OtherExpenses != nil {
		set["otherExpenses"] = append([]models.Expense{}, (*patch.OtherExpenses)...)
	}
	if patch.Shareholders != nil {
		set["shareholders"] = append([]models.Shareholder{}, (*patch.Shareholders)...)
	}
	if patch.WeightData != nil {
		set["weightData"] = *patch.WeightData
	}
	return set
}
