package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/persistence"
)

// EventRepository handles persistence for café events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, cafeSlug *string, upcomingAfter *time.Time, limit int) ([]domain.Event, error)
}

type eventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository instantiates the repository.
func NewEventRepository(db *persistence.Mongo) EventRepository {
	return &eventRepository{collection: db.Collection("events")}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.ID == "" {
		event.ID = primitive.NewObjectID().Hex()
	}
	if event.Interactions == nil {
		event.Interactions = make(map[domain.InteractionKind][]string)
	}

	_, err := r.collection.InsertOne(ctx, event)
	return err
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	event.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var event domain.Event
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, cafeSlug *string, upcomingAfter *time.Time, limit int) ([]domain.Event, error) {
	query := bson.M{}
	if cafeSlug != nil {
		query["cafe_slug"] = *cafeSlug
	}
	if upcomingAfter != nil {
		query["ends_at"] = bson.M{"$gte": *upcomingAfter}
	}

	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "starts_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []domain.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
