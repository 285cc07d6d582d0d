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

// CafeRepository handles persistence for café aggregates. Staff and
// menu live embedded in the café document; roster mutations go through
// the dedicated staff methods so username uniqueness holds.
type CafeRepository interface {
	Create(ctx context.Context, cafe *domain.Cafe) error
	Update(ctx context.Context, cafe *domain.Cafe) error
	GetBySlug(ctx context.Context, slug string) (*domain.Cafe, error)
	List(ctx context.Context, limit, offset int) ([]domain.Cafe, error)
	AddStaff(ctx context.Context, slug string, member domain.StaffMember) error
	UpdateStaffRole(ctx context.Context, slug, username string, role domain.StaffRole) error
	RemoveStaff(ctx context.Context, slug, username string) error
	SearchText(ctx context.Context, query string, limit int) ([]domain.Cafe, error)
}

type cafeRepository struct {
	collection *mongo.Collection
}

// NewCafeRepository instantiates the repository.
func NewCafeRepository(db *persistence.Mongo) CafeRepository {
	return &cafeRepository{collection: db.Collection("cafes")}
}

func (r *cafeRepository) Create(ctx context.Context, cafe *domain.Cafe) error {
	now := time.Now()
	cafe.CreatedAt = now
	cafe.UpdatedAt = now
	if cafe.ID == "" {
		cafe.ID = primitive.NewObjectID().Hex()
	}
	if cafe.Staff == nil {
		cafe.Staff = []domain.StaffMember{}
	}
	if cafe.Menu == nil {
		cafe.Menu = []domain.MenuItem{}
	}

	_, err := r.collection.InsertOne(ctx, cafe)
	return err
}

func (r *cafeRepository) Update(ctx context.Context, cafe *domain.Cafe) error {
	cafe.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"slug": cafe.Slug}, cafe)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *cafeRepository) GetBySlug(ctx context.Context, slug string) (*domain.Cafe, error) {
	var cafe domain.Cafe
	if err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&cafe); err != nil {
		return nil, err
	}
	return &cafe, nil
}

func (r *cafeRepository) List(ctx context.Context, limit, offset int) ([]domain.Cafe, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cafes []domain.Cafe
	if err := cursor.All(ctx, &cafes); err != nil {
		return nil, err
	}
	return cafes, nil
}

func (r *cafeRepository) AddStaff(ctx context.Context, slug string, member domain.StaffMember) error {
	// Filter excludes rosters already holding the username, keeping
	// the one-entry-per-identity invariant at the storage level.
	filter := bson.M{
		"slug":           slug,
		"staff.username": bson.M{"$ne": member.Username},
	}
	update := bson.M{
		"$push": bson.M{"staff": member},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *cafeRepository) UpdateStaffRole(ctx context.Context, slug, username string, role domain.StaffRole) error {
	filter := bson.M{"slug": slug, "staff.username": username}
	update := bson.M{
		"$set": bson.M{
			"staff.$.role": role,
			"updated_at":   time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *cafeRepository) RemoveStaff(ctx context.Context, slug, username string) error {
	filter := bson.M{"slug": slug}
	update := bson.M{
		"$pull": bson.M{"staff": bson.M{"username": username}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *cafeRepository) SearchText(ctx context.Context, query string, limit int) ([]domain.Cafe, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"$text": bson.M{"$search": query}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cafes []domain.Cafe
	if err := cursor.All(ctx, &cafes); err != nil {
		return nil, err
	}
	return cafes, nil
}
