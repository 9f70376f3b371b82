package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stocktrack/inventory-api/internal/core/domain"
)

const materialCollection = "materials"

type MaterialRepository struct {
	coll *mongo.Collection
}

func NewMaterialRepository(db *mongo.Database) *MaterialRepository {
	return &MaterialRepository{coll: db.Collection(materialCollection)}
}

// EnsureIndexes creates the unique SKU index.
func (r *MaterialRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sku", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create sku index: %w", err)
	}
	return nil
}

type materialDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	SKU       string             `bson:"sku"`
	Name      string             `bson:"name"`
	Category  string             `bson:"category,omitempty"`
	Quantity  int                `bson:"quantity"`
	Unit      string             `bson:"unit,omitempty"`
	Location  string             `bson:"location,omitempty"`
	CreatedBy string             `bson:"created_by,omitempty"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (d materialDoc) toDomain() *domain.Material {
	return &domain.Material{
		ID:        d.ID.Hex(),
		SKU:       d.SKU,
		Name:      d.Name,
		Category:  d.Category,
		Quantity:  d.Quantity,
		Unit:      d.Unit,
		Location:  d.Location,
		CreatedBy: d.CreatedBy,
		CreatedAt: unixToTime(d.CreatedAt),
		UpdatedAt: unixToTime(d.UpdatedAt),
	}
}

func (r *MaterialRepository) Insert(ctx context.Context, m *domain.Material) (*domain.Material, error) {
	doc := materialDoc{
		SKU:       m.SKU,
		Name:      m.Name,
		Category:  m.Category,
		Quantity:  m.Quantity,
		Unit:      m.Unit,
		Location:  m.Location,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt.Unix(),
		UpdatedAt: m.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateSKU
		}
		return nil, fmt.Errorf("insert material: %w", err)
	}

	created := *m
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*domain.Material, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrMaterialNotFound
	}

	var doc materialDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("find material: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MaterialRepository) List(ctx context.Context) ([]domain.Material, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Material
	for cur.Next(ctx) {
		var doc materialDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode material: %w", err)
		}
		out = append(out, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return out, nil
}

func (r *MaterialRepository) Update(ctx context.Context, m *domain.Material) (*domain.Material, error) {
	oid, err := primitive.ObjectIDFromHex(m.ID)
	if err != nil {
		return nil, domain.ErrMaterialNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"sku":        m.SKU,
		"name":       m.Name,
		"category":   m.Category,
		"quantity":   m.Quantity,
		"unit":       m.Unit,
		"location":   m.Location,
		"updated_at": time.Now().UTC().Unix(),
	}})
	if err != nil {
		return nil, fmt.Errorf("update material: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrMaterialNotFound
	}
	return m, nil
}

func (r *MaterialRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrMaterialNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMaterialNotFound
	}
	return nil
}
