package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/robaa12/user-service/internal/domain"
)

const themeCollection = "themes"

// ThemeRepository implements domain.ThemeRepository on a MongoDB collection.
type ThemeRepository struct {
	coll *mongo.Collection
}

var _ domain.ThemeRepository = (*ThemeRepository)(nil)

// NewThemeRepository creates a theme repository over the given database.
func NewThemeRepository(db *mongo.Database) *ThemeRepository {
	return &ThemeRepository{coll: db.Collection(themeCollection)}
}

// EnsureIndexes creates the indexes the repository queries rely on:
// lookup by store, uniqueness of the theme key within a store, and the
// active-theme lookup.
func (r *ThemeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "store_id", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "store_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "store_id", Value: 1}, {Key: "active", Value: 1}},
		},
	})
	return err
}

// themeDoc is the persisted shape of a theme.
type themeDoc struct {
	ID        bson.ObjectID      `bson:"_id,omitempty"`
	StoreID   int64              `bson:"store_id"`
	Name      string             `bson:"name"`
	Img       string             `bson:"img"`
	LocalPath string             `bson:"local_path"`
	Active    bool               `bson:"active"`
	Pages     []domain.ThemePage `bson:"pages"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *themeDoc) toDomain() *domain.Theme {
	return &domain.Theme{
		ID:        d.ID.Hex(),
		StoreID:   d.StoreID,
		Name:      d.Name,
		Img:       d.Img,
		LocalPath: d.LocalPath,
		IsActive:  d.Active,
		Pages:     d.Pages,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// UpsertTheme writes the theme keyed by (store_id, name). Activation and
// the deactivation of the store's other themes run inside one transaction
// so no reader ever sees two active themes on a store.
func (r *ThemeRepository) UpsertTheme(ctx context.Context, params domain.UpsertThemeParams) (*domain.Theme, error) {
	session, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return nil, domain.Internal(err, "theme.upsert", "failed to start session")
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		now := time.Now().UTC()

		if params.MakeActive {
			_, err := r.coll.UpdateMany(ctx,
				bson.D{
					{Key: "store_id", Value: params.StoreID},
					{Key: "name", Value: bson.D{{Key: "$ne", Value: params.Name}}},
					{Key: "active", Value: true},
				},
				bson.D{{Key: "$set", Value: bson.D{
					{Key: "active", Value: false},
					{Key: "updated_at", Value: now},
				}}},
			)
			if err != nil {
				return nil, err
			}
		}

		filter := bson.D{
			{Key: "store_id", Value: params.StoreID},
			{Key: "name", Value: params.Name},
		}
		update := bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "img", Value: params.Img},
				{Key: "local_path", Value: params.LocalPath},
				{Key: "pages", Value: params.Pages},
				{Key: "active", Value: params.MakeActive},
				{Key: "updated_at", Value: now},
			}},
			{Key: "$setOnInsert", Value: bson.D{
				{Key: "created_at", Value: now},
			}},
		}

		var doc themeDoc
		err := r.coll.FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().
				SetUpsert(true).
				SetReturnDocument(options.After),
		).Decode(&doc)
		if err != nil {
			return nil, err
		}
		return &doc, nil
	})
	if err != nil {
		return nil, domain.Internal(err, "theme.upsert", "failed to upsert theme")
	}

	return result.(*themeDoc).toDomain(), nil
}

// ListThemesByStore returns all themes of a store.
func (r *ThemeRepository) ListThemesByStore(ctx context.Context, storeID int64) ([]domain.Theme, error) {
	cursor, err := r.coll.Find(ctx, bson.D{{Key: "store_id", Value: storeID}})
	if err != nil {
		return nil, domain.Internal(err, "theme.list", "failed to list themes")
	}
	defer cursor.Close(ctx)

	var themes []domain.Theme
	for cursor.Next(ctx) {
		var doc themeDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, domain.Internal(err, "theme.list", "failed to decode theme")
		}
		themes = append(themes, *doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, domain.Internal(err, "theme.list", "failed to list themes")
	}
	return themes, nil
}

// ActiveThemeByStore returns the store's single active theme.
func (r *ThemeRepository) ActiveThemeByStore(ctx context.Context, storeID int64) (*domain.Theme, error) {
	var doc themeDoc
	err := r.coll.FindOne(ctx, bson.D{
		{Key: "store_id", Value: storeID},
		{Key: "active", Value: true},
	}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrActiveThemeNotFound
		}
		return nil, domain.Internal(err, "theme.active", "failed to get active theme")
	}
	return doc.toDomain(), nil
}

// DeleteTheme removes one theme document by id.
func (r *ThemeRepository) DeleteTheme(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return domain.Invalid("theme.delete", "invalid theme id")
	}

	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return domain.Internal(err, "theme.delete", "failed to delete theme")
	}
	if result.DeletedCount == 0 {
		return domain.ErrThemeNotFound
	}
	return nil
}

// DeleteThemesByStore removes every theme of a store.
func (r *ThemeRepository) DeleteThemesByStore(ctx context.Context, storeID int64) error {
	_, err := r.coll.DeleteMany(ctx, bson.D{{Key: "store_id", Value: storeID}})
	if err != nil {
		return domain.Internal(err, "theme.delete_by_store", "failed to delete themes")
	}
	return nil
}
