package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dvloznov/financebot/internal/domain"
)

// CategoryRepository persists categories in the categories collection.
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository creates a repository over the shared store.
func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// ListCategories returns every category, sorted by name.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.store.db.Collection(categoriesCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}
	defer cur.Close(ctx)

	var categories []domain.Category
	if err := cur.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("ListCategories: decoding: %w", err)
	}
	return categories, nil
}

// FindCategoryByName returns the category with the given name, or nil when
// no such category exists. Absence is not an error.
func (r *CategoryRepository) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	var category domain.Category
	err := r.store.db.Collection(categoriesCollection).FindOne(ctx, bson.M{"name": name}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindCategoryByName: %w", err)
	}
	return &category, nil
}

// CreateCategoryIfAbsent inserts the category unless one with the same name
// already exists, in which case the existing document wins and its copy is
// returned. The upsert makes two concurrent creations of the same name
// converge on a single document instead of racing a find against an insert.
func (r *CategoryRepository) CreateCategoryIfAbsent(ctx context.Context, category domain.Category) (*domain.Category, error) {
	filter := bson.M{"name": category.Name}
	update := bson.M{"$setOnInsert": bson.M{
		"name":        category.Name,
		"description": category.Description,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored domain.Category
	err := r.store.db.Collection(categoriesCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("CreateCategoryIfAbsent: %w", err)
	}
	return &stored, nil
}
