package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category groups transactions by spending area. Name is the unique
// identifier; Description is free text used as semantic context when the
// model decides whether an establishment fits an existing category.
//
// Categories are created lazily (either named by the user or proposed by
// the model) and are never updated or deleted.
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
}
