package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin accounts maintain affiliate credentials. They are created by an
// operator directly in the collection, never through the public surface.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"`
}
