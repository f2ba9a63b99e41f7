package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AffCredential maps an affiliate id to the downstream CRM api id plus a
// reference to the secret. The secret value itself lives in the secret
// store and is resolved at send time only.
type AffCredential struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AffID             string             `bson:"affId" json:"affId"`
	APIID             string             `bson:"apiId" json:"apiId"`
	APIPasswordKeyRef string             `bson:"apiPasswordKeyRef" json:"apiPasswordKeyRef"`
	CreatedAt         time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt         time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
