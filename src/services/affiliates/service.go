package affiliates

import (
	"context"
	"fmt"
	"time"

	"Backend-Claim3000/src/config"
	"Backend-Claim3000/src/database"
	"Backend-Claim3000/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Resolution reports both what was asked for and what was actually used,
// instead of overwriting one with the other.
type Resolution struct {
	RequestedAffID    string
	ResolvedAffID     string
	WasDefaulted      bool
	APIID             string
	APIPasswordKeyRef string
}

// HasCredentials reports whether a credential row was found anywhere in
// the fallback chain. The caller decides whether to proceed without one.
func (r *Resolution) HasCredentials() bool {
	return r.APIID != ""
}

// findCredential is swappable in tests.
var findCredential = func(ctx context.Context, affID string) (*models.AffCredential, error) {
	var cred models.AffCredential
	err := database.AffCredentialCollection.FindOne(ctx, bson.M{"affId": affID}).Decode(&cred)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// Resolve picks the affiliate id in priority order (existing on the Form
// Record, explicitly supplied, configured default) and looks up its
// credentials, falling back to the default affiliate's row when the
// requested one has none.
func Resolve(ctx context.Context, existingAffID, incomingAffID string) (*Resolution, error) {
	requested := existingAffID
	if requested == "" {
		requested = incomingAffID
	}

	res := &Resolution{
		RequestedAffID: requested,
		ResolvedAffID:  requested,
	}
	if res.ResolvedAffID == "" {
		res.ResolvedAffID = config.DefaultAffID
		res.WasDefaulted = true
	}

	cred, err := findCredential(ctx, res.ResolvedAffID)
	if err != nil {
		return nil, err
	}

	// requested id has no row: retry against the default before giving up
	if cred == nil && res.ResolvedAffID != config.DefaultAffID {
		cred, err = findCredential(ctx, config.DefaultAffID)
		if err != nil {
			return nil, err
		}
		if cred != nil {
			res.ResolvedAffID = config.DefaultAffID
			res.WasDefaulted = true
		}
	}

	if cred != nil {
		res.APIID = cred.APIID
		res.APIPasswordKeyRef = cred.APIPasswordKeyRef
	}
	return res, nil
}

// EnsureDefaultCredentials verifies at startup that the configured default
// affiliate has a credential row. Missing credentials are a deploy fault,
// caught here instead of per-lead.
func EnsureDefaultCredentials(ctx context.Context) error {
	cred, err := findCredential(ctx, config.DefaultAffID)
	if err != nil {
		return err
	}
	if cred == nil {
		return fmt.Errorf("DEFAULT_AFF_ID=%s has no row in aff_credentials; add one or point DEFAULT_AFF_ID at a valid affiliate", config.DefaultAffID)
	}
	return nil
}

// UpsertCredential creates or replaces the credential row for an
// affiliate. Admin surface only.
func UpsertCredential(ctx context.Context, cred *models.AffCredential) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"apiId":             cred.APIID,
			"apiPasswordKeyRef": cred.APIPasswordKeyRef,
			"updatedAt":         now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.Update().SetUpsert(true)
	_, err := database.AffCredentialCollection.UpdateOne(ctx, bson.M{"affId": cred.AffID}, update, opts)
	return err
}

// ListCredentials returns all credential rows. Secret references only,
// never secret values.
func ListCredentials(ctx context.Context) ([]models.AffCredential, error) {
	cursor, err := database.AffCredentialCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var creds []models.AffCredential
	if err = cursor.All(ctx, &creds); err != nil {
		return nil, err
	}
	return creds, nil
}
