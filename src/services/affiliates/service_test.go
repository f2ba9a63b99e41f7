package affiliates

import (
	"context"
	"errors"
	"testing"

	"Backend-Claim3000/src/config"
	"Backend-Claim3000/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCredentials swaps the credential lookup for an in-memory table.
func fakeCredentials(t *testing.T, rows map[string]*models.AffCredential) {
	t.Helper()
	old := findCredential
	findCredential = func(ctx context.Context, affID string) (*models.AffCredential, error) {
		return rows[affID], nil
	}
	t.Cleanup(func() { findCredential = old })
}

func withDefaultAffID(t *testing.T, id string) {
	t.Helper()
	old := config.DefaultAffID
	config.DefaultAffID = id
	t.Cleanup(func() { config.DefaultAffID = old })
}

func TestResolve(t *testing.T) {
	withDefaultAffID(t, "639")

	defaultCred := &models.AffCredential{AffID: "639", APIID: "default-api", APIPasswordKeyRef: "PHONEXA_PW_DEFAULT"}
	partnerCred := &models.AffCredential{AffID: "812", APIID: "partner-api", APIPasswordKeyRef: "PHONEXA_PW_812"}

	t.Run("KnownAffiliateUsesOwnCredentials", func(t *testing.T) {
		fakeCredentials(t, map[string]*models.AffCredential{"639": defaultCred, "812": partnerCred})

		res, err := Resolve(context.Background(), "", "812")
		require.NoError(t, err)
		assert.Equal(t, "812", res.RequestedAffID)
		assert.Equal(t, "812", res.ResolvedAffID)
		assert.False(t, res.WasDefaulted)
		assert.Equal(t, "partner-api", res.APIID)
		assert.True(t, res.HasCredentials())
	})

	t.Run("UnknownAffiliateFallsBackToDefault", func(t *testing.T) {
		fakeCredentials(t, map[string]*models.AffCredential{"639": defaultCred})

		res, err := Resolve(context.Background(), "", "999")
		require.NoError(t, err)
		assert.Equal(t, "999", res.RequestedAffID)
		assert.Equal(t, "639", res.ResolvedAffID)
		assert.True(t, res.WasDefaulted)
		assert.Equal(t, "default-api", res.APIID)
	})

	t.Run("MissingAffIDDefaultsImmediately", func(t *testing.T) {
		fakeCredentials(t, map[string]*models.AffCredential{"639": defaultCred})

		res, err := Resolve(context.Background(), "", "")
		require.NoError(t, err)
		assert.Empty(t, res.RequestedAffID)
		assert.Equal(t, "639", res.ResolvedAffID)
		assert.True(t, res.WasDefaulted)
	})

	t.Run("ExistingRecordAffIDWinsOverIncoming", func(t *testing.T) {
		fakeCredentials(t, map[string]*models.AffCredential{"639": defaultCred, "812": partnerCred})

		res, err := Resolve(context.Background(), "812", "999")
		require.NoError(t, err)
		assert.Equal(t, "812", res.RequestedAffID)
		assert.Equal(t, "812", res.ResolvedAffID)
	})

	t.Run("NoRowsAnywhereLeavesNoCredentials", func(t *testing.T) {
		fakeCredentials(t, map[string]*models.AffCredential{})

		res, err := Resolve(context.Background(), "", "999")
		require.NoError(t, err)
		assert.False(t, res.HasCredentials())
		assert.Equal(t, "999", res.ResolvedAffID)
	})

	t.Run("StoreErrorPropagates", func(t *testing.T) {
		old := findCredential
		findCredential = func(ctx context.Context, affID string) (*models.AffCredential, error) {
			return nil, errors.New("mongo down")
		}
		t.Cleanup(func() { findCredential = old })

		_, err := Resolve(context.Background(), "", "812")
		assert.Error(t, err)
	})
}

func TestEnsureDefaultCredentials(t *testing.T) {
	withDefaultAffID(t, "639")

	t.Run("PresentRowPasses", func(t *testing.T) {
		fakeCredentials(t, map[string]*models.AffCredential{
			"639": {AffID: "639", APIID: "default-api", APIPasswordKeyRef: "PHONEXA_PW_DEFAULT"},
		})
		assert.NoError(t, EnsureDefaultCredentials(context.Background()))
	})

	t.Run("MissingRowFails", func(t *testing.T) {
		fakeCredentials(t, map[string]*models.AffCredential{})
		err := EnsureDefaultCredentials(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "639")
	})
}
