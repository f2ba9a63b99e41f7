package crm

import (
	"testing"
	"time"

	"Backend-Claim3000/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *models.FormRecord {
	landing := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	signed := time.Date(2025, 3, 9, 10, 14, 30, 0, time.UTC)
	submitted := time.Date(2025, 3, 9, 10, 15, 0, 0, time.UTC)

	return &models.FormRecord{
		AffID:     "900",
		UsedAffID: "639",
		Steps: models.FormSteps{
			PersonalDetails: &models.PersonalDetailsData{
				IVA:       "No",
				Title:     "Mr",
				FirstName: "John",
				LastName:  "Smith",
				DOB:       "1990-06-05",
				Email:     "john@example.com",
				Phone:     "07123456789",
			},
			AddressLookup: &models.AddressLookupData{
				CurrentPostcode: "SW1A 2AA",
				CurrentAddress: &models.Address{
					House: "10", Street: "Downing Street", City: "London",
					County: "Greater London", District: "Westminster", Postcode: "SW1A 2AA",
				},
				PreviousPostcode: "EC1A 1BB",
				PreviousAddress: &models.Address{
					House: "1", Street: "Old Street", City: "London", Postcode: "EC1A 1BB",
				},
			},
		},
		Final: &models.FinalSection{
			SignatureBase64:  "data:image/jpeg;base64,abc",
			SignatureFileURL: "http://localhost:4000/uploads/signatures/sig.jpg",
			OptinURL:         "https://claim3000.example/form",
			SignatureTime:    &signed,
			SubmittedAt:      &submitted,
		},
		Meta: &models.Meta{
			IP:          "203.0.113.9",
			UserAgent:   "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0",
			LandingTime: &landing,
		},
	}
}

func TestBuildLeadPayload(t *testing.T) {
	payload := BuildLeadPayload(sampleRecord())

	t.Run("FixedFields", func(t *testing.T) {
		assert.Equal(t, 329, payload["ProductId"])
		assert.Equal(t, 329, payload["productId"])
		assert.Equal(t, 0, payload["price"])
		assert.Equal(t, "CLAIM3000", payload["buyer"])
		assert.Equal(t, "Not Found", payload["creditReportPdf"])
	})

	t.Run("IdentityAndAddress", func(t *testing.T) {
		assert.Equal(t, "John", payload["firstName"])
		assert.Equal(t, "07123456789", payload["phoneNumber"])
		assert.Equal(t, "10", payload["houseNo"])
		assert.Equal(t, "Downing Street", payload["address1"])
		assert.Equal(t, "Westminster", payload["address2"])
		assert.Equal(t, "SW1A 2AA", payload["postCode"])
	})

	t.Run("DOBVariants", func(t *testing.T) {
		assert.Equal(t, "1990-06-05", payload["dateOfBirth"])
		assert.Equal(t, "05/06/1990", payload["dob"])
		assert.Equal(t, "05", payload["dob_day"])
		assert.Equal(t, "06", payload["dob_month"])
		assert.Equal(t, "1990", payload["dob_year"])
	})

	t.Run("PreviousAddressAndComposites", func(t *testing.T) {
		assert.Equal(t, "1", payload["prev_houseNo"])
		assert.Equal(t, "EC1A 1BB", payload["prev_address_postcode"])
		assert.Equal(t, "10, Downing Street, London, SW1A 2AA", payload["fullAddressCurrent"])
		assert.Equal(t, "1, Old Street, London, EC1A 1BB", payload["fullAddressPrevious"])
	})

	t.Run("AffIDPrefersUsed", func(t *testing.T) {
		assert.Equal(t, "639", payload["aff_id"])
	})

	t.Run("Timestamps", func(t *testing.T) {
		assert.Equal(t, "09/03/2025 10:00:00 UTC+00", payload["landingTime"])
		assert.Equal(t, "09/03/2025 10:14:30 UTC+00", payload["signatureTime"])
		assert.Equal(t, "09/03/2025 10:15:00 UTC+00", payload["submissionTime"])
	})

	t.Run("UserAgentClassification", func(t *testing.T) {
		assert.Equal(t, "Chrome", payload["userBrowser"])
		assert.Equal(t, "Windows 10", payload["userOs"])
		assert.Equal(t, "Desktop", payload["userDevice"])
	})

	t.Run("NoCredentialKeys", func(t *testing.T) {
		_, hasID := payload["apiId"]
		_, hasPw := payload["apiPassword"]
		assert.False(t, hasID)
		assert.False(t, hasPw)
	})
}

func TestBuildLeadPayloadEmptyRecord(t *testing.T) {
	payload := BuildLeadPayload(&models.FormRecord{})

	require.NotNil(t, payload)
	assert.Equal(t, "", payload["firstName"])
	assert.Equal(t, "", payload["postCode"])
	assert.Equal(t, "", payload["dob"])
	assert.Equal(t, "", payload["aff_id"])
	assert.Equal(t, "", payload["landingTime"])
	assert.Equal(t, "", payload["fullAddressCurrent"])
	assert.Equal(t, 329, payload["ProductId"])
}

func TestBuildLeadPayloadSignatureFallsBackToPersonalDetails(t *testing.T) {
	record := sampleRecord()
	record.Final.SignatureBase64 = ""
	record.Steps.PersonalDetails.SignatureBase64 = "data:image/png;base64,xyz"

	payload := BuildLeadPayload(record)
	assert.Equal(t, "data:image/png;base64,xyz", payload["signature"])
}
