package forms

import (
	"time"

	"Backend-Claim3000/src/config"
	"Backend-Claim3000/src/models"
	"Backend-Claim3000/src/schemas"
)

// ConsentText is the agreement wording recorded with every accepted
// consent.
const ConsentText = "I agree to be contacted about my car finance compensation claim and for my details to be passed to the relevant panel solicitor."

// Canonical step positions. hello shares the second slot with
// personal-details; both are alternative entry forms, not sequential.
var stepOrder = map[string]int{
	"postcode":         0,
	"hello":            1,
	"personal-details": 1,
	"address-lookup":   2,
	"final":            3,
	"submit":           3,
}

// storagePath maps the external step name onto the nested document path
// it owns. The postcode step writes a single field inside addressLookup
// rather than its own sub-document.
func storagePath(stepID string) string {
	switch stepID {
	case "hello":
		return "steps.hello"
	case "personal-details":
		return "steps.personalDetails"
	case "address-lookup":
		return "steps.addressLookup"
	case "postcode":
		return "steps.addressLookup.currentPostcode"
	case "final", "submit":
		return "final"
	}
	return ""
}

// shouldCreateRecord applies the record-creation threshold: steps before
// the configured one validate without minting a Form Record, so abandoned
// early sessions leave no placeholder documents.
func shouldCreateRecord(stepID string) bool {
	threshold, ok := stepOrder[config.CreateRecordFromStep]
	if !ok {
		threshold = stepOrder["personal-details"]
	}
	idx, ok := stepOrder[stepID]
	if !ok {
		return false
	}
	return idx >= threshold
}

// consentRecord expands the consent boolean into the stored record. Only
// an accepted consent carries acceptance time and the submitting client;
// a declined one keeps those fields null.
func consentRecord(accepted bool, meta RequestMeta, now time.Time) *models.Consent {
	c := &models.Consent{Text: ConsentText}
	if accepted {
		t := now
		c.AcceptedAt = &t
		c.IP = meta.IP
		c.UserAgent = meta.UserAgent
	}
	return c
}

func convAddress(in *schemas.AddressInput) *models.Address {
	if in == nil {
		return nil
	}
	return &models.Address{
		House:    in.House,
		Street:   in.Street,
		City:     in.City,
		County:   in.County,
		District: in.District,
		Postcode: in.Postcode,
		Label:    in.Label,
	}
}

// storageValue converts a validated step payload into the document stored
// at the step's path.
func storageValue(stepID string, typed interface{}, meta RequestMeta, now time.Time) interface{} {
	switch step := typed.(type) {
	case *schemas.PostcodeStep:
		return step.CurrentPostcode

	case *schemas.HelloStep:
		return &models.HelloData{FirstName: step.FirstName}

	case *schemas.PersonalDetailsStep:
		return &models.PersonalDetailsData{
			IVA:             step.IVA,
			Title:           step.Title,
			FirstName:       step.FirstName,
			LastName:        step.LastName,
			DOB:             step.DOB,
			Email:           step.Email,
			Phone:           step.Phone,
			Consent:         consentRecord(step.Consent, meta, now),
			SignatureBase64: step.SignatureBase64,
		}

	case *schemas.AddressLookupStep:
		return &models.AddressLookupData{
			CurrentPostcode:  step.CurrentPostcode,
			CurrentAddress:   convAddress(step.CurrentAddress),
			PreviousPostcode: step.PreviousPostcode,
			PreviousAddress:  convAddress(step.PreviousAddress),
		}

	case *schemas.FinalSubmitStep:
		return finalSection(step, now)
	}
	return nil
}

func finalSection(step *schemas.FinalSubmitStep, now time.Time) *models.FinalSection {
	fin := &models.FinalSection{
		SignatureBase64:  step.SignatureBase64,
		SignatureFileURL: step.SignatureFileURL,
		OptinURL:         step.OptinURL,
	}
	if step.SignatureBase64 != "" {
		t := now
		fin.SignatureTime = &t
	}
	return fin
}
