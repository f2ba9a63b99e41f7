package forms

import (
	"context"
	"errors"
	"log"
	"time"

	"Backend-Claim3000/src/database"
	"Backend-Claim3000/src/models"
	"Backend-Claim3000/src/schemas"
	"Backend-Claim3000/src/services/affiliates"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrUnknownStep  = errors.New("unknown step")
	ErrFormNotFound = errors.New("form not found")
)

// RequestMeta carries the request-scoped facts persisted alongside step
// data.
type RequestMeta struct {
	IP        string
	UserAgent string
	Source    string
}

// ValidateStep validates one step's raw input and, when the step is at or
// past the record-creation threshold, persists it. The returned formID is
// empty when no record exists yet (early steps validate statelessly).
func ValidateStep(ctx context.Context, stepID, formID string, raw map[string]interface{}, meta RequestMeta) (string, []schemas.FieldError, error) {
	contract, ok := schemas.SchemaForStep(stepID)
	if !ok {
		return "", nil, ErrUnknownStep
	}

	typed, ferrs := contract.Validate(raw)
	if len(ferrs) > 0 {
		return formID, ferrs, nil
	}

	now := time.Now()
	value := storageValue(stepID, typed, meta, now)
	path := storagePath(stepID)

	// existing record: always persist the validated step
	if formID != "" {
		oid, err := primitive.ObjectIDFromHex(formID)
		if err != nil {
			return "", nil, ErrFormNotFound
		}
		update := bson.M{"$set": bson.M{path: value, "updatedAt": now}}
		res, err := database.FormCollection.UpdateByID(ctx, oid, update)
		if err != nil {
			return "", nil, err
		}
		if res.MatchedCount == 0 {
			return "", nil, ErrFormNotFound
		}
		return formID, nil, nil
	}

	// no record yet: only mint one from the threshold step onward
	if !shouldCreateRecord(stepID) {
		return "", nil, nil
	}

	record := newRecord(meta, affIDFromRaw(raw), now)
	applyStepValue(record, stepID, value)

	insertRes, err := database.FormCollection.InsertOne(ctx, record)
	if err != nil {
		return "", nil, err
	}
	oid := insertRes.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil, nil
}

// SaveData is the shape accepted by the progressive /save endpoint. Keys
// under Steps land at steps.<key>; keys under Final at final.<key>.
type SaveData struct {
	Steps map[string]interface{} `json:"steps,omitempty"`
	Final map[string]interface{} `json:"final,omitempty"`
}

// SaveForm upserts arbitrary step snapshots without running contracts.
// Step validation happens in ValidateStep; this endpoint exists so the
// client can persist partial progress between validated steps.
func SaveForm(ctx context.Context, formID string, data SaveData, meta RequestMeta) (*models.FormRecord, error) {
	now := time.Now()

	var oid primitive.ObjectID
	if formID == "" {
		oid = primitive.NewObjectID()
	} else {
		var err error
		oid, err = primitive.ObjectIDFromHex(formID)
		if err != nil {
			return nil, ErrFormNotFound
		}
	}

	set := bson.M{"updatedAt": now}
	for k, v := range data.Steps {
		set["steps."+k] = v
	}
	for k, v := range data.Final {
		set["final."+k] = v
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"createdAt": now,
			"crmStatus": models.CrmStatusPending,
			"meta": &models.Meta{
				IP:          meta.IP,
				UserAgent:   meta.UserAgent,
				Source:      meta.Source,
				LandingTime: &now,
			},
		},
	}
	opts := options.Update().SetUpsert(formID == "")
	res, err := database.FormCollection.UpdateOne(ctx, bson.M{"_id": oid}, update, opts)
	if err != nil {
		return nil, err
	}
	if formID != "" && res.MatchedCount == 0 {
		return nil, ErrFormNotFound
	}

	return GetForm(ctx, oid.Hex())
}

// SubmitForm runs the final contract, persists the complete record,
// resolves affiliate credentials and attempts CRM delivery. Submission
// succeeds whenever local persistence succeeds; the delivery outcome is
// recorded on the record, never surfaced as a request failure.
func SubmitForm(ctx context.Context, formID string, raw map[string]interface{}, meta RequestMeta) (*models.FormRecord, []schemas.FieldError, error) {
	contract, _ := schemas.SchemaForStep("submit")
	typed, ferrs := contract.Validate(raw)
	if len(ferrs) > 0 {
		return nil, ferrs, nil
	}
	step := typed.(*schemas.FinalSubmitStep)
	now := time.Now()

	record, err := loadOrCreate(ctx, formID, step.AffID, meta, now)
	if err != nil {
		return nil, nil, err
	}

	fin := finalSection(step, now)
	submitted := now
	fin.SubmittedAt = &submitted

	set := bson.M{
		"steps.personalDetails": personalDetailsFromFinal(step, record, meta, now),
		"steps.addressLookup":   addressLookupFromFinal(step),
		"final":                 fin,
		"updatedAt":             now,
	}
	if _, err := database.FormCollection.UpdateByID(ctx, record.ID, bson.M{"$set": set}); err != nil {
		return nil, nil, err
	}
	markPending(ctx, record.ID)

	resolution, err := affiliates.Resolve(ctx, record.AffID, step.AffID)
	if err != nil {
		// credential store down: record the failure, keep the lead
		log.Printf("❌ Affiliate resolution failed for form %s: %v", record.ID.Hex(), err)
		UpdateCrmOutcome(ctx, record.ID, failedOutcome("affiliate resolution: "+err.Error()))
		saved, gerr := getForm(ctx, record.ID.Hex())
		return saved, nil, gerr
	}
	persistResolution(ctx, record, resolution, now)

	record, err = getForm(ctx, record.ID.Hex())
	if err != nil {
		return nil, nil, err
	}

	outcome := deliver(ctx, record, resolution)
	UpdateCrmOutcome(ctx, record.ID, outcome)
	if outcome.Status == models.CrmStatusQueued {
		enqueueRetry(record.ID.Hex())
	}

	final, err := getForm(ctx, record.ID.Hex())
	if err != nil {
		return nil, nil, err
	}
	return final, nil, nil
}

// GetForm loads one record by hex id.
func GetForm(ctx context.Context, formID string) (*models.FormRecord, error) {
	return getForm(ctx, formID)
}

// AttachSignature stores the processed signature's durable URL and
// compact inline copy on the record's final section.
func AttachSignature(ctx context.Context, formID, fileURL, dataURL string) error {
	oid, err := primitive.ObjectIDFromHex(formID)
	if err != nil {
		return ErrFormNotFound
	}
	update := bson.M{"$set": bson.M{
		"final.signatureFileUrl": fileURL,
		"final.signatureBase64":  dataURL,
		"updatedAt":              time.Now(),
	}}
	res, err := database.FormCollection.UpdateByID(ctx, oid, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrFormNotFound
	}
	return nil
}

/* ---- internals ---- */

func getForm(ctx context.Context, formID string) (*models.FormRecord, error) {
	oid, err := primitive.ObjectIDFromHex(formID)
	if err != nil {
		return nil, ErrFormNotFound
	}
	var record models.FormRecord
	err = database.FormCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, ErrFormNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func newRecord(meta RequestMeta, affID string, now time.Time) *models.FormRecord {
	landing := now
	return &models.FormRecord{
		AffID:     affID,
		CrmStatus: models.CrmStatusPending,
		Meta: &models.Meta{
			IP:          meta.IP,
			UserAgent:   meta.UserAgent,
			Source:      meta.Source,
			LandingTime: &landing,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func loadOrCreate(ctx context.Context, formID, affID string, meta RequestMeta, now time.Time) (*models.FormRecord, error) {
	if formID != "" {
		return getForm(ctx, formID)
	}
	record := newRecord(meta, affID, now)
	res, err := database.FormCollection.InsertOne(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = res.InsertedID.(primitive.ObjectID)
	return record, nil
}

// applyStepValue sets the step value on an in-memory record before the
// initial insert (path-based $set only works on existing documents).
func applyStepValue(record *models.FormRecord, stepID string, value interface{}) {
	switch stepID {
	case "hello":
		record.Steps.Hello, _ = value.(*models.HelloData)
	case "personal-details":
		record.Steps.PersonalDetails, _ = value.(*models.PersonalDetailsData)
	case "address-lookup":
		record.Steps.AddressLookup, _ = value.(*models.AddressLookupData)
	case "postcode":
		if pc, ok := value.(string); ok {
			record.Steps.AddressLookup = &models.AddressLookupData{CurrentPostcode: pc}
		}
	case "final", "submit":
		record.Final, _ = value.(*models.FinalSection)
	}
}

// personalDetailsFromFinal rebuilds the personal-details section from the
// final payload. An earlier accepted consent is preserved so its original
// acceptance time survives resubmission.
func personalDetailsFromFinal(step *schemas.FinalSubmitStep, record *models.FormRecord, meta RequestMeta, now time.Time) *models.PersonalDetailsData {
	consent := consentRecord(step.Consent, meta, now)
	if prev := record.Steps.PersonalDetails; prev != nil && prev.Consent != nil && prev.Consent.AcceptedAt != nil {
		consent = prev.Consent
	}
	return &models.PersonalDetailsData{
		IVA:             step.IVA,
		Title:           step.Title,
		FirstName:       step.FirstName,
		LastName:        step.LastName,
		DOB:             step.DOB,
		Email:           step.Email,
		Phone:           step.Phone,
		Consent:         consent,
		SignatureBase64: step.SignatureBase64,
	}
}

func addressLookupFromFinal(step *schemas.FinalSubmitStep) *models.AddressLookupData {
	currentPostcode := step.CurrentPostcode
	if currentPostcode == "" && step.CurrentAddress != nil {
		currentPostcode = step.CurrentAddress.Postcode
	}
	return &models.AddressLookupData{
		CurrentPostcode:  currentPostcode,
		CurrentAddress:   convAddress(step.CurrentAddress),
		PreviousPostcode: step.PreviousPostcode,
		PreviousAddress:  convAddress(step.PreviousAddress),
	}
}

// persistResolution records the affiliate decision trail: what the lead
// asked for, what was used, and whether the default stepped in.
func persistResolution(ctx context.Context, record *models.FormRecord, res *affiliates.Resolution, now time.Time) {
	set := bson.M{
		"usedAffId":      res.ResolvedAffID,
		"affIdDefaulted": res.WasDefaulted,
		"updatedAt":      now,
	}
	if record.AffID == "" {
		set["aff_id"] = res.ResolvedAffID
	}
	if record.OriginalAffID == "" && res.RequestedAffID != "" {
		set["originalAffId"] = res.RequestedAffID
	}
	if res.HasCredentials() {
		set["apiCredentialsUsed"] = &models.APICredentialsUsed{
			APIID:             res.APIID,
			APIPasswordKeyRef: res.APIPasswordKeyRef,
		}
	}
	if _, err := database.FormCollection.UpdateByID(ctx, record.ID, bson.M{"$set": set}); err != nil {
		log.Printf("⚠️ Failed to persist affiliate resolution for form %s: %v", record.ID.Hex(), err)
	}
}

// markPending sets crmStatus=pending only on records that have never been
// classified. A resubmission of an already-sent lead must not reopen it.
func markPending(ctx context.Context, id primitive.ObjectID) {
	filter := bson.M{
		"_id": id,
		"crmStatus": bson.M{"$nin": []string{
			models.CrmStatusSent, models.CrmStatusQueued, models.CrmStatusFailed,
		}},
	}
	update := bson.M{"$set": bson.M{"crmStatus": models.CrmStatusPending}}
	if _, err := database.FormCollection.UpdateOne(ctx, filter, update); err != nil {
		log.Printf("⚠️ Failed to mark form %s pending: %v", id.Hex(), err)
	}
}
