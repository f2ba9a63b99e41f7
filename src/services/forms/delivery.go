package forms

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"Backend-Claim3000/src/database"
	"Backend-Claim3000/src/models"
	"Backend-Claim3000/src/services/affiliates"
	"Backend-Claim3000/src/services/crm"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TypeDeliverLead is the asynq task type for retrying queued deliveries.
const TypeDeliverLead = "crm:deliver"

type deliverLeadPayload struct {
	FormID string `json:"formId"`
}

// NewDeliverLeadTask builds the retry task for one form.
func NewDeliverLeadTask(formID string) (*asynq.Task, error) {
	payload, err := json.Marshal(deliverLeadPayload{FormID: formID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDeliverLead, payload), nil
}

// ParseDeliverLeadTask extracts the form id from a retry task.
func ParseDeliverLeadTask(t *asynq.Task) (string, error) {
	var p deliverLeadPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return "", err
	}
	return p.FormID, nil
}

// DeliverLead re-attempts CRM delivery for a stored form. Already-sent
// records are skipped so retries stay idempotent. The returned outcome is
// whatever was recorded for this attempt.
func DeliverLead(ctx context.Context, formID string) (crm.Outcome, error) {
	record, err := getForm(ctx, formID)
	if err != nil {
		return crm.Outcome{}, err
	}
	if record.CrmStatus == models.CrmStatusSent {
		return crm.Outcome{Status: models.CrmStatusSent}, nil
	}

	resolution, err := affiliates.Resolve(ctx, record.AffID, "")
	if err != nil {
		return crm.Outcome{}, err
	}
	persistResolution(ctx, record, resolution, time.Now())

	record, err = getForm(ctx, formID)
	if err != nil {
		return crm.Outcome{}, err
	}

	outcome := deliver(ctx, record, resolution)
	UpdateCrmOutcome(ctx, record.ID, outcome)
	return outcome, nil
}

// deliver attaches credentials and posts the lead. Missing credentials
// are a terminal failure, not a retryable one: retrying will not make a
// credential row appear.
func deliver(ctx context.Context, record *models.FormRecord, res *affiliates.Resolution) crm.Outcome {
	if !res.HasCredentials() {
		return failedOutcome("no credentials for affiliate " + res.ResolvedAffID)
	}
	payload := crm.BuildLeadPayload(record)
	outcome := crm.Deliver(ctx, payload, res.APIID, res.APIPasswordKeyRef)
	switch outcome.Status {
	case models.CrmStatusSent:
		log.Printf("✅ Lead %s delivered to CRM", record.ID.Hex())
	case models.CrmStatusQueued:
		log.Printf("⚠️ Lead %s queued for retry: %s", record.ID.Hex(), outcome.Error)
	default:
		log.Printf("❌ Lead %s rejected by CRM: %s", record.ID.Hex(), outcome.Error)
	}
	return outcome
}

func failedOutcome(reason string) crm.Outcome {
	return crm.Outcome{Status: models.CrmStatusFailed, Error: reason}
}

// UpdateCrmOutcome records a delivery classification. Transitions are
// forward-only: once a record is sent, no later queued/failed attempt may
// overwrite it.
func UpdateCrmOutcome(ctx context.Context, id primitive.ObjectID, outcome crm.Outcome) {
	filter := bson.M{"_id": id}
	if outcome.Status != models.CrmStatusSent {
		filter["crmStatus"] = bson.M{"$ne": models.CrmStatusSent}
	}
	update := bson.M{"$set": bson.M{
		"crmStatus":   outcome.Status,
		"crmResponse": outcome,
		"updatedAt":   time.Now(),
	}}
	if _, err := database.FormCollection.UpdateOne(ctx, filter, update); err != nil {
		log.Printf("⚠️ Failed to record CRM outcome for form %s: %v", id.Hex(), err)
	}
}

// enqueueRetry schedules a background re-delivery. Without Redis the
// record simply stays queued for a later manual sweep.
func enqueueRetry(formID string) {
	if database.AsynqClient == nil {
		log.Printf("⚠️ No retry queue available; form %s stays queued", formID)
		return
	}
	task, err := NewDeliverLeadTask(formID)
	if err != nil {
		log.Printf("⚠️ Failed to build retry task for form %s: %v", formID, err)
		return
	}
	_, err = database.AsynqClient.Enqueue(task,
		asynq.ProcessIn(time.Minute),
		asynq.MaxRetry(5),
		asynq.TaskID("crm-deliver-"+formID),
	)
	if err != nil {
		log.Printf("⚠️ Failed to enqueue retry for form %s: %v", formID, err)
		return
	}
	log.Printf("✅ Retry queued for form %s", formID)
}

// affIDFromRaw pulls an affiliate id out of an unvalidated step payload.
// Steps other than submit may still carry one from the landing URL.
func affIDFromRaw(raw map[string]interface{}) string {
	if v, ok := raw["aff_id"].(string); ok {
		return v
	}
	if v, ok := raw["affId"].(string); ok {
		return v
	}
	return ""
}
