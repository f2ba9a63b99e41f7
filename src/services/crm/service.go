package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"Backend-Claim3000/src/config"
	"Backend-Claim3000/src/models"
	"Backend-Claim3000/src/utils"
)

// HTTPClient bounds every delivery attempt. A lead that cannot be handed
// over inside the timeout is queued for the retry sweep, not failed.
var HTTPClient = &http.Client{Timeout: 10 * time.Second}

const maxResponseBytes = 64 << 10

// Outcome classifies one delivery attempt.
type Outcome struct {
	Status     string `bson:"status" json:"status"`
	HTTPStatus int    `bson:"httpStatus,omitempty" json:"httpStatus,omitempty"`
	Body       string `bson:"body,omitempty" json:"body,omitempty"`
	Error      string `bson:"error,omitempty" json:"error,omitempty"`
}

// Deliver resolves the secret reference, attaches credentials and posts
// the lead. Classification:
//
//	2xx                      → sent
//	network error / 5xx      → queued (retryable)
//	any other client error   → failed
func Deliver(ctx context.Context, payload map[string]interface{}, apiID, passwordKeyRef string) Outcome {
	if config.PhonexaTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.PhonexaTimeout)
		defer cancel()
	}

	password := utils.ResolveSecret(passwordKeyRef)

	body := make(map[string]interface{}, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["apiId"] = apiID
	body["apiPassword"] = password

	raw, err := json.Marshal(body)
	if err != nil {
		return Outcome{Status: models.CrmStatusFailed, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.PhonexaURL, bytes.NewReader(raw))
	if err != nil {
		return Outcome{Status: models.CrmStatusFailed, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(apiID, password)

	res, err := HTTPClient.Do(req)
	if err != nil {
		// timeout or transport failure: retryable
		return Outcome{Status: models.CrmStatusQueued, Error: err.Error()}
	}
	defer res.Body.Close()

	resBody, _ := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))

	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return Outcome{Status: models.CrmStatusSent, HTTPStatus: res.StatusCode, Body: string(resBody)}
	case res.StatusCode >= 500:
		return Outcome{Status: models.CrmStatusQueued, HTTPStatus: res.StatusCode, Body: string(resBody), Error: "crm returned " + res.Status}
	default:
		return Outcome{Status: models.CrmStatusFailed, HTTPStatus: res.StatusCode, Body: string(resBody), Error: "crm returned " + res.Status}
	}
}
