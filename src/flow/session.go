package flow

import (
	"context"

	"Backend-Claim3000/src/schemas"
)

// The journey is a small explicit state machine. Two steps are visible
// (postcode, personal-details); address-lookup and final run inside the
// hidden pipeline after personal-details passes. Session is plain data so
// it can be serialized and resumed.

const (
	StepPostcode        = "postcode"
	StepPersonalDetails = "personal-details"
	StepAddressLookup   = "address-lookup"
	StepFinal           = "final"
)

const (
	StatusForm     = "form"
	StatusLoading  = "loading"
	StatusThankYou = "thankyou"
)

// Session is the complete journey state for one visitor.
type Session struct {
	Steps  []string               `json:"steps"`
	Index  int                    `json:"index"`
	FormID string                 `json:"formId,omitempty"`
	Values map[string]interface{} `json:"values"`

	FieldErrors []schemas.FieldError `json:"fieldErrors,omitempty"`
	StageLog    []StageResult        `json:"stageLog,omitempty"`

	// ReturningToPostcode marks a backwards transition into the postcode
	// step, so the lookup layer can suppress its re-fire on restore.
	ReturningToPostcode bool `json:"returningToPostcode,omitempty"`

	Status string `json:"status"`
}

// NewSession starts a journey at the postcode step.
func NewSession() *Session {
	return &Session{
		Steps:  []string{StepPostcode, StepPersonalDetails},
		Values: map[string]interface{}{},
		Status: StatusForm,
	}
}

// Current names the step the session is on.
func (s *Session) Current() string {
	if s.Index < 0 || s.Index >= len(s.Steps) {
		return ""
	}
	return s.Steps[s.Index]
}

// Backend is the server side of the journey. The machine never talks to
// storage or the CRM directly.
type Backend interface {
	ValidateStep(ctx context.Context, stepID, formID string, values map[string]interface{}) (string, []schemas.FieldError, error)
	SaveProgress(ctx context.Context, formID string, values map[string]interface{}) (string, error)
	UploadSignature(ctx context.Context, formID, signatureBase64 string) (string, error)
	Submit(ctx context.Context, formID string, values map[string]interface{}) ([]schemas.FieldError, error)
}

// Machine advances a session against a backend.
type Machine struct {
	Session *Session
	Backend Backend
}

// Next advances one step. The postcode step is guarded locally and never
// touches the backend: a guard failure must not generate network calls.
// Passing personal-details hands over to the hidden pipeline.
func (m *Machine) Next(ctx context.Context) error {
	s := m.Session
	s.FieldErrors = nil

	switch s.Current() {
	case StepPostcode:
		if errs := m.guardPostcode(); len(errs) > 0 {
			s.FieldErrors = errs
			return nil
		}
		s.Index++
		s.ReturningToPostcode = false
		return nil

	case StepPersonalDetails:
		formID, errs, err := m.Backend.ValidateStep(ctx, StepPersonalDetails, s.FormID, s.Values)
		if err != nil {
			return err
		}
		if len(errs) > 0 {
			s.FieldErrors = errs
			return nil
		}
		if formID != "" {
			s.FormID = formID
		}
		return m.runHidden(ctx)
	}
	return nil
}

// Back moves to the previous visible step. Landing back on postcode is
// flagged so address selections survive the return trip.
func (m *Machine) Back() {
	s := m.Session
	if s.Index == 0 {
		return
	}
	s.Index--
	s.FieldErrors = nil
	if s.Current() == StepPostcode {
		s.ReturningToPostcode = true
	}
}

// guardPostcode checks that a lookup result was actually selected for the
// current address, and for the previous one when that section is open.
// Typing a postcode without picking an address does not count.
func (m *Machine) guardPostcode() []schemas.FieldError {
	var errs []schemas.FieldError
	if !hasSelectedAddress(m.Session.Values, "currentAddress") {
		errs = append(errs, schemas.FieldError{
			Field: "currentPostcode",
			Key:   "currentPostcode.selectAddressRequired",
		})
	}
	if boolValue(m.Session.Values, "showPrevAddressFlag") {
		if stringValue(m.Session.Values, "previousPostcode") == "" {
			errs = append(errs, schemas.FieldError{
				Field: "previousPostcode",
				Key:   "previousPostcode.required",
			})
		} else if !hasSelectedAddress(m.Session.Values, "previousAddress") {
			errs = append(errs, schemas.FieldError{
				Field: "previousPostcode",
				Key:   "previousPostcode.selectAddressRequired",
			})
		}
	}
	return errs
}

// hasSelectedAddress reports whether the named address slot holds a
// lookup selection (selections always carry the provider label).
func hasSelectedAddress(values map[string]interface{}, key string) bool {
	addr, ok := values[key].(map[string]interface{})
	if !ok {
		return false
	}
	label, _ := addr["label"].(string)
	return label != ""
}

func boolValue(values map[string]interface{}, key string) bool {
	v, _ := values[key].(bool)
	return v
}

func stringValue(values map[string]interface{}, key string) string {
	v, _ := values[key].(string)
	return v
}
