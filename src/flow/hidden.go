package flow

import (
	"context"
	"log"

	"Backend-Claim3000/src/schemas"
)

// The hidden pipeline runs after personal-details passes: validate the
// accumulated address data, persist progress, upload the signature and
// submit. Each stage reports by name so a stuck journey is diagnosable
// from the stage log alone.

const (
	StageValidateAddress = "validate-address"
	StageSaveProgress    = "save-progress"
	StageUploadSignature = "upload-signature"
	StageSubmit          = "submit"
)

// StageResult records one pipeline stage's outcome.
type StageResult struct {
	Stage       string               `json:"stage"`
	OK          bool                 `json:"ok"`
	Error       string               `json:"error,omitempty"`
	FieldErrors []schemas.FieldError `json:"fieldErrors,omitempty"`
}

// runHidden executes the pipeline. Signature upload is the only
// non-fatal stage: the CRM accepts the inline copy when no file URL
// exists. Any other failure returns the visitor to the form with the
// stage's field errors attached.
func (m *Machine) runHidden(ctx context.Context) error {
	s := m.Session
	s.Status = StatusLoading
	s.StageLog = nil

	fail := func(result StageResult) {
		s.StageLog = append(s.StageLog, result)
		s.FieldErrors = result.FieldErrors
		s.Status = StatusForm
	}

	// address-lookup contract over the accumulated values
	formID, errs, err := m.Backend.ValidateStep(ctx, StepAddressLookup, s.FormID, s.Values)
	if err != nil {
		fail(StageResult{Stage: StageValidateAddress, Error: err.Error()})
		return err
	}
	if len(errs) > 0 {
		fail(StageResult{Stage: StageValidateAddress, FieldErrors: errs})
		return nil
	}
	if formID != "" {
		s.FormID = formID
	}
	s.StageLog = append(s.StageLog, StageResult{Stage: StageValidateAddress, OK: true})

	formID, err = m.Backend.SaveProgress(ctx, s.FormID, s.Values)
	if err != nil {
		fail(StageResult{Stage: StageSaveProgress, Error: err.Error()})
		return err
	}
	if formID != "" {
		s.FormID = formID
	}
	s.StageLog = append(s.StageLog, StageResult{Stage: StageSaveProgress, OK: true})

	// non-fatal: submission proceeds on the inline signature copy
	if sig := stringValue(s.Values, "signatureBase64"); sig != "" {
		fileURL, err := m.Backend.UploadSignature(ctx, s.FormID, sig)
		if err != nil {
			log.Printf("⚠️ Signature upload failed for form %s: %v", s.FormID, err)
			s.StageLog = append(s.StageLog, StageResult{Stage: StageUploadSignature, Error: err.Error()})
		} else {
			s.Values["signatureFileUrl"] = fileURL
			s.StageLog = append(s.StageLog, StageResult{Stage: StageUploadSignature, OK: true})
		}
	}

	errs, err = m.Backend.Submit(ctx, s.FormID, s.Values)
	if err != nil {
		fail(StageResult{Stage: StageSubmit, Error: err.Error()})
		return err
	}
	if len(errs) > 0 {
		fail(StageResult{Stage: StageSubmit, FieldErrors: errs})
		return nil
	}
	s.StageLog = append(s.StageLog, StageResult{Stage: StageSubmit, OK: true})

	s.Status = StatusThankYou
	return nil
}
