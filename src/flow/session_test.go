package flow

import (
	"context"
	"errors"
	"testing"

	"Backend-Claim3000/src/schemas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records every call so tests can assert what the machine
// did and did not reach for.
type fakeBackend struct {
	calls []string

	validateErrs map[string][]schemas.FieldError
	submitErrs   []schemas.FieldError
	saveErr      error
	uploadErr    error
	formID       string
}

func (f *fakeBackend) ValidateStep(ctx context.Context, stepID, formID string, values map[string]interface{}) (string, []schemas.FieldError, error) {
	f.calls = append(f.calls, "validate:"+stepID)
	return f.formID, f.validateErrs[stepID], nil
}

func (f *fakeBackend) SaveProgress(ctx context.Context, formID string, values map[string]interface{}) (string, error) {
	f.calls = append(f.calls, "save")
	return f.formID, f.saveErr
}

func (f *fakeBackend) UploadSignature(ctx context.Context, formID, signatureBase64 string) (string, error) {
	f.calls = append(f.calls, "upload")
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "http://localhost:4000/uploads/signatures/sig.jpg", nil
}

func (f *fakeBackend) Submit(ctx context.Context, formID string, values map[string]interface{}) ([]schemas.FieldError, error) {
	f.calls = append(f.calls, "submit")
	return f.submitErrs, nil
}

func selectedAddress(postcode string) map[string]interface{} {
	return map[string]interface{}{
		"house": "10", "street": "Downing Street", "city": "London",
		"postcode": postcode, "label": "10 Downing Street, London, " + postcode,
	}
}

func newMachine(backend Backend) *Machine {
	return &Machine{Session: NewSession(), Backend: backend}
}

func TestPostcodeGuard(t *testing.T) {
	t.Run("NoSelectionBlocksWithoutBackendCalls", func(t *testing.T) {
		backend := &fakeBackend{}
		m := newMachine(backend)
		m.Session.Values["currentPostcode"] = "SW1A 2AA"

		require.NoError(t, m.Next(context.Background()))

		assert.Equal(t, StepPostcode, m.Session.Current())
		require.Len(t, m.Session.FieldErrors, 1)
		assert.Equal(t, "currentPostcode.selectAddressRequired", m.Session.FieldErrors[0].Key)
		assert.Empty(t, backend.calls)
	})

	t.Run("SelectionAdvancesWithoutSaving", func(t *testing.T) {
		backend := &fakeBackend{}
		m := newMachine(backend)
		m.Session.Values["currentAddress"] = selectedAddress("SW1A 2AA")

		require.NoError(t, m.Next(context.Background()))

		assert.Equal(t, StepPersonalDetails, m.Session.Current())
		assert.Empty(t, m.Session.FieldErrors)
		assert.Empty(t, backend.calls)
	})

	t.Run("PreviousSectionOpenRequiresPreviousSelection", func(t *testing.T) {
		backend := &fakeBackend{}
		m := newMachine(backend)
		m.Session.Values["currentAddress"] = selectedAddress("SW1A 2AA")
		m.Session.Values["showPrevAddressFlag"] = true
		m.Session.Values["previousPostcode"] = "EC1A 1BB"

		require.NoError(t, m.Next(context.Background()))

		require.Len(t, m.Session.FieldErrors, 1)
		assert.Equal(t, "previousPostcode.selectAddressRequired", m.Session.FieldErrors[0].Key)
		assert.Empty(t, backend.calls)
	})

	t.Run("PreviousSectionOpenWithEmptyPostcodeIsRequired", func(t *testing.T) {
		m := newMachine(&fakeBackend{})
		m.Session.Values["currentAddress"] = selectedAddress("SW1A 2AA")
		m.Session.Values["showPrevAddressFlag"] = true

		require.NoError(t, m.Next(context.Background()))

		require.Len(t, m.Session.FieldErrors, 1)
		assert.Equal(t, "previousPostcode.required", m.Session.FieldErrors[0].Key)
	})
}

func TestHiddenPipeline(t *testing.T) {
	advanceToPersonalDetails := func(t *testing.T, m *Machine) {
		m.Session.Values["currentAddress"] = selectedAddress("SW1A 2AA")
		require.NoError(t, m.Next(context.Background()))
		require.Equal(t, StepPersonalDetails, m.Session.Current())
	}

	t.Run("SuccessRunsAllStagesAndReachesThankYou", func(t *testing.T) {
		backend := &fakeBackend{formID: "abc123"}
		m := newMachine(backend)
		advanceToPersonalDetails(t, m)
		m.Session.Values["signatureBase64"] = "data:image/png;base64,xyz"

		require.NoError(t, m.Next(context.Background()))

		assert.Equal(t, StatusThankYou, m.Session.Status)
		assert.Equal(t, "abc123", m.Session.FormID)
		assert.Equal(t, []string{
			"validate:personal-details",
			"validate:address-lookup",
			"save",
			"upload",
			"submit",
		}, backend.calls)
		assert.Equal(t, "http://localhost:4000/uploads/signatures/sig.jpg", m.Session.Values["signatureFileUrl"])
	})

	t.Run("PersonalDetailsErrorsStopBeforePipeline", func(t *testing.T) {
		backend := &fakeBackend{validateErrs: map[string][]schemas.FieldError{
			StepPersonalDetails: {{Field: "phone", Key: "phone.format"}},
		}}
		m := newMachine(backend)
		advanceToPersonalDetails(t, m)

		require.NoError(t, m.Next(context.Background()))

		assert.Equal(t, StatusForm, m.Session.Status)
		assert.Equal(t, StepPersonalDetails, m.Session.Current())
		assert.Equal(t, []string{"validate:personal-details"}, backend.calls)
		require.Len(t, m.Session.FieldErrors, 1)
		assert.Equal(t, "phone.format", m.Session.FieldErrors[0].Key)
	})

	t.Run("AddressStageFailureReturnsToForm", func(t *testing.T) {
		backend := &fakeBackend{validateErrs: map[string][]schemas.FieldError{
			StepAddressLookup: {{Field: "previousPostcode", Key: "previousPostcode.format"}},
		}}
		m := newMachine(backend)
		advanceToPersonalDetails(t, m)

		require.NoError(t, m.Next(context.Background()))

		assert.Equal(t, StatusForm, m.Session.Status)
		require.NotEmpty(t, m.Session.StageLog)
		last := m.Session.StageLog[len(m.Session.StageLog)-1]
		assert.Equal(t, StageValidateAddress, last.Stage)
		assert.False(t, last.OK)
		assert.NotContains(t, backend.calls, "save")
	})

	t.Run("UploadFailureIsNonFatal", func(t *testing.T) {
		backend := &fakeBackend{uploadErr: errors.New("disk full")}
		m := newMachine(backend)
		advanceToPersonalDetails(t, m)
		m.Session.Values["signatureBase64"] = "data:image/png;base64,xyz"

		require.NoError(t, m.Next(context.Background()))

		assert.Equal(t, StatusThankYou, m.Session.Status)
		assert.Contains(t, backend.calls, "submit")
	})

	t.Run("NoSignatureSkipsUploadStage", func(t *testing.T) {
		backend := &fakeBackend{}
		m := newMachine(backend)
		advanceToPersonalDetails(t, m)

		require.NoError(t, m.Next(context.Background()))

		assert.Equal(t, StatusThankYou, m.Session.Status)
		assert.NotContains(t, backend.calls, "upload")
	})

	t.Run("SubmitErrorsReturnToForm", func(t *testing.T) {
		backend := &fakeBackend{submitErrs: []schemas.FieldError{{Field: "currentAddress", Key: "currentAddress.manualRequired"}}}
		m := newMachine(backend)
		advanceToPersonalDetails(t, m)

		require.NoError(t, m.Next(context.Background()))

		assert.Equal(t, StatusForm, m.Session.Status)
		assert.Equal(t, StepPersonalDetails, m.Session.Current())
		require.Len(t, m.Session.FieldErrors, 1)
		assert.Equal(t, "currentAddress.manualRequired", m.Session.FieldErrors[0].Key)
	})
}

func TestBack(t *testing.T) {
	m := newMachine(&fakeBackend{})
	m.Session.Values["currentAddress"] = selectedAddress("SW1A 2AA")
	require.NoError(t, m.Next(context.Background()))
	require.Equal(t, StepPersonalDetails, m.Session.Current())

	m.Back()

	assert.Equal(t, StepPostcode, m.Session.Current())
	assert.True(t, m.Session.ReturningToPostcode)

	// advancing again clears the flag
	require.NoError(t, m.Next(context.Background()))
	assert.False(t, m.Session.ReturningToPostcode)

	// cannot go back past the first step
	m.Back()
	m.Back()
	assert.Equal(t, StepPostcode, m.Session.Current())
}
