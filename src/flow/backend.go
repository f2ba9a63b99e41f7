package flow

import (
	"context"

	"Backend-Claim3000/src/schemas"
	"Backend-Claim3000/src/services/forms"
	"Backend-Claim3000/src/services/uploads"
)

// ServiceBackend wires the machine to the real services.
type ServiceBackend struct {
	Meta forms.RequestMeta
}

func (b *ServiceBackend) ValidateStep(ctx context.Context, stepID, formID string, values map[string]interface{}) (string, []schemas.FieldError, error) {
	return forms.ValidateStep(ctx, stepID, formID, values, b.Meta)
}

func (b *ServiceBackend) SaveProgress(ctx context.Context, formID string, values map[string]interface{}) (string, error) {
	record, err := forms.SaveForm(ctx, formID, splitValues(values), b.Meta)
	if err != nil {
		return "", err
	}
	return record.ID.Hex(), nil
}

func (b *ServiceBackend) UploadSignature(ctx context.Context, formID, signatureBase64 string) (string, error) {
	fileURL, dataURL, err := uploads.SaveSignature(formID, signatureBase64)
	if err != nil {
		return "", err
	}
	if formID != "" {
		if err := forms.AttachSignature(ctx, formID, fileURL, dataURL); err != nil {
			return fileURL, err
		}
	}
	return fileURL, nil
}

func (b *ServiceBackend) Submit(ctx context.Context, formID string, values map[string]interface{}) ([]schemas.FieldError, error) {
	_, ferrs, err := forms.SubmitForm(ctx, formID, values, b.Meta)
	return ferrs, err
}

// splitValues partitions the flat accumulated form values into the step
// sections the save endpoint stores.
func splitValues(values map[string]interface{}) forms.SaveData {
	pick := func(keys ...string) map[string]interface{} {
		out := map[string]interface{}{}
		for _, k := range keys {
			if v, ok := values[k]; ok {
				out[k] = v
			}
		}
		return out
	}

	data := forms.SaveData{Steps: map[string]interface{}{}}
	if pd := pick("iva", "title", "firstName", "lastName", "dob", "email", "phone"); len(pd) > 0 {
		data.Steps["personalDetails"] = pd
	}
	if addr := pick("currentPostcode", "currentAddress", "previousPostcode", "previousAddress"); len(addr) > 0 {
		data.Steps["addressLookup"] = addr
	}
	return data
}
