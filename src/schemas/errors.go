package schemas

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError locates one violation: the field path as the client posted
// it, plus a stable key naming the failure mode. Required-vs-format for
// the same field always yield distinct keys.
type FieldError struct {
	Field string `json:"field"`
	Key   string `json:"key"`
}

// Message returns the human sentence mapped from the key, falling back to
// the key itself for unmapped entries.
func (e FieldError) Message() string {
	return MessageForKey(e.Key)
}

// tag → key suffix. Each validator tag maps to one failure mode so the
// same field can carry distinct keys for missing vs malformed input.
var tagSuffix = map[string]string{
	"required":    "required",
	"required_if": "required",
	"oneof":       "required",
	"eq":          "required",
	"min":         "minLength",
	"max":         "tooLong",
	"alphaspace":  "invalidChars",
	"email":       "invalidFormat",
	"ukmobile":    "format",
	"ukpostcode":  "format",
	"dateparse":   "invalid",
	"adult":       "underage",
}

// fields whose error keys historically use a different prefix than their
// json name
var fieldKeyOverride = map[string]string{
	"signatureBase64": "signature",
}

func toFieldErrors(err error) []FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "field", Key: "field.invalid"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		out = append(out, FieldError{Field: field, Key: keyFor(field, fe.Tag())})
	}
	return out
}

// fieldPath strips the struct type from the namespace, leaving the json
// path ("currentAddress.house").
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func keyFor(field, tag string) string {
	// address sub-fields share one key; the client highlights the object
	if strings.HasPrefix(field, "currentAddress.") || strings.HasPrefix(field, "previousAddress.") {
		return "address.field.required"
	}
	if field == "currentAddress" {
		return "currentAddress.manualRequired"
	}
	if field == "previousAddress" {
		return "previousAddress.manualRequired"
	}

	prefix := field
	if o, ok := fieldKeyOverride[field]; ok {
		prefix = o
	}
	suffix, ok := tagSuffix[tag]
	if !ok {
		suffix = tag
	}
	return prefix + "." + suffix
}
