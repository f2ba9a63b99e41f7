package schemas

import (
	"encoding/json"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// One validation contract per step. Contracts are pure: raw step input in,
// either a normalized typed value or a non-empty ordered list of field
// violations out. Error messages are stable keys (e.g. "phone.format"),
// never free text, so the presentation layer can translate them.

var (
	ukPostcodeRegex = regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]?\s*\d[A-Z]{2}$`)
	ukMobileRegex   = regexp.MustCompile(`^07\d{9}$`)
	alphaSpaceRegex = regexp.MustCompile(`^[A-Za-z ]+$`)
)

// UKPostcodeShape reports whether s looks like a UK postcode. Shared with
// the debounced lookup pre-check so malformed input never reaches the
// provider.
func UKPostcodeShape(s string) bool {
	return ukPostcodeRegex.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report json field names, not Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation("ukpostcode", func(fl validator.FieldLevel) bool {
		return ukPostcodeRegex.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("ukmobile", func(fl validator.FieldLevel) bool {
		return ukMobileRegex.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpaceRegex.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("dateparse", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		d, err := ParseDate(fl.Field().String())
		if err != nil {
			return true // dateparse reports the malformed value
		}
		minDOB := time.Now().AddDate(-18, 0, 0)
		return !d.After(minDOB)
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339}

// ParseDate accepts the date shapes the form emits (ISO date first).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		d, err := time.Parse(layout, s)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

/* ---- Step payloads ---- */

type PostcodeStep struct {
	CurrentPostcode string `json:"currentPostcode" validate:"required,ukpostcode"`
}

// HelloStep is the single-field demonstration step.
type HelloStep struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=100,alphaspace"`
}

type PersonalDetailsStep struct {
	IVA             string `json:"iva" validate:"required,oneof=Yes No"`
	Title           string `json:"title" validate:"required,oneof=Mr Mrs Miss Ms"`
	FirstName       string `json:"firstName" validate:"required,min=2,max=100,alphaspace"`
	LastName        string `json:"lastName" validate:"required,min=2,max=100,alphaspace"`
	DOB             string `json:"dob" validate:"required,dateparse,adult"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,ukmobile"`
	Consent         bool   `json:"consent" validate:"eq=true"`
	SignatureBase64 string `json:"signatureBase64" validate:"required"`
}

// AddressInput is an address object as posted by the client after a
// lookup selection. County and district stay optional; the rest must be
// present whenever the object itself is.
type AddressInput struct {
	House    string `json:"house" validate:"required"`
	Street   string `json:"street" validate:"required"`
	City     string `json:"city" validate:"required"`
	County   string `json:"county"`
	District string `json:"district"`
	Postcode string `json:"postcode" validate:"required"`
	Label    string `json:"label"`
}

type AddressLookupStep struct {
	CurrentPostcode     string        `json:"currentPostcode" validate:"required,ukpostcode"`
	CurrentAddress      *AddressInput `json:"currentAddress" validate:"omitempty"`
	ShowPrevAddressFlag bool          `json:"showPrevAddressFlag"`
	PreviousPostcode    string        `json:"previousPostcode" validate:"required_if=ShowPrevAddressFlag true,omitempty,ukpostcode"`
	PreviousAddress     *AddressInput `json:"previousAddress" validate:"omitempty"`
}

// FinalSubmitStep is the personal-details contract plus a mandatory
// signature and a mandatory current address.
type FinalSubmitStep struct {
	IVA             string `json:"iva" validate:"required,oneof=Yes No"`
	Title           string `json:"title" validate:"required,oneof=Mr Mrs Miss Ms"`
	FirstName       string `json:"firstName" validate:"required,min=2,max=100,alphaspace"`
	LastName        string `json:"lastName" validate:"required,min=2,max=100,alphaspace"`
	DOB             string `json:"dob" validate:"required,dateparse,adult"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,ukmobile"`
	Consent         bool   `json:"consent" validate:"eq=true"`
	SignatureBase64 string `json:"signatureBase64" validate:"required"`

	CurrentAddress   *AddressInput `json:"currentAddress" validate:"required"`
	PreviousAddress  *AddressInput `json:"previousAddress" validate:"omitempty"`
	CurrentPostcode  string        `json:"currentPostcode"`
	PreviousPostcode string        `json:"previousPostcode"`
	SignatureFileURL string        `json:"signatureFileUrl"`
	OptinURL         string        `json:"optinurl"`
	AffID            string        `json:"aff_id"`
}

/* ---- Registry ---- */

// Contract validates one step's raw input.
type Contract interface {
	Validate(raw map[string]interface{}) (interface{}, []FieldError)
}

type contractFunc func(raw map[string]interface{}) (interface{}, []FieldError)

func (f contractFunc) Validate(raw map[string]interface{}) (interface{}, []FieldError) {
	return f(raw)
}

// SchemaForStep resolves the contract for a step name. The second return
// is false for unknown steps; callers treat that as a client error, not a
// validation failure.
func SchemaForStep(stepID string) (Contract, bool) {
	switch stepID {
	case "postcode":
		return contractFunc(validatePostcode), true
	case "hello":
		return contractFunc(validateHello), true
	case "personal-details":
		return contractFunc(validatePersonalDetails), true
	case "address-lookup":
		return contractFunc(validateAddressLookup), true
	case "submit", "final":
		return contractFunc(validateFinalSubmit), true
	default:
		return nil, false
	}
}

func validatePostcode(raw map[string]interface{}) (interface{}, []FieldError) {
	var step PostcodeStep
	if errs := decode(raw, &step); errs != nil {
		return nil, errs
	}
	step.CurrentPostcode = normalizePostcode(step.CurrentPostcode)
	if errs := check(&step); errs != nil {
		return nil, errs
	}
	return &step, nil
}

func validateHello(raw map[string]interface{}) (interface{}, []FieldError) {
	var step HelloStep
	if errs := decode(raw, &step); errs != nil {
		return nil, errs
	}
	step.FirstName = strings.TrimSpace(step.FirstName)
	if errs := check(&step); errs != nil {
		return nil, errs
	}
	return &step, nil
}

func validatePersonalDetails(raw map[string]interface{}) (interface{}, []FieldError) {
	var step PersonalDetailsStep
	if errs := decode(raw, &step); errs != nil {
		return nil, errs
	}
	step.FirstName = strings.TrimSpace(step.FirstName)
	step.LastName = strings.TrimSpace(step.LastName)
	step.Email = strings.ToLower(strings.TrimSpace(step.Email))
	step.Phone = strings.TrimSpace(step.Phone)
	if errs := check(&step); errs != nil {
		return nil, errs
	}
	return &step, nil
}

func validateAddressLookup(raw map[string]interface{}) (interface{}, []FieldError) {
	var step AddressLookupStep
	if errs := decode(raw, &step); errs != nil {
		return nil, errs
	}
	step.CurrentPostcode = normalizePostcode(step.CurrentPostcode)
	step.PreviousPostcode = normalizePostcode(step.PreviousPostcode)
	sanitizePrevious(&step.ShowPrevAddressFlag, &step.PreviousPostcode, &step.PreviousAddress)
	if isEmptyAddress(step.CurrentAddress) {
		step.CurrentAddress = nil
	}
	if errs := check(&step); errs != nil {
		return nil, errs
	}
	return &step, nil
}

func validateFinalSubmit(raw map[string]interface{}) (interface{}, []FieldError) {
	var step FinalSubmitStep
	if errs := decode(raw, &step); errs != nil {
		return nil, errs
	}
	step.FirstName = strings.TrimSpace(step.FirstName)
	step.LastName = strings.TrimSpace(step.LastName)
	step.Email = strings.ToLower(strings.TrimSpace(step.Email))
	step.Phone = strings.TrimSpace(step.Phone)
	step.CurrentPostcode = normalizePostcode(step.CurrentPostcode)
	step.PreviousPostcode = normalizePostcode(step.PreviousPostcode)
	if isEmptyAddress(step.PreviousAddress) {
		step.PreviousAddress = nil
	}
	if isEmptyAddress(step.CurrentAddress) {
		step.CurrentAddress = nil
	}
	if errs := check(&step); errs != nil {
		return nil, errs
	}
	return &step, nil
}

func normalizePostcode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// sanitizePrevious drops the previous-address section entirely when the
// user never opted in, so downstream consumers can treat absence as "no
// previous address".
func sanitizePrevious(flag *bool, postcode *string, addr **AddressInput) {
	if isEmptyAddress(*addr) {
		*addr = nil
	}
	if !*flag {
		*postcode = ""
		*addr = nil
	}
}

func isEmptyAddress(a *AddressInput) bool {
	if a == nil {
		return true
	}
	return a.House == "" && a.Street == "" && a.City == "" &&
		a.County == "" && a.District == "" && a.Postcode == "" && a.Label == ""
}

// decode round-trips the raw map through JSON into the typed step struct.
// Extra fields (the client posts cumulative form values) are ignored.
func decode(raw map[string]interface{}, out interface{}) []FieldError {
	b, err := json.Marshal(raw)
	if err != nil {
		return []FieldError{{Field: "field", Key: "field.invalid"}}
	}
	if err := json.Unmarshal(b, out); err != nil {
		return []FieldError{{Field: "field", Key: "field.invalid"}}
	}
	return nil
}

func check(step interface{}) []FieldError {
	err := validate.Struct(step)
	if err == nil {
		return nil
	}
	return toFieldErrors(err)
}
