package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CRM delivery states. Transitions only move forward: once a delivery
// attempt has been classified, the record never drops back to pending.
const (
	CrmStatusPending = "pending"
	CrmStatusSent    = "sent"
	CrmStatusQueued  = "queued"
	CrmStatusFailed  = "failed"
)

// FormRecord is the single evolving aggregate for one lead. It is minted
// on the first persisted step and updated in place by every later call.
type FormRecord struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	AffID          string `bson:"aff_id,omitempty" json:"aff_id,omitempty"`
	OriginalAffID  string `bson:"originalAffId,omitempty" json:"originalAffId,omitempty"`
	UsedAffID      string `bson:"usedAffId,omitempty" json:"usedAffId,omitempty"`
	AffIDDefaulted bool   `bson:"affIdDefaulted" json:"affIdDefaulted"`

	Steps FormSteps     `bson:"steps,omitempty" json:"steps,omitempty"`
	Final *FinalSection `bson:"final,omitempty" json:"final,omitempty"`

	CrmStatus   string      `bson:"crmStatus,omitempty" json:"crmStatus,omitempty"`
	CrmResponse interface{} `bson:"crmResponse,omitempty" json:"crmResponse,omitempty"`

	APICredentialsUsed *APICredentialsUsed `bson:"apiCredentialsUsed,omitempty" json:"apiCredentialsUsed,omitempty"`

	Meta *Meta `bson:"meta,omitempty" json:"meta,omitempty"`

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// FormSteps holds one validated sub-document per completed step.
type FormSteps struct {
	Hello           *HelloData           `bson:"hello,omitempty" json:"hello,omitempty"`
	PersonalDetails *PersonalDetailsData `bson:"personalDetails,omitempty" json:"personalDetails,omitempty"`
	AddressLookup   *AddressLookupData   `bson:"addressLookup,omitempty" json:"addressLookup,omitempty"`
}

type HelloData struct {
	FirstName string `bson:"firstName" json:"firstName"`
}

type PersonalDetailsData struct {
	IVA             string   `bson:"iva" json:"iva"`
	Title           string   `bson:"title" json:"title"`
	FirstName       string   `bson:"firstName" json:"firstName"`
	LastName        string   `bson:"lastName" json:"lastName"`
	DOB             string   `bson:"dob" json:"dob"`
	Email           string   `bson:"email" json:"email"`
	Phone           string   `bson:"phone" json:"phone"`
	Consent         *Consent `bson:"consent,omitempty" json:"consent,omitempty"`
	SignatureBase64 string   `bson:"signatureBase64,omitempty" json:"signatureBase64,omitempty"`
}

// Consent is the expanded consent record. Raw booleans are never stored:
// an accepted consent carries the acceptance time and submitting client,
// a declined one keeps those fields null.
type Consent struct {
	Text       string     `bson:"text,omitempty" json:"text,omitempty"`
	AcceptedAt *time.Time `bson:"acceptedAt" json:"acceptedAt"`
	IP         string     `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string     `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
}

// AddressLookupData keeps previous* fields absent (not empty) when the
// user never opted into a previous address.
type AddressLookupData struct {
	CurrentPostcode  string   `bson:"currentPostcode,omitempty" json:"currentPostcode,omitempty"`
	CurrentAddress   *Address `bson:"currentAddress,omitempty" json:"currentAddress,omitempty"`
	PreviousPostcode string   `bson:"previousPostcode,omitempty" json:"previousPostcode,omitempty"`
	PreviousAddress  *Address `bson:"previousAddress,omitempty" json:"previousAddress,omitempty"`
}

// Address is produced by the lookup provider, never hand-typed beyond the
// postcode field.
type Address struct {
	House    string `bson:"house" json:"house"`
	Street   string `bson:"street" json:"street"`
	City     string `bson:"city" json:"city"`
	County   string `bson:"county,omitempty" json:"county,omitempty"`
	District string `bson:"district,omitempty" json:"district,omitempty"`
	Postcode string `bson:"postcode" json:"postcode"`
	Label    string `bson:"label,omitempty" json:"label,omitempty"`
}

type FinalSection struct {
	SignatureBase64  string     `bson:"signatureBase64,omitempty" json:"signatureBase64,omitempty"`
	SignatureFileURL string     `bson:"signatureFileUrl,omitempty" json:"signatureFileUrl,omitempty"`
	OptinURL         string     `bson:"optinurl,omitempty" json:"optinurl,omitempty"`
	SignatureTime    *time.Time `bson:"signatureTime,omitempty" json:"signatureTime,omitempty"`
	SubmittedAt      *time.Time `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
}

// APICredentialsUsed records which credentials delivered the lead. Only
// the secret reference is kept, never the secret value.
type APICredentialsUsed struct {
	APIID             string `bson:"apiId" json:"apiId"`
	APIPasswordKeyRef string `bson:"apiPasswordKeyRef" json:"apiPasswordKeyRef"`
}

type Meta struct {
	IP          string     `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent   string     `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	Source      string     `bson:"source,omitempty" json:"source,omitempty"`
	LandingTime *time.Time `bson:"landingTime,omitempty" json:"landingTime,omitempty"`
}
