package crm

import (
	"Backend-Claim3000/src/models"
	"Backend-Claim3000/src/schemas"
	"Backend-Claim3000/src/utils"
)

// BuildLeadPayload flattens a Form Record into the exact flat field set
// the CRM expects. Every key the CRM schema requires is present with an
// empty-string fallback; nothing here ever panics on missing source data.
// Credentials are attached later by the delivery service, never here.
func BuildLeadPayload(form *models.FormRecord) map[string]interface{} {
	pd := form.Steps.PersonalDetails
	if pd == nil {
		pd = &models.PersonalDetailsData{}
	}
	lookup := form.Steps.AddressLookup
	if lookup == nil {
		lookup = &models.AddressLookupData{}
	}
	fin := form.Final
	if fin == nil {
		fin = &models.FinalSection{}
	}
	meta := form.Meta
	if meta == nil {
		meta = &models.Meta{}
	}

	current := lookup.CurrentAddress
	if current == nil {
		current = &models.Address{}
	}
	previous := lookup.PreviousAddress
	if previous == nil {
		previous = &models.Address{}
	}

	var dobParts utils.DOBParts
	if d, err := schemas.ParseDate(pd.DOB); err == nil {
		dobParts = utils.SplitDOB(d)
	}

	ua := utils.ParseUserAgent(meta.UserAgent)

	signature := fin.SignatureBase64
	if signature == "" {
		signature = pd.SignatureBase64
	}

	affID := form.UsedAffID
	if affID == "" {
		affID = form.AffID
	}

	var landingTime, signatureTime, submissionTime string
	if meta.LandingTime != nil {
		landingTime = utils.FormatCRMTime(*meta.LandingTime)
	}
	if fin.SignatureTime != nil {
		signatureTime = utils.FormatCRMTime(*fin.SignatureTime)
	}
	if fin.SubmittedAt != nil {
		submissionTime = utils.FormatCRMTime(*fin.SubmittedAt)
	}

	return map[string]interface{}{
		"ProductId": 329,
		"productId": 329,
		"price":     0,

		"email":       pd.Email,
		"phoneNumber": pd.Phone,
		"title":       pd.Title,
		"firstName":   pd.FirstName,
		"lastName":    pd.LastName,

		"houseNo":  current.House,
		"address1": current.Street,
		"address2": current.District,
		"postCode": firstNonEmpty(current.Postcode, lookup.CurrentPostcode),
		"city":     current.City,
		"county":   current.County,

		"dateOfBirth": pd.DOB,
		"dob":         dobParts.Formatted,
		"dob_day":     dobParts.Day,
		"dob_month":   dobParts.Month,
		"dob_year":    dobParts.Year,

		"creditReportPdf": "Not Found",

		"signature":        signature,
		"signatureFileUrl": fin.SignatureFileURL,

		"prev_houseNo":          previous.House,
		"prev_address1":         previous.Street,
		"prev_address_city":     previous.City,
		"prev_address_county":   previous.County,
		"prev_address_postcode": firstNonEmpty(previous.Postcode, lookup.PreviousPostcode),

		"fullAddressCurrent":  fullAddress(current, lookup.CurrentPostcode),
		"fullAddressPrevious": fullAddress(previous, lookup.PreviousPostcode),

		"userIp":      meta.IP,
		"userAgent":   meta.UserAgent,
		"userBrowser": ua.Browser,
		"userDevice":  ua.Device,
		"userOs":      ua.OS,

		"iva":    pd.IVA,
		"buyer":  "CLAIM3000",
		"optinurl": fin.OptinURL,
		"aff_id": affID,

		"landingTime":    landingTime,
		"signatureTime":  signatureTime,
		"submissionTime": submissionTime,
	}
}

// fullAddress composes the human-readable address line the CRM displays.
func fullAddress(a *models.Address, fallbackPostcode string) string {
	parts := []string{a.House, a.Street, a.City, firstNonEmpty(a.Postcode, fallbackPostcode)}
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
