package schemas

// Human sentences per error key. Kept apart from validation logic so copy
// changes never touch the contracts.
var messages = map[string]string{
	"iva.required":   "Please tell us whether you've had an IVA or bankruptcy.",
	"title.required": "Please choose a title (Mr / Mrs / Miss / Ms).",

	"firstName.required":     "Please enter your first name.",
	"firstName.minLength":    "First name must be at least 2 letters.",
	"firstName.invalidChars": "First name may only contain letters and spaces.",
	"firstName.tooLong":      "First name is too long.",
	"lastName.required":      "Please enter your last name.",
	"lastName.minLength":     "Last name must be at least 2 letters.",
	"lastName.invalidChars":  "Last name may only contain letters and spaces.",
	"lastName.tooLong":       "Last name is too long.",

	"dob.required": "Please enter your date of birth.",
	"dob.invalid":  "Please enter a valid date.",
	"dob.underage": "You must be 18 or older to continue.",

	"email.required":      "Please enter your email address.",
	"email.invalidFormat": "Please enter a valid email address (example@domain.com).",

	"phone.required": "Please enter your mobile number.",
	"phone.format":   "Enter a UK mobile number starting with 07 and 11 digits (e.g. 07123 456789).",

	"consent.required":   "You must accept to continue.",
	"signature.required": "Please sign in the box to continue.",

	"currentPostcode.required":              "Please enter your postcode.",
	"currentPostcode.format":                "Please enter a valid UK postcode.",
	"currentPostcode.lookupNoResults":       "No addresses found for that postcode. Enter your address manually.",
	"currentPostcode.lookupFailed":          "Address lookup failed. Please try again.",
	"currentPostcode.selectAddressRequired": "Please select your address from the list.",

	"previousPostcode.required":              "Please fill the previous postcode or remove the previous address.",
	"previousPostcode.format":                "Please enter a valid UK postcode.",
	"previousPostcode.lookupNoResults":       "No addresses found for that postcode. Enter your address manually.",
	"previousPostcode.lookupFailed":          "Address lookup failed. Please try again.",
	"previousPostcode.selectAddressRequired": "Please select the previous address from the list.",

	"currentAddress.manualRequired":  "Please enter your address.",
	"previousAddress.manualRequired": "Please enter the previous address or remove the previous address field.",
	"address.field.required":         "Please complete the highlighted address fields.",

	"field.required": "This field is required.",
	"field.tooLong":  "Too long. Please shorten this field.",
	"field.invalid":  "Invalid value. Please check and try again.",
}

// MessageForKey maps a stable error key to its human sentence. Unknown
// keys come back verbatim so new keys degrade visibly, not silently.
func MessageForKey(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}
