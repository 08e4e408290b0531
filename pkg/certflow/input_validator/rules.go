package input_validator

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ozzo-validation rules built on the validators above. Like every string rule they skip empty
// values, so combine them with validation.Required when the field is mandatory.
var (
	SubjectField = validation.NewStringRule(IsValidSubjectField, "must contain only letters, digits, spaces and .,_@()- (max 200)")
	SAN          = validation.NewStringRule(IsValidSAN, "must be a DNS name or wildcard (max 253)")
	Hostname     = validation.NewStringRule(IsValidHostname, "must be a valid hostname (max 253)")
	ConfigString = validation.NewStringRule(IsValidConfigString, `must be a valid CA config string in "host\name" form (max 500)`)
	Thumbprint   = validation.NewStringRule(IsValidThumbprint, "must be hexadecimal")
	TemplateName = validation.NewStringRule(IsValidTemplateName, "must contain only letters, digits, spaces, hyphens and underscores")
)
