package csr_workflow

import (
	"fmt"

	"github.com/certflow/certflow/pkg/certflow/input_validator"
	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/storage"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Hash algorithms accepted for new CSRs. SHA1 is deliberately absent even though the gateway
// level validator accepts it.
var allowedHashAlgorithms = []interface{}{
	model.HashAlgorithmSHA256,
	model.HashAlgorithmSHA384,
	model.HashAlgorithmSHA512,
}

// ValidateCSRFields checks every field that ends up on a command line.
func ValidateCSRFields(csr model.CertificateRequest) error {
	if err := validation.ValidateStruct(&csr,
		validation.Field(&csr.CommonName, validation.Required, input_validator.SubjectField),
		validation.Field(&csr.Organization, input_validator.SubjectField),
		validation.Field(&csr.OrganizationalUnit, input_validator.SubjectField),
		validation.Field(&csr.Locality, input_validator.SubjectField),
		validation.Field(&csr.State, input_validator.SubjectField),
		validation.Field(&csr.Country, input_validator.SubjectField),
		validation.Field(&csr.SubjectAlternativeNames, validation.Each(validation.Required, input_validator.SAN)),
		validation.Field(&csr.KeySize, validation.Required, validation.In(2048, 4096)),
		validation.Field(&csr.KeyAlgorithm, validation.Required, validation.In(model.KeyAlgorithmRSA, model.KeyAlgorithmECDSA)),
		validation.Field(&csr.HashAlgorithm, validation.Required, validation.In(allowedHashAlgorithms...)),
		validation.Field(&csr.TemplateName, input_validator.TemplateName),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}

	if csr.TargetServer != nil && csr.TargetServer.Hostname != "" && !input_validator.IsValidHostname(csr.TargetServer.Hostname) {
		return fmt.Errorf("target_server: hostname is invalid%w", model.ErrInvalidParameter)
	}
	return nil
}

func ValidateCreateCSRRequest(req CreateCSRRequest) error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.CommonName, validation.Required),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}

func ValidateCSRIDRequest(requester, id string) error {
	if err := validation.Validate(id, validation.Required); err != nil {
		return fmt.Errorf("id: %s%w", err.Error(), model.ErrInvalidParameter)
	}
	if err := validation.Validate(requester, validation.Required); err != nil {
		return fmt.Errorf("requester: %s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}

func ValidateListCSRsRequest(req storage.ListCSRsRequest) error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Offset, validation.Min(0)),
		validation.Field(&req.Limit, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}
