package csr_workflow

import (
	"fmt"
	"strings"

	"github.com/certflow/certflow/pkg/certflow/command_gateway"
	"github.com/certflow/certflow/pkg/certflow/input_validator"
	"github.com/certflow/certflow/pkg/certflow/model"
)

// SANSeparator joins the entries of the SAN attribute understood by certreq.
const SANSeparator = "&"

type subjectPart struct {
	attr  string
	value string
}

// BuildSubjectLine renders "CN=<cn>[, O=][, OU=][, L=][, S=][, C=]" in that fixed order.
// Every value must already have passed input_validator.IsValidSubjectField.
func BuildSubjectLine(csr model.CertificateRequest) (string, error) {
	parts := []subjectPart{
		{"CN", csr.CommonName},
		{"O", csr.Organization},
		{"OU", csr.OrganizationalUnit},
		{"L", csr.Locality},
		{"S", csr.State},
		{"C", csr.Country},
	}

	rendered := make([]string, 0, len(parts))
	for i, p := range parts {
		if p.value == "" {
			if i == 0 {
				return "", fmt.Errorf("common name is required%w", model.ErrInvalidParameter)
			}
			continue
		}
		if !input_validator.IsValidSubjectField(p.value) {
			return "", fmt.Errorf("subject attribute %s contains disallowed characters%w", p.attr, model.ErrInvalidParameter)
		}
		rendered = append(rendered, p.attr+"="+p.value)
	}
	return strings.Join(rendered, ", "), nil
}

// BuildSANBlock renders the SAN attribute, or "" when there are no SANs.
func BuildSANBlock(sans []string) (string, error) {
	if len(sans) == 0 {
		return "", nil
	}
	entries := make([]string, 0, len(sans))
	for _, san := range sans {
		if !input_validator.IsValidSAN(san) {
			return "", fmt.Errorf("subject alternative name %q is invalid%w", san, model.ErrInvalidParameter)
		}
		entries = append(entries, "dns="+san)
	}
	return strings.Join(entries, SANSeparator), nil
}

// buildGenerateSpec assembles the gateway call generating the CSR on the target server, or locally
// when the CSR has no target server.
func buildGenerateSpec(csr model.CertificateRequest) (command_gateway.Spec, error) {
	subject, err := BuildSubjectLine(csr)
	if err != nil {
		return command_gateway.Spec{}, err
	}
	sanBlock, err := BuildSANBlock(csr.SubjectAlternativeNames)
	if err != nil {
		return command_gateway.Spec{}, err
	}

	params := []command_gateway.Parameter{
		command_gateway.Param("Subject", subject),
		command_gateway.Param("KeyAlgorithm", string(csr.KeyAlgorithm)),
		command_gateway.Param("KeyLength", csr.KeySize),
		command_gateway.Param("HashAlgorithm", string(csr.HashAlgorithm)),
		command_gateway.Param("RequestId", csr.ID),
	}
	if sanBlock != "" {
		params = append(params, command_gateway.Param("SubjectAltNames", sanBlock))
	}
	if csr.TemplateName != "" {
		params = append(params, command_gateway.Param("TemplateName", csr.TemplateName))
	}

	spec := command_gateway.Spec{
		ScriptID:   command_gateway.ScriptGenerateCSR,
		Parameters: params,
	}
	if csr.TargetServer != nil && csr.TargetServer.Hostname != "" {
		if !input_validator.IsValidHostname(csr.TargetServer.Hostname) {
			return command_gateway.Spec{}, fmt.Errorf("target server hostname is invalid%w", model.ErrInvalidParameter)
		}
		spec.RemoteComputer = csr.TargetServer.Hostname
	}
	return spec, nil
}

func buildSubmitSpec(csr model.CertificateRequest, ca model.CertificateAuthority) (command_gateway.Spec, error) {
	if !input_validator.IsValidConfigString(ca.ConfigString) {
		return command_gateway.Spec{}, fmt.Errorf("CA config string is invalid%w", model.ErrInvalidParameter)
	}

	params := []command_gateway.Parameter{
		command_gateway.Param("ConfigString", ca.ConfigString),
		command_gateway.Param("CsrPem", csr.CSRPEM),
	}
	if csr.TemplateName != "" {
		if !input_validator.IsValidTemplateName(csr.TemplateName) {
			return command_gateway.Spec{}, fmt.Errorf("template name is invalid%w", model.ErrInvalidParameter)
		}
		params = append(params, command_gateway.Param("TemplateName", csr.TemplateName))
	}

	return command_gateway.Spec{
		ScriptID:   command_gateway.ScriptSubmitCSR,
		Parameters: params,
	}, nil
}
