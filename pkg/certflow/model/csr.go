package model

type CSRStatus string
type StepStatus string
type KeyAlgorithm string
type HashAlgorithm string

const (
	CSRStatusDraft     CSRStatus = "draft"
	CSRStatusPending   CSRStatus = "pending"
	CSRStatusSubmitted CSRStatus = "submitted"
	CSRStatusIssued    CSRStatus = "issued"
	CSRStatusFailed    CSRStatus = "failed"
	CSRStatusCancelled CSRStatus = "cancelled"

	StepStatusPending   StepStatus = "pending"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"

	KeyAlgorithmRSA   KeyAlgorithm = "RSA"
	KeyAlgorithmECDSA KeyAlgorithm = "ECDSA"

	HashAlgorithmSHA1   HashAlgorithm = "SHA1"
	HashAlgorithmSHA256 HashAlgorithm = "SHA256"
	HashAlgorithmSHA384 HashAlgorithm = "SHA384"
	HashAlgorithmSHA512 HashAlgorithm = "SHA512"
)

// Names of the workflow steps. The order of the slice is the order of the steps on every CSR.
const (
	StepGenerateCSR        = "Generate CSR"
	StepSubmitToCA         = "Submit to CA"
	StepInstallCertificate = "Install Certificate"
)

var WorkflowStepNames = []string{StepGenerateCSR, StepSubmitToCA, StepInstallCertificate}

type WorkflowStep struct {
	Name        string     `json:"name"`
	Status      StepStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
	CompletedAt int64      `json:"completed_at,omitempty"` // Unix Time (in second) when the step was completed.
}

// AuthorityRef is a weak reference to a CertificateAuthority with the fields needed by the workflow.
type AuthorityRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ConfigString string `json:"config_string"` // "host\caname" addressing form of the CA.
}

// ServerRef is a weak reference to a Server.
type ServerRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Hostname string `json:"hostname"`
}

type CertificateRequest struct {
	ID      string    `json:"id"`      // Unique ID of the CSR.
	Version int64     `json:"version"` // Version of the document. Incremented on every write.
	Status  CSRStatus `json:"status"`

	CommonName              string   `json:"common_name"`
	Organization            string   `json:"organization,omitempty"`
	OrganizationalUnit      string   `json:"organizational_unit,omitempty"`
	Locality                string   `json:"locality,omitempty"`
	State                   string   `json:"state,omitempty"`
	Country                 string   `json:"country,omitempty"`
	SubjectAlternativeNames []string `json:"subject_alternative_names,omitempty"`

	KeySize       int           `json:"key_size"`
	KeyAlgorithm  KeyAlgorithm  `json:"key_algorithm"`
	HashAlgorithm HashAlgorithm `json:"hash_algorithm"`
	TemplateName  string        `json:"template_name,omitempty"`

	TargetCA     *AuthorityRef `json:"target_ca,omitempty"`
	TargetServer *ServerRef    `json:"target_server,omitempty"`

	CSRPEM             string `json:"csr_pem,omitempty"`              // PEM encoded CSR. Only present after a successful generation.
	PrivateKeyLocation string `json:"private_key_location,omitempty"` // Where the generating host keeps the private key.

	CARequestID        string `json:"ca_request_id,omitempty"`        // Request ID assigned by the CA on submission.
	IssuedSerialNumber string `json:"issued_serial_number,omitempty"` // Serial number of the certificate when the CA issued it immediately.
	IssuedThumbprint   string `json:"issued_thumbprint,omitempty"`

	WorkflowSteps []WorkflowStep `json:"workflow_steps"`

	RequestedBy  string `json:"requested_by"`
	RequestedAt  int64  `json:"requested_at"` // Unix Time (in second).
	UpdatedAt    int64  `json:"updated_at"`   // Unix Time (in second).
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewWorkflowSteps returns the fixed set of steps, all pending.
func NewWorkflowSteps() []WorkflowStep {
	steps := make([]WorkflowStep, 0, len(WorkflowStepNames))
	for _, name := range WorkflowStepNames {
		steps = append(steps, WorkflowStep{Name: name, Status: StepStatusPending})
	}
	return steps
}

// Step returns the step with the given name or nil.
func (r *CertificateRequest) Step(name string) *WorkflowStep {
	for i := range r.WorkflowSteps {
		if r.WorkflowSteps[i].Name == name {
			return &r.WorkflowSteps[i]
		}
	}
	return nil
}

// MarkStep sets the status of a step. Error text is kept only for failed steps and
// CompletedAt only for completed ones.
func (r *CertificateRequest) MarkStep(name string, status StepStatus, errText string, ts int64) {
	step := r.Step(name)
	if step == nil {
		return
	}
	step.Status = status
	step.Error = ""
	step.CompletedAt = 0
	switch status {
	case StepStatusCompleted:
		step.CompletedAt = ts
	case StepStatusFailed:
		step.Error = errText
	}
}
