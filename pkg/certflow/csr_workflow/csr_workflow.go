package csr_workflow

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/certflow/certflow/pkg/certflow/command_gateway"
	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/storage"
	"github.com/certflow/certflow/pkg/pkix"
	"github.com/certflow/certflow/pkg/util"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultKeySize       = 2048
	DefaultKeyAlgorithm  = model.KeyAlgorithmRSA
	DefaultHashAlgorithm = model.HashAlgorithmSHA256
)

// Dispositions reported by the submit script.
const (
	DispositionIssued  = "issued"
	DispositionPending = "pending"
	DispositionDenied  = "denied"
	DispositionError   = "error"
)

type CSRWorkflow interface {
	CreateCSR(ctx context.Context, ts int64, req CreateCSRRequest) (model.CertificateRequest, error)
	GetCSR(ctx context.Context, id string) (model.CertificateRequest, error)
	ListCSRs(ctx context.Context, req storage.ListCSRsRequest) (storage.ListCSRsResponse, error)
	UpdateCSR(ctx context.Context, ts int64, req UpdateCSRRequest) (model.CertificateRequest, error)
	DeleteCSR(ctx context.Context, req CSRIDRequest) error

	// GenerateCSR asks the target server (or the local host) to create the key pair and the CSR.
	// A gateway failure is persisted on the CSR (status failed) and returned.
	GenerateCSR(ctx context.Context, ts int64, req CSRIDRequest) (model.CertificateRequest, error)
	// SubmitCSR hands the generated CSR to the target CA.
	SubmitCSR(ctx context.Context, ts int64, req CSRIDRequest) (model.CertificateRequest, error)
	CancelCSR(ctx context.Context, ts int64, req CSRIDRequest) (model.CertificateRequest, error)
}

type CreateCSRRequest struct {
	Requester string `json:"requester"` // Who makes the request.

	CommonName              string   `json:"common_name"`
	Organization            string   `json:"organization"`
	OrganizationalUnit      string   `json:"organizational_unit"`
	Locality                string   `json:"locality"`
	State                   string   `json:"state"`
	Country                 string   `json:"country"`
	SubjectAlternativeNames []string `json:"subject_alternative_names"`

	KeySize       int                 `json:"key_size"`       // Defaults to 2048.
	KeyAlgorithm  model.KeyAlgorithm  `json:"key_algorithm"`  // Defaults to RSA.
	HashAlgorithm model.HashAlgorithm `json:"hash_algorithm"` // Defaults to SHA256.
	TemplateName  string              `json:"template_name"`

	TargetCAID     string `json:"target_ca_id"`
	TargetServerID string `json:"target_server_id"`
}

// UpdateCSRRequest carries the editable fields of a draft CSR. Nil fields are left untouched.
// An empty TargetCAID or TargetServerID clears the reference.
type UpdateCSRRequest struct {
	Requester string `json:"requester"`
	ID        string `json:"id"`

	CommonName              *string   `json:"common_name"`
	Organization            *string   `json:"organization"`
	OrganizationalUnit      *string   `json:"organizational_unit"`
	Locality                *string   `json:"locality"`
	State                   *string   `json:"state"`
	Country                 *string   `json:"country"`
	SubjectAlternativeNames *[]string `json:"subject_alternative_names"`

	KeySize       *int                 `json:"key_size"`
	KeyAlgorithm  *model.KeyAlgorithm  `json:"key_algorithm"`
	HashAlgorithm *model.HashAlgorithm `json:"hash_algorithm"`
	TemplateName  *string              `json:"template_name"`

	TargetCAID     *string `json:"target_ca_id"`
	TargetServerID *string `json:"target_server_id"`
}

type CSRIDRequest struct {
	Requester string `json:"requester"`
	ID        string `json:"id"`
}

// GenerateOutput is the JSON document printed by the generate-csr script.
type GenerateOutput struct {
	CSRPEM             string `json:"csrPem"`
	PrivateKeyLocation string `json:"privateKeyLocation"`
}

// SubmitOutput is the JSON document printed by the submit-csr script.
type SubmitOutput struct {
	RequestID      string `json:"requestId"`
	Disposition    string `json:"disposition"`
	Message        string `json:"message"`
	CertificatePEM string `json:"certificatePem"`
}

type _CSRWorkflow struct {
	storage storage.CSRStorage
	gateway command_gateway.Gateway

	transitionCount metric.Int64Counter
}

func NewCSRWorkflow(csrStorage storage.CSRStorage, gateway command_gateway.Gateway) *_CSRWorkflow {
	return &_CSRWorkflow{
		storage:         csrStorage,
		gateway:         gateway,
		transitionCount: otlp_util.NewInt64Counter("certflow.csr_workflow.transition.count", metric.WithDescription("The total number of CSR workflow transitions")),
	}
}

func (w *_CSRWorkflow) CreateCSR(ctx context.Context, ts int64, req CreateCSRRequest) (model.CertificateRequest, error) {
	if err := ValidateCreateCSRRequest(req); err != nil {
		return model.CertificateRequest{}, err
	}

	csr := model.CertificateRequest{
		ID:                      util.NewUUID(),
		Version:                 1,
		Status:                  model.CSRStatusDraft,
		CommonName:              req.CommonName,
		Organization:            req.Organization,
		OrganizationalUnit:      req.OrganizationalUnit,
		Locality:                req.Locality,
		State:                   req.State,
		Country:                 req.Country,
		SubjectAlternativeNames: req.SubjectAlternativeNames,
		KeySize:                 req.KeySize,
		KeyAlgorithm:            req.KeyAlgorithm,
		HashAlgorithm:           req.HashAlgorithm,
		TemplateName:            req.TemplateName,
		WorkflowSteps:           model.NewWorkflowSteps(),
		RequestedBy:             req.Requester,
		RequestedAt:             ts,
		UpdatedAt:               ts,
	}
	if csr.KeySize == 0 {
		csr.KeySize = DefaultKeySize
	}
	if csr.KeyAlgorithm == "" {
		csr.KeyAlgorithm = DefaultKeyAlgorithm
	}
	if csr.HashAlgorithm == "" {
		csr.HashAlgorithm = DefaultHashAlgorithm
	}
	if err := ValidateCSRFields(csr); err != nil {
		return model.CertificateRequest{}, err
	}

	tx, ctx, err := w.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return model.CertificateRequest{}, err
	}
	defer tx.Rollback(ctx)

	if err := w.resolveTargets(ctx, tx, &csr, req.TargetCAID, req.TargetServerID); err != nil {
		return model.CertificateRequest{}, err
	}
	if err := ValidateCSRFields(csr); err != nil {
		return model.CertificateRequest{}, err
	}
	if err := w.storage.AddCSR(ctx, tx, csr); err != nil {
		return model.CertificateRequest{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.CertificateRequest{}, err
	}

	w.countTransition(ctx, "create", true)
	return csr, nil
}

func (w *_CSRWorkflow) GetCSR(ctx context.Context, id string) (model.CertificateRequest, error) {
	if id == "" {
		return model.CertificateRequest{}, fmt.Errorf("id is required%w", model.ErrInvalidParameter)
	}

	tx, ctx, err := w.storage.CreateTx(ctx)
	if err != nil {
		return model.CertificateRequest{}, err
	}
	defer tx.Rollback(ctx)

	return w.storage.GetCSR(ctx, tx, id)
}

func (w *_CSRWorkflow) ListCSRs(ctx context.Context, req storage.ListCSRsRequest) (storage.ListCSRsResponse, error) {
	if err := ValidateListCSRsRequest(req); err != nil {
		return storage.ListCSRsResponse{}, err
	}

	tx, ctx, err := w.storage.CreateTx(ctx)
	if err != nil {
		return storage.ListCSRsResponse{}, err
	}
	defer tx.Rollback(ctx)

	return w.storage.ListCSRs(ctx, tx, req)
}

func (w *_CSRWorkflow) UpdateCSR(ctx context.Context, ts int64, req UpdateCSRRequest) (model.CertificateRequest, error) {
	if err := ValidateCSRIDRequest(req.Requester, req.ID); err != nil {
		return model.CertificateRequest{}, err
	}

	tx, ctx, err := w.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return model.CertificateRequest{}, err
	}
	defer tx.Rollback(ctx)

	csr, err := w.storage.GetCSR(ctx, tx, req.ID)
	if err != nil {
		return model.CertificateRequest{}, err
	}
	if csr.Status != model.CSRStatusDraft {
		return model.CertificateRequest{}, fmt.Errorf("certificate request %s is %s, only drafts can be edited%w", csr.ID, csr.Status, model.ErrWrongStatus)
	}

	applyUpdate(&csr, req)
	targetCAID, targetServerID := currentTargetIDs(csr)
	if req.TargetCAID != nil {
		targetCAID = *req.TargetCAID
	}
	if req.TargetServerID != nil {
		targetServerID = *req.TargetServerID
	}
	if err := w.resolveTargets(ctx, tx, &csr, targetCAID, targetServerID); err != nil {
		return model.CertificateRequest{}, err
	}
	if err := ValidateCSRFields(csr); err != nil {
		return model.CertificateRequest{}, err
	}

	csr.Version += 1
	csr.UpdatedAt = ts
	if err := w.storage.UpdateCSR(ctx, tx, csr); err != nil {
		return model.CertificateRequest{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.CertificateRequest{}, err
	}

	w.countTransition(ctx, "update", true)
	return csr, nil
}

func (w *_CSRWorkflow) DeleteCSR(ctx context.Context, req CSRIDRequest) error {
	if err := ValidateCSRIDRequest(req.Requester, req.ID); err != nil {
		return err
	}

	tx, ctx, err := w.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	csr, err := w.storage.GetCSR(ctx, tx, req.ID)
	if err != nil {
		return err
	}
	if csr.Status == model.CSRStatusSubmitted {
		return model.ErrCSRSubmittedNotDeletable
	}
	if err := w.storage.DeleteCSR(ctx, tx, csr.ID, csr.Version); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	logrus.Infof("certificate request %s deleted by %s", csr.ID, req.Requester)
	w.countTransition(ctx, "delete", true)
	return nil
}

func (w *_CSRWorkflow) CancelCSR(ctx context.Context, ts int64, req CSRIDRequest) (model.CertificateRequest, error) {
	if err := ValidateCSRIDRequest(req.Requester, req.ID); err != nil {
		return model.CertificateRequest{}, err
	}

	tx, ctx, err := w.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return model.CertificateRequest{}, err
	}
	defer tx.Rollback(ctx)

	csr, err := w.storage.GetCSR(ctx, tx, req.ID)
	if err != nil {
		return model.CertificateRequest{}, err
	}
	switch csr.Status {
	case model.CSRStatusDraft, model.CSRStatusPending, model.CSRStatusFailed:
	default:
		return model.CertificateRequest{}, fmt.Errorf("certificate request %s is %s and cannot be cancelled%w", csr.ID, csr.Status, model.ErrWrongStatus)
	}

	csr.Status = model.CSRStatusCancelled
	csr.Version += 1
	csr.UpdatedAt = ts
	if err := w.storage.UpdateCSR(ctx, tx, csr); err != nil {
		return model.CertificateRequest{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.CertificateRequest{}, err
	}

	w.countTransition(ctx, "cancel", true)
	return csr, nil
}

func (w *_CSRWorkflow) GenerateCSR(ctx context.Context, ts int64, req CSRIDRequest) (model.CertificateRequest, error) {
	ctx, span := otlp_util.Start(ctx, "certflow/csr_workflow.GenerateCSR", trace.WithAttributes(attribute.String("csr_id", req.ID)))
	defer span.End()

	if err := ValidateCSRIDRequest(req.Requester, req.ID); err != nil {
		return model.CertificateRequest{}, err
	}

	csr, err := w.loadCSR(ctx, req.ID)
	if err != nil {
		return model.CertificateRequest{}, err
	}
	if csr.Status != model.CSRStatusDraft && csr.Status != model.CSRStatusPending {
		return model.CertificateRequest{}, fmt.Errorf("certificate request %s is %s and cannot be generated%w", csr.ID, csr.Status, model.ErrWrongStatus)
	}
	if err := ValidateCSRFields(csr); err != nil {
		return model.CertificateRequest{}, err
	}
	spec, err := buildGenerateSpec(csr)
	if err != nil {
		return model.CertificateRequest{}, err
	}

	// Once the script is started only the gateway timeout stops it, and its outcome is always stored.
	ctx = context.WithoutCancel(ctx)
	result, execErr := w.gateway.Execute(ctx, spec)
	var output GenerateOutput
	if execErr == nil {
		output, execErr = ParseGenerateOutput(result.Output)
	}

	csr.Version += 1
	csr.UpdatedAt = ts
	if execErr != nil {
		detail := failureDetail(result, execErr)
		csr.Status = model.CSRStatusFailed
		csr.ErrorMessage = detail
		csr.CSRPEM = ""
		csr.PrivateKeyLocation = ""
		csr.MarkStep(model.StepGenerateCSR, model.StepStatusFailed, detail, ts)
	} else {
		csr.Status = model.CSRStatusPending
		csr.CSRPEM = output.CSRPEM
		csr.PrivateKeyLocation = output.PrivateKeyLocation
		csr.MarkStep(model.StepGenerateCSR, model.StepStatusCompleted, "", ts)
	}

	if err := w.saveCSR(ctx, csr); err != nil {
		return model.CertificateRequest{}, err
	}

	w.countTransition(ctx, "generate", execErr == nil)
	if execErr != nil {
		logrus.Warnf("certificate request %s: CSR generation failed: %v", csr.ID, execErr)
		span.SetStatus(codes.Error, execErr.Error())
		return model.CertificateRequest{}, fmt.Errorf("generate certificate request %s: %w", csr.ID, execErr)
	}
	return csr, nil
}

func (w *_CSRWorkflow) SubmitCSR(ctx context.Context, ts int64, req CSRIDRequest) (model.CertificateRequest, error) {
	ctx, span := otlp_util.Start(ctx, "certflow/csr_workflow.SubmitCSR", trace.WithAttributes(attribute.String("csr_id", req.ID)))
	defer span.End()

	if err := ValidateCSRIDRequest(req.Requester, req.ID); err != nil {
		return model.CertificateRequest{}, err
	}

	csr, ca, err := w.loadSubmittable(ctx, req.ID)
	if err != nil {
		return model.CertificateRequest{}, err
	}
	spec, err := buildSubmitSpec(csr, ca)
	if err != nil {
		return model.CertificateRequest{}, err
	}

	ctx = context.WithoutCancel(ctx)
	result, execErr := w.gateway.Execute(ctx, spec)
	var output SubmitOutput
	if execErr == nil {
		output, execErr = ParseSubmitOutput(result.Output)
	}

	csr.Version += 1
	csr.UpdatedAt = ts
	if execErr != nil {
		detail := failureDetail(result, execErr)
		csr.Status = model.CSRStatusFailed
		csr.ErrorMessage = detail
		csr.MarkStep(model.StepSubmitToCA, model.StepStatusFailed, detail, ts)
	} else {
		csr.Status = model.CSRStatusSubmitted
		csr.CARequestID = output.RequestID
		csr.MarkStep(model.StepSubmitToCA, model.StepStatusCompleted, "", ts)
		if output.CertificatePEM != "" && recordIssuedCertificate(&csr, output.CertificatePEM) {
			csr.Status = model.CSRStatusIssued
		}
	}

	if err := w.saveCSR(ctx, csr); err != nil {
		return model.CertificateRequest{}, err
	}

	w.countTransition(ctx, "submit", execErr == nil)
	if execErr != nil {
		logrus.Warnf("certificate request %s: submission to %s failed: %v", csr.ID, ca.Name, execErr)
		span.SetStatus(codes.Error, execErr.Error())
		return model.CertificateRequest{}, fmt.Errorf("submit certificate request %s: %w", csr.ID, execErr)
	}
	logrus.Infof("certificate request %s submitted to %s as request %s (%s)", csr.ID, ca.Name, output.RequestID, output.Disposition)
	return csr, nil
}

// ParseGenerateOutput decodes the generate-csr output and checks the returned CSR.
func ParseGenerateOutput(raw string) (GenerateOutput, error) {
	var output GenerateOutput
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &output); err != nil {
		return GenerateOutput{}, fmt.Errorf("%s: %w", err.Error(), model.ErrMalformedCommandOutput)
	}
	if output.CSRPEM == "" {
		return GenerateOutput{}, fmt.Errorf("no CSR in output: %w", model.ErrMalformedCommandOutput)
	}
	if _, err := pkix.ParseCertificateRequest([]byte(output.CSRPEM)); err != nil {
		return GenerateOutput{}, fmt.Errorf("generated CSR is invalid: %s: %w", err.Error(), model.ErrMalformedCommandOutput)
	}
	return output, nil
}

// ParseSubmitOutput decodes the submit-csr output. Denied and errored submissions are failures.
func ParseSubmitOutput(raw string) (SubmitOutput, error) {
	var output SubmitOutput
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &output); err != nil {
		return SubmitOutput{}, fmt.Errorf("%s: %w", err.Error(), model.ErrMalformedCAOutput)
	}

	switch strings.ToLower(output.Disposition) {
	case DispositionIssued, DispositionPending:
	case DispositionDenied, DispositionError:
		msg := output.Message
		if msg == "" {
			msg = "request " + output.Disposition
		}
		return output, fmt.Errorf("CA refused the request: %s%w", msg, model.ErrGateway)
	default:
		return SubmitOutput{}, fmt.Errorf("unknown disposition %q: %w", output.Disposition, model.ErrMalformedCAOutput)
	}
	if output.RequestID == "" {
		return SubmitOutput{}, fmt.Errorf("no request ID in output: %w", model.ErrMalformedCAOutput)
	}
	return output, nil
}

// recordIssuedCertificate links the certificate returned by the CA to csr. It reports false when
// the PEM cannot be parsed, in which case the certificate is picked up by the next sync.
func recordIssuedCertificate(csr *model.CertificateRequest, certPEM string) bool {
	certs, err := pkix.ParseCertificate([]byte(certPEM))
	if err != nil {
		logrus.Warnf("certificate request %s: cannot parse the issued certificate: %v", csr.ID, err)
		return false
	}
	csr.IssuedSerialNumber = pkix.SerialNumber(&certs[0])
	csr.IssuedThumbprint = pkix.Thumbprint(&certs[0])
	return true
}

func failureDetail(result command_gateway.Result, err error) string {
	if detail := strings.TrimSpace(result.Error); detail != "" && !result.Success {
		return detail
	}
	return err.Error()
}

func (w *_CSRWorkflow) loadCSR(ctx context.Context, id string) (model.CertificateRequest, error) {
	tx, ctx, err := w.storage.CreateTx(ctx)
	if err != nil {
		return model.CertificateRequest{}, err
	}
	defer tx.Rollback(ctx)

	return w.storage.GetCSR(ctx, tx, id)
}

// loadSubmittable returns the CSR and the current record of its target CA.
func (w *_CSRWorkflow) loadSubmittable(ctx context.Context, id string) (model.CertificateRequest, model.CertificateAuthority, error) {
	tx, ctx, err := w.storage.CreateTx(ctx)
	if err != nil {
		return model.CertificateRequest{}, model.CertificateAuthority{}, err
	}
	defer tx.Rollback(ctx)

	csr, err := w.storage.GetCSR(ctx, tx, id)
	if err != nil {
		return model.CertificateRequest{}, model.CertificateAuthority{}, err
	}
	if csr.Status != model.CSRStatusPending {
		return model.CertificateRequest{}, model.CertificateAuthority{}, fmt.Errorf("certificate request %s is %s and cannot be submitted%w", csr.ID, csr.Status, model.ErrWrongStatus)
	}
	if csr.CSRPEM == "" {
		return model.CertificateRequest{}, model.CertificateAuthority{}, fmt.Errorf("certificate request %s has not been generated%w", csr.ID, model.ErrWrongStatus)
	}
	if csr.TargetCA == nil || csr.TargetCA.ID == "" {
		return model.CertificateRequest{}, model.CertificateAuthority{}, fmt.Errorf("certificate request %s has no target CA%w", csr.ID, model.ErrWrongStatus)
	}

	ca, err := w.storage.GetAuthority(ctx, tx, csr.TargetCA.ID)
	if err != nil {
		return model.CertificateRequest{}, model.CertificateAuthority{}, err
	}
	return csr, ca, nil
}

func (w *_CSRWorkflow) saveCSR(ctx context.Context, csr model.CertificateRequest) error {
	tx, ctx, err := w.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := w.storage.UpdateCSR(ctx, tx, csr); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (w *_CSRWorkflow) resolveTargets(ctx context.Context, tx storage.Tx, csr *model.CertificateRequest, caID, serverID string) error {
	csr.TargetCA = nil
	if caID != "" {
		ca, err := w.storage.GetAuthority(ctx, tx, caID)
		if err != nil {
			return fmt.Errorf("target CA %q: %s%w", caID, err.Error(), model.ErrInvalidParameter)
		}
		ref := ca.Ref()
		csr.TargetCA = &ref
	}

	csr.TargetServer = nil
	if serverID != "" {
		server, err := w.storage.GetServer(ctx, tx, serverID)
		if err != nil {
			return fmt.Errorf("target server %q: %s%w", serverID, err.Error(), model.ErrInvalidParameter)
		}
		ref := server.Ref()
		csr.TargetServer = &ref
	}
	return nil
}

func (w *_CSRWorkflow) countTransition(ctx context.Context, transition string, success bool) {
	if w.transitionCount == nil {
		return
	}
	w.transitionCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("transition", transition),
		attribute.Bool("success", success),
	))
}

func currentTargetIDs(csr model.CertificateRequest) (caID, serverID string) {
	if csr.TargetCA != nil {
		caID = csr.TargetCA.ID
	}
	if csr.TargetServer != nil {
		serverID = csr.TargetServer.ID
	}
	return caID, serverID
}

func applyUpdate(csr *model.CertificateRequest, req UpdateCSRRequest) {
	if req.CommonName != nil {
		csr.CommonName = *req.CommonName
	}
	if req.Organization != nil {
		csr.Organization = *req.Organization
	}
	if req.OrganizationalUnit != nil {
		csr.OrganizationalUnit = *req.OrganizationalUnit
	}
	if req.Locality != nil {
		csr.Locality = *req.Locality
	}
	if req.State != nil {
		csr.State = *req.State
	}
	if req.Country != nil {
		csr.Country = *req.Country
	}
	if req.SubjectAlternativeNames != nil {
		csr.SubjectAlternativeNames = *req.SubjectAlternativeNames
	}
	if req.KeySize != nil {
		csr.KeySize = *req.KeySize
	}
	if req.KeyAlgorithm != nil {
		csr.KeyAlgorithm = *req.KeyAlgorithm
	}
	if req.HashAlgorithm != nil {
		csr.HashAlgorithm = *req.HashAlgorithm
	}
	if req.TemplateName != nil {
		csr.TemplateName = *req.TemplateName
	}
}
