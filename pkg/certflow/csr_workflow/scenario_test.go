package csr_workflow_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/certflow/certflow/pkg/certflow/command_gateway"
	"github.com/certflow/certflow/pkg/certflow/csr_workflow"
	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/storage/memory"
	"github.com/certflow/certflow/pkg/pkix"
	"github.com/certflow/certflow/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGateway answers with canned output per script and records the specs it saw.
type scriptedGateway struct {
	outputs map[string]string
	failing map[string]string
	specs   []command_gateway.Spec

	// running is called while a script runs, with the context the script runs on.
	running func(ctx context.Context)
}

func (g *scriptedGateway) Execute(ctx context.Context, spec command_gateway.Spec) (command_gateway.Result, error) {
	g.specs = append(g.specs, spec)
	if g.running != nil {
		g.running(ctx)
	}
	if detail, ok := g.failing[spec.ScriptID]; ok {
		return command_gateway.Result{Error: detail, ExitCode: 1}, command_gateway.ErrCommandFailed
	}
	return command_gateway.Result{Success: true, Output: g.outputs[spec.ScriptID]}, nil
}

func newScenarioStorage() *memory.Storage {
	store := memory.NewStorage()
	store.PutAuthority(model.CertificateAuthority{ID: "ca-1", Name: "Contoso Issuing CA", ConfigString: `ca01.contoso.local\Contoso-Issuing-CA`, SyncEnabled: true})
	store.PutServer(model.Server{ID: "srv-1", Name: "web01", Hostname: "web01.contoso.local"})
	return store
}

func assertCSRInvariants(t *testing.T, csr model.CertificateRequest) {
	t.Helper()
	require.Len(t, csr.WorkflowSteps, len(model.WorkflowStepNames))
	for i, name := range model.WorkflowStepNames {
		assert.Equal(t, name, csr.WorkflowSteps[i].Name)
	}
	generated := csr.Step(model.StepGenerateCSR).Status == model.StepStatusCompleted
	assert.Equal(t, generated, csr.CSRPEM != "", "CSR PEM must exist exactly when the generate step is completed")
	if csr.Status == model.CSRStatusSubmitted || csr.Status == model.CSRStatusIssued {
		assert.NotEmpty(t, csr.CSRPEM)
		assert.NotNil(t, csr.TargetCA)
	}
	if csr.Status == model.CSRStatusIssued {
		assert.NotEmpty(t, csr.IssuedSerialNumber)
		assert.NotEmpty(t, csr.IssuedThumbprint)
	}
}

func TestCSRLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newScenarioStorage()
	gateway := &scriptedGateway{
		outputs: map[string]string{
			command_gateway.ScriptGenerateCSR: generateOutput(t, newCSRPEM(t, "web01.contoso.com")),
			command_gateway.ScriptSubmitCSR:   `{"requestId":"5001","disposition":"pending","message":"Taken Under Submission"}`,
		},
	}
	workflow := csr_workflow.NewCSRWorkflow(store, gateway)
	ts := time.Now().Unix()

	csr, err := workflow.CreateCSR(ctx, ts, csr_workflow.CreateCSRRequest{
		Requester:               "alice",
		CommonName:              "web01.contoso.com",
		SubjectAlternativeNames: []string{"web01.contoso.com"},
		TargetCAID:              "ca-1",
		TargetServerID:          "srv-1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.CSRStatusDraft, csr.Status)
	assertCSRInvariants(t, csr)

	csr, err = workflow.GenerateCSR(ctx, ts+1, csr_workflow.CSRIDRequest{Requester: "alice", ID: csr.ID})
	require.NoError(t, err)
	assert.Equal(t, model.CSRStatusPending, csr.Status)
	assertCSRInvariants(t, csr)
	assert.Equal(t, "web01.contoso.local", gateway.specs[0].RemoteComputer)

	_, err = workflow.UpdateCSR(ctx, ts+2, csr_workflow.UpdateCSRRequest{Requester: "alice", ID: csr.ID, Organization: util.Ptr("Contoso")})
	require.ErrorIs(t, err, model.ErrWrongStatus)

	csr, err = workflow.SubmitCSR(ctx, ts+3, csr_workflow.CSRIDRequest{Requester: "alice", ID: csr.ID})
	require.NoError(t, err)
	assert.Equal(t, model.CSRStatusSubmitted, csr.Status)
	assert.Equal(t, "5001", csr.CARequestID)
	assert.Empty(t, csr.IssuedSerialNumber)
	assertCSRInvariants(t, csr)
	assert.Empty(t, gateway.specs[1].RemoteComputer)

	err = workflow.DeleteCSR(ctx, csr_workflow.CSRIDRequest{Requester: "alice", ID: csr.ID})
	require.ErrorIs(t, err, model.ErrCSRSubmittedNotDeletable)

	_, err = workflow.GenerateCSR(ctx, ts+4, csr_workflow.CSRIDRequest{Requester: "alice", ID: csr.ID})
	require.ErrorIs(t, err, model.ErrWrongStatus)

	stored, err := workflow.GetCSR(ctx, csr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CSRStatusSubmitted, stored.Status)
	assert.Equal(t, csr.WorkflowSteps, stored.WorkflowSteps)
	assert.Equal(t, int64(3), stored.Version)
}

func TestCSRLifecycleIssuedOnSubmit(t *testing.T) {
	ctx := context.Background()
	store := newScenarioStorage()
	certPEM, cert := newCertificatePEM(t, "api.contoso.com", 0x5001)
	gateway := &scriptedGateway{
		outputs: map[string]string{
			command_gateway.ScriptGenerateCSR: generateOutput(t, newCSRPEM(t, "api.contoso.com")),
			command_gateway.ScriptSubmitCSR:   submitOutput(t, csr_workflow.SubmitOutput{RequestID: "5002", Disposition: "issued", CertificatePEM: certPEM}),
		},
	}
	workflow := csr_workflow.NewCSRWorkflow(store, gateway)
	ts := time.Now().Unix()

	csr, err := workflow.CreateCSR(ctx, ts, csr_workflow.CreateCSRRequest{Requester: "alice", CommonName: "api.contoso.com", TargetCAID: "ca-1"})
	require.NoError(t, err)
	_, err = workflow.GenerateCSR(ctx, ts+1, csr_workflow.CSRIDRequest{Requester: "alice", ID: csr.ID})
	require.NoError(t, err)
	issued, err := workflow.SubmitCSR(ctx, ts+2, csr_workflow.CSRIDRequest{Requester: "alice", ID: csr.ID})
	require.NoError(t, err)

	assert.Equal(t, model.CSRStatusIssued, issued.Status)
	assert.Equal(t, "5001", issued.IssuedSerialNumber)
	assert.Equal(t, pkix.Thumbprint(cert), issued.IssuedThumbprint)
	assertCSRInvariants(t, issued)

	stored, err := workflow.GetCSR(ctx, csr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CSRStatusIssued, stored.Status)

	_, err = workflow.CancelCSR(ctx, ts+3, csr_workflow.CSRIDRequest{Requester: "alice", ID: csr.ID})
	require.ErrorIs(t, err, model.ErrWrongStatus)
}

func TestCSRLifecycleWithFailingHost(t *testing.T) {
	ctx := context.Background()
	store := newScenarioStorage()
	gateway := &scriptedGateway{failing: map[string]string{command_gateway.ScriptGenerateCSR: "WinRM cannot complete the operation."}}
	workflow := csr_workflow.NewCSRWorkflow(store, gateway)
	ts := time.Now().Unix()

	csr, err := workflow.CreateCSR(ctx, ts, csr_workflow.CreateCSRRequest{Requester: "bob", CommonName: "app01", TargetServerID: "srv-1"})
	require.NoError(t, err)

	_, err = workflow.GenerateCSR(ctx, ts+1, csr_workflow.CSRIDRequest{Requester: "bob", ID: csr.ID})
	require.ErrorIs(t, err, model.ErrGateway)

	failed, err := workflow.GetCSR(ctx, csr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CSRStatusFailed, failed.Status)
	assert.True(t, strings.HasPrefix(failed.ErrorMessage, "WinRM"))
	assertCSRInvariants(t, failed)

	_, err = workflow.SubmitCSR(ctx, ts+2, csr_workflow.CSRIDRequest{Requester: "bob", ID: csr.ID})
	require.ErrorIs(t, err, model.ErrWrongStatus)

	cancelled, err := workflow.CancelCSR(ctx, ts+3, csr_workflow.CSRIDRequest{Requester: "bob", ID: csr.ID})
	require.NoError(t, err)
	assert.Equal(t, model.CSRStatusCancelled, cancelled.Status)

	require.NoError(t, workflow.DeleteCSR(ctx, csr_workflow.CSRIDRequest{Requester: "bob", ID: csr.ID}))
	_, err = workflow.GetCSR(ctx, csr.ID)
	require.ErrorIs(t, err, model.ErrDataNotFound)
}

func TestCallerCancellationDoesNotAbortRunningScripts(t *testing.T) {
	store := newScenarioStorage()
	gateway := &scriptedGateway{
		outputs: map[string]string{
			command_gateway.ScriptGenerateCSR: generateOutput(t, newCSRPEM(t, "web02.contoso.com")),
			command_gateway.ScriptSubmitCSR:   `{"requestId":"5003","disposition":"pending"}`,
		},
	}
	workflow := csr_workflow.NewCSRWorkflow(store, gateway)
	ts := time.Now().Unix()

	csr, err := workflow.CreateCSR(context.Background(), ts, csr_workflow.CreateCSRRequest{Requester: "alice", CommonName: "web02.contoso.com", TargetCAID: "ca-1"})
	require.NoError(t, err)

	var scriptErrs []error
	run := func(step func(ctx context.Context) (model.CertificateRequest, error)) (model.CertificateRequest, error) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		gateway.running = func(scriptCtx context.Context) {
			cancel()
			scriptErrs = append(scriptErrs, scriptCtx.Err())
		}
		return step(ctx)
	}

	generated, err := run(func(ctx context.Context) (model.CertificateRequest, error) {
		return workflow.GenerateCSR(ctx, ts+1, csr_workflow.CSRIDRequest{Requester: "alice", ID: csr.ID})
	})
	require.NoError(t, err)
	assert.Equal(t, model.CSRStatusPending, generated.Status)

	submitted, err := run(func(ctx context.Context) (model.CertificateRequest, error) {
		return workflow.SubmitCSR(ctx, ts+2, csr_workflow.CSRIDRequest{Requester: "alice", ID: csr.ID})
	})
	require.NoError(t, err)
	assert.Equal(t, model.CSRStatusSubmitted, submitted.Status)
	assert.Equal(t, []error{nil, nil}, scriptErrs)

	stored, err := workflow.GetCSR(context.Background(), csr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CSRStatusSubmitted, stored.Status)
	assert.Equal(t, "5003", stored.CARequestID)
	assertCSRInvariants(t, stored)
}

func TestCallerCancellationStillRecordsFailure(t *testing.T) {
	store := newScenarioStorage()
	gateway := &scriptedGateway{failing: map[string]string{command_gateway.ScriptGenerateCSR: "Access is denied."}}
	workflow := csr_workflow.NewCSRWorkflow(store, gateway)
	ts := time.Now().Unix()

	csr, err := workflow.CreateCSR(context.Background(), ts, csr_workflow.CreateCSRRequest{Requester: "bob", CommonName: "app02", TargetServerID: "srv-1"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gateway.running = func(context.Context) { cancel() }

	_, err = workflow.GenerateCSR(ctx, ts+1, csr_workflow.CSRIDRequest{Requester: "bob", ID: csr.ID})
	require.ErrorIs(t, err, model.ErrGateway)
	require.NotErrorIs(t, err, context.Canceled)

	failed, err := workflow.GetCSR(context.Background(), csr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CSRStatusFailed, failed.Status)
	assert.Equal(t, "Access is denied.", failed.ErrorMessage)
	assert.Equal(t, model.StepStatusFailed, failed.Step(model.StepGenerateCSR).Status)
	assert.Equal(t, "Access is denied.", failed.Step(model.StepGenerateCSR).Error)
}
