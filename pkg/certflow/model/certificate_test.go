package model_test

import (
	"testing"

	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	const now = int64(1_800_000_000)
	window := model.ExpiringWindow

	cases := []struct {
		status   model.CertStatus
		validTo  int64
		expected model.CertStatus
	}{
		{model.CertStatusActive, now + window, model.CertStatusExpiring},
		{model.CertStatusActive, now + window + 1, model.CertStatusActive},
		{model.CertStatusActive, now, model.CertStatusExpiring},
		{model.CertStatusActive, now - 1, model.CertStatusExpired},
		{model.CertStatusExpiring, now + window + 1, model.CertStatusActive},
		{model.CertStatusExpiring, now + window, model.CertStatusExpiring},
		{model.CertStatusExpiring, now - 1, model.CertStatusExpired},
		{model.CertStatusExpired, now + 10*window, model.CertStatusExpired},
		{model.CertStatusRevoked, now - 1, model.CertStatusRevoked},
		{model.CertStatusRevoked, now + 10*window, model.CertStatusRevoked},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, model.DeriveStatus(c.status, c.validTo, now), "%s until %d", c.status, c.validTo-now)
	}
}

func TestHasNotification(t *testing.T) {
	cert := model.Certificate{NotificationsSent: []model.NotificationRecord{{Type: "30day"}}}
	assert.True(t, cert.HasNotification("30day"))
	assert.False(t, cert.HasNotification("7day"))
}

func TestMarkStep(t *testing.T) {
	csr := model.CertificateRequest{WorkflowSteps: model.NewWorkflowSteps()}
	csr.MarkStep(model.StepGenerateCSR, model.StepStatusFailed, "boom", 10)
	assert.Equal(t, model.WorkflowStep{Name: model.StepGenerateCSR, Status: model.StepStatusFailed, Error: "boom"}, *csr.Step(model.StepGenerateCSR))

	csr.MarkStep(model.StepGenerateCSR, model.StepStatusCompleted, "ignored", 20)
	assert.Equal(t, model.WorkflowStep{Name: model.StepGenerateCSR, Status: model.StepStatusCompleted, CompletedAt: 20}, *csr.Step(model.StepGenerateCSR))

	csr.MarkStep("Unknown", model.StepStatusCompleted, "", 30)
	assert.Len(t, csr.WorkflowSteps, 3)
	assert.Nil(t, csr.Step("Unknown"))
}
