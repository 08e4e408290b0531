package cli_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/certflow/certflow/pkg/certflow/api"
	"github.com/certflow/certflow/pkg/certflow/cli"
	"github.com/certflow/certflow/pkg/certflow/csr_workflow"
	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"
)

type recordedRequest struct {
	method    string
	uri       string
	requester string
	body      string
}

type RestClientTestSuite struct {
	suite.Suite

	ctx      context.Context
	server   *httptest.Server
	requests []recordedRequest
	status   int
	response string
	client   *cli.RestClient
}

func TestRestClient(t *testing.T) {
	suite.Run(t, new(RestClientTestSuite))
}

func (s *RestClientTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.requests = nil
	s.status = http.StatusOK
	s.response = "{}"
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.requests = append(s.requests, recordedRequest{
			method:    r.Method,
			uri:       r.URL.RequestURI(),
			requester: r.Header.Get(api.REQUESTER_HEADER),
			body:      string(body),
		})
		w.WriteHeader(s.status)
		_, _ = io.WriteString(w, s.response)
	}))
	s.client = cli.NewRestClient(s.server.URL+"/", "alice")
}

func (s *RestClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *RestClientTestSuite) lastRequest() recordedRequest {
	s.Require().NotEmpty(s.requests)
	return s.requests[len(s.requests)-1]
}

func (s *RestClientTestSuite) TestCreateCSR() {
	s.status = http.StatusCreated
	s.response = `{"id":"csr-1","version":1,"status":"draft","common_name":"web01.corp.local"}`

	csr, err := s.client.CreateCSR(s.ctx, csr_workflow.CreateCSRRequest{CommonName: "web01.corp.local", TargetCAID: "ca-1"})
	s.Require().NoError(err)
	s.Equal("csr-1", csr.ID)
	s.Equal(model.CSRStatusDraft, csr.Status)

	req := s.lastRequest()
	s.Equal(http.MethodPost, req.method)
	s.Equal("/csr", req.uri)
	s.Equal("alice", req.requester)

	sent := csr_workflow.CreateCSRRequest{}
	s.Require().NoError(json.Unmarshal([]byte(req.body), &sent))
	s.Equal("web01.corp.local", sent.CommonName)
	s.Equal("ca-1", sent.TargetCAID)
}

func (s *RestClientTestSuite) TestListCSRs() {
	s.response = `{"total":3,"csrs":[{"id":"csr-1"}]}`

	result, err := s.client.ListCSRs(s.ctx, 2, 1, []string{"draft", "failed"})
	s.Require().NoError(err)
	s.EqualValues(3, result.Total)
	s.Require().Len(result.CSRs, 1)
	s.Equal("/csr?limit=1&offset=2&status=draft&status=failed", s.lastRequest().uri)
}

func (s *RestClientTestSuite) TestTransitAndDelete() {
	s.response = `{"id":"csr-1","status":"pending"}`
	csr, err := s.client.TransitCSR(s.ctx, "csr-1", "generate")
	s.Require().NoError(err)
	s.Equal(model.CSRStatusPending, csr.Status)
	s.Equal("/csr/csr-1/generate", s.lastRequest().uri)

	s.status = http.StatusNoContent
	s.response = ""
	s.Require().NoError(s.client.DeleteCSR(s.ctx, "csr-1"))
	s.Equal(http.MethodDelete, s.lastRequest().method)
}

func (s *RestClientTestSuite) TestErrorStatus() {
	s.status = http.StatusConflict
	s.response = "Failed to submit certificate request: version mismatch\n"

	_, err := s.client.TransitCSR(s.ctx, "csr-1", "submit")
	s.Require().Error(err)
	var statusErr *cli.StatusError
	s.Require().ErrorAs(err, &statusErr)
	s.Equal(http.StatusConflict, statusErr.Status)
	s.Equal("Failed to submit certificate request: version mismatch", statusErr.Message)
}

func (s *RestClientTestSuite) TestTrigger() {
	s.status = http.StatusAccepted
	s.response = `{"job":"sync","started":true}`
	result, err := s.client.TriggerSync(s.ctx)
	s.Require().NoError(err)
	s.Equal(api.TriggerResponse{Job: "sync", Started: true}, result)
	s.Equal("/sync", s.lastRequest().uri)

	s.status = http.StatusConflict
	s.response = `{"job":"dispatch","started":false}`
	result, err = s.client.TriggerDispatch(s.ctx)
	s.Require().NoError(err)
	s.Equal(api.TriggerResponse{Job: "dispatch", Started: false}, result)
	s.Equal("/notification/dispatch", s.lastRequest().uri)

	s.status = http.StatusInternalServerError
	s.response = "Internal server error"
	_, err = s.client.TriggerSync(s.ctx)
	s.Error(err)
}

func (s *RestClientTestSuite) TestOperations() {
	s.response = `{"authority_id":"ca-1","records":4}`
	synced, err := s.client.SyncAuthority(s.ctx, "ca-1")
	s.Require().NoError(err)
	s.Equal(4, synced.Records)
	s.Equal("/ca/ca-1/sync", s.lastRequest().uri)

	s.response = `{"changed":2}`
	reconciled, err := s.client.Reconcile(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, reconciled.Changed)

	s.response = `{"sent":true}`
	sent, err := s.client.SendTest(s.ctx, "ops@corp.local")
	s.Require().NoError(err)
	s.True(sent.Sent)
	s.JSONEq(`{"email":"ops@corp.local"}`, s.lastRequest().body)
}
