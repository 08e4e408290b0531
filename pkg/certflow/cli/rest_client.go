package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/certflow/certflow/pkg/certflow/api"
	"github.com/certflow/certflow/pkg/certflow/csr_workflow"
	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/storage"
	"github.com/certflow/certflow/pkg/util"
	"github.com/goccy/go-json"
)

// RestClient talks to a running certflow REST server.
type RestClient struct {
	requester  string
	server     string // http://server
	httpClient *http.Client
}

func NewRestClient(server, requester string) *RestClient {
	return &RestClient{
		requester:  requester,
		server:     strings.TrimSuffix(server, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (r *RestClient) CreateCSR(ctx context.Context, req csr_workflow.CreateCSRRequest) (model.CertificateRequest, error) {
	csr := model.CertificateRequest{}
	if err := r.execute(ctx, http.MethodPost, "/csr", util.StructToJSONReader(req), &csr); err != nil {
		return model.CertificateRequest{}, err
	}
	return csr, nil
}

func (r *RestClient) ListCSRs(ctx context.Context, offset, limit int, statuses []string) (storage.ListCSRsResponse, error) {
	query := url.Values{}
	query.Set("offset", fmt.Sprintf("%d", offset))
	query.Set("limit", fmt.Sprintf("%d", limit))
	for _, status := range statuses {
		query.Add("status", status)
	}

	result := storage.ListCSRsResponse{}
	if err := r.execute(ctx, http.MethodGet, "/csr?"+query.Encode(), nil, &result); err != nil {
		return storage.ListCSRsResponse{}, err
	}
	return result, nil
}

func (r *RestClient) GetCSR(ctx context.Context, id string) (model.CertificateRequest, error) {
	csr := model.CertificateRequest{}
	if err := r.execute(ctx, http.MethodGet, "/csr/"+url.PathEscape(id), nil, &csr); err != nil {
		return model.CertificateRequest{}, err
	}
	return csr, nil
}

// TransitCSR calls one of the workflow actions: generate, submit or cancel.
func (r *RestClient) TransitCSR(ctx context.Context, id, action string) (model.CertificateRequest, error) {
	path := fmt.Sprintf("/csr/%s/%s", url.PathEscape(id), action)
	csr := model.CertificateRequest{}
	if err := r.execute(ctx, http.MethodPost, path, nil, &csr); err != nil {
		return model.CertificateRequest{}, err
	}
	return csr, nil
}

func (r *RestClient) DeleteCSR(ctx context.Context, id string) error {
	return r.execute(ctx, http.MethodDelete, "/csr/"+url.PathEscape(id), nil, nil)
}

func (r *RestClient) SyncAuthority(ctx context.Context, caID string) (api.SyncOneResponse, error) {
	result := api.SyncOneResponse{}
	if err := r.execute(ctx, http.MethodPost, fmt.Sprintf("/ca/%s/sync", url.PathEscape(caID)), nil, &result); err != nil {
		return api.SyncOneResponse{}, err
	}
	return result, nil
}

// TriggerSync starts a background sweep. A sweep that is already running is reported as
// Started false, not as an error.
func (r *RestClient) TriggerSync(ctx context.Context) (api.TriggerResponse, error) {
	return r.trigger(ctx, "/sync")
}

func (r *RestClient) TriggerDispatch(ctx context.Context) (api.TriggerResponse, error) {
	return r.trigger(ctx, "/notification/dispatch")
}

func (r *RestClient) Reconcile(ctx context.Context) (api.ReconcileResponse, error) {
	result := api.ReconcileResponse{}
	if err := r.execute(ctx, http.MethodPost, "/reconcile", nil, &result); err != nil {
		return api.ReconcileResponse{}, err
	}
	return result, nil
}

func (r *RestClient) SendTest(ctx context.Context, email string) (api.SendTestResponse, error) {
	result := api.SendTestResponse{}
	req := api.SendTestRequest{Email: email}
	if err := r.execute(ctx, http.MethodPost, "/notification/test", util.StructToJSONReader(req), &result); err != nil {
		return api.SendTestResponse{}, err
	}
	return result, nil
}

func (r *RestClient) trigger(ctx context.Context, path string) (api.TriggerResponse, error) {
	result := api.TriggerResponse{}
	err := r.execute(ctx, http.MethodPost, path, nil, &result)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Status == http.StatusConflict {
		if jsonErr := json.Unmarshal([]byte(statusErr.Message), &result); jsonErr != nil {
			return api.TriggerResponse{}, err
		}
		return result, nil
	}
	if err != nil {
		return api.TriggerResponse{}, err
	}
	return result, nil
}

type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d, message: %s", e.Status, e.Message)
}

func (r *RestClient) execute(ctx context.Context, method, path string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, r.server+path, body)
	if err != nil {
		return err
	}
	req.Header.Set(api.REQUESTER_HEADER, r.requester)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		message, _ := io.ReadAll(resp.Body)
		return &StatusError{Status: resp.StatusCode, Message: strings.TrimSpace(string(message))}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}
