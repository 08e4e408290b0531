package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/certflow/certflow/pkg/certflow/cert_sync"
	"github.com/certflow/certflow/pkg/certflow/csr_workflow"
	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/notification"
	"github.com/certflow/certflow/pkg/certflow/scheduler"
	"github.com/certflow/certflow/pkg/certflow/storage"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ContextKey string

const (
	REQUESTER_HEADER      = "X-Requester"
	REQUESTER_CONTEXT_KEY = ContextKey("requester")
)

type RestServerConfig struct {
	Address string `yaml:"address"`
}

type RestServer struct {
	workflow   csr_workflow.CSRWorkflow
	certSync   cert_sync.CertSync
	dispatcher notification.Dispatcher
	scheduler  scheduler.Scheduler
	httpServer *http.Server
}

type TriggerResponse struct {
	Job     string `json:"job"`
	Started bool   `json:"started"`
}

type SyncOneResponse struct {
	AuthorityID string `json:"authority_id"`
	Records     int    `json:"records"`
}

type ReconcileResponse struct {
	Changed int `json:"changed"`
}

type SendTestRequest struct {
	Email string `json:"email"`
}

type SendTestResponse struct {
	Sent bool `json:"sent"`
}

func ExtractRequester(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requester := r.Header.Get(REQUESTER_HEADER)
		ctx = context.WithValue(ctx, REQUESTER_CONTEXT_KEY, requester)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func NewRestServerWithController(
	workflow csr_workflow.CSRWorkflow,
	certSync cert_sync.CertSync,
	dispatcher notification.Dispatcher,
	sched scheduler.Scheduler,
	address string,
) *RestServer {
	restServer := &RestServer{
		workflow:   workflow,
		certSync:   certSync,
		dispatcher: dispatcher,
		scheduler:  sched,
	}

	router := mux.NewRouter()
	router.Use(Log, ExtractRequester)
	router.HandleFunc("/csr", restServer.createCSR).Methods(http.MethodPost)
	router.HandleFunc("/csr", restServer.listCSR).Methods(http.MethodGet)
	router.HandleFunc("/csr/{id}", restServer.getCSR).Methods(http.MethodGet)
	router.HandleFunc("/csr/{id}", restServer.updateCSR).Methods(http.MethodPatch)
	router.HandleFunc("/csr/{id}", restServer.deleteCSR).Methods(http.MethodDelete)
	router.HandleFunc("/csr/{id}/generate", restServer.generateCSR).Methods(http.MethodPost)
	router.HandleFunc("/csr/{id}/submit", restServer.submitCSR).Methods(http.MethodPost)
	router.HandleFunc("/csr/{id}/cancel", restServer.cancelCSR).Methods(http.MethodPost)
	router.HandleFunc("/ca/{id}/sync", restServer.syncOne).Methods(http.MethodPost)
	router.HandleFunc("/sync", restServer.triggerSync).Methods(http.MethodPost)
	router.HandleFunc("/reconcile", restServer.reconcile).Methods(http.MethodPost)
	router.HandleFunc("/notification/dispatch", restServer.triggerDispatch).Methods(http.MethodPost)
	router.HandleFunc("/notification/test", restServer.sendTest).Methods(http.MethodPost)

	restServer.httpServer = &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return restServer
}

func (s *RestServer) Run() error {
	if s.httpServer.Addr == "" {
		return errors.New("no server to run")
	}

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *RestServer) Close(ctx context.Context) error {
	s.httpServer.SetKeepAlivesEnabled(false)
	return s.httpServer.Shutdown(ctx)
}

func requesterOf(ctx context.Context) string {
	requester, _ := ctx.Value(REQUESTER_CONTEXT_KEY).(string)
	return requester
}

// writeError reports err with the status it maps to. Unclassified errors are logged and answered
// with an opaque message.
func writeError(w http.ResponseWriter, r *http.Request, action string, err error) {
	status := model.ErrToHttpStatus(err)
	if status == http.StatusInternalServerError {
		logrus.Errorf("%s %s: failed to %s: %v", r.Method, r.URL.Path, action, err)
		http.Error(w, "Internal server error", status)
		return
	}
	http.Error(w, fmt.Sprintf("Failed to %s: %s", action, err.Error()), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *RestServer) createCSR(w http.ResponseWriter, r *http.Request) {
	ts := time.Now().Unix()
	ctx := r.Context()

	req := csr_workflow.CreateCSRRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %s", err.Error()), http.StatusBadRequest)
		return
	}
	req.Requester = requesterOf(ctx)

	csr, err := s.workflow.CreateCSR(ctx, ts, req)
	if err != nil {
		writeError(w, r, "create certificate request", err)
		return
	}
	writeJSON(w, http.StatusCreated, csr)
}

func (s *RestServer) listCSR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	offset, _ := strconv.Atoi(query.Get("offset"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit == 0 {
		limit = 10
	}
	req := storage.ListCSRsRequest{
		Offset: offset,
		Limit:  limit,
	}
	for _, status := range query["status"] {
		req.Statuses = append(req.Statuses, model.CSRStatus(status))
	}

	result, err := s.workflow.ListCSRs(ctx, req)
	if err != nil {
		writeError(w, r, "list certificate requests", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *RestServer) getCSR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	csrID := mux.Vars(r)["id"]

	csr, err := s.workflow.GetCSR(ctx, csrID)
	if err != nil {
		writeError(w, r, "get certificate request", err)
		return
	}
	writeJSON(w, http.StatusOK, csr)
}

func (s *RestServer) updateCSR(w http.ResponseWriter, r *http.Request) {
	ts := time.Now().Unix()
	ctx := r.Context()

	req := csr_workflow.UpdateCSRRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %s", err.Error()), http.StatusBadRequest)
		return
	}
	req.Requester = requesterOf(ctx)
	req.ID = mux.Vars(r)["id"]

	csr, err := s.workflow.UpdateCSR(ctx, ts, req)
	if err != nil {
		writeError(w, r, "update certificate request", err)
		return
	}
	writeJSON(w, http.StatusOK, csr)
}

func (s *RestServer) deleteCSR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := csr_workflow.CSRIDRequest{
		Requester: requesterOf(ctx),
		ID:        mux.Vars(r)["id"],
	}

	if err := s.workflow.DeleteCSR(ctx, req); err != nil {
		writeError(w, r, "delete certificate request", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *RestServer) generateCSR(w http.ResponseWriter, r *http.Request) {
	s.transitCSR(w, r, "generate certificate request", s.workflow.GenerateCSR)
}

func (s *RestServer) submitCSR(w http.ResponseWriter, r *http.Request) {
	s.transitCSR(w, r, "submit certificate request", s.workflow.SubmitCSR)
}

func (s *RestServer) cancelCSR(w http.ResponseWriter, r *http.Request) {
	s.transitCSR(w, r, "cancel certificate request", s.workflow.CancelCSR)
}

func (s *RestServer) transitCSR(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	transit func(context.Context, int64, csr_workflow.CSRIDRequest) (model.CertificateRequest, error),
) {
	ts := time.Now().Unix()
	ctx := r.Context()
	req := csr_workflow.CSRIDRequest{
		Requester: requesterOf(ctx),
		ID:        mux.Vars(r)["id"],
	}

	csr, err := transit(ctx, ts, req)
	if err != nil {
		writeError(w, r, action, err)
		return
	}
	writeJSON(w, http.StatusOK, csr)
}

func (s *RestServer) syncOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caID := mux.Vars(r)["id"]

	n, err := s.certSync.SyncOne(ctx, caID)
	if err != nil {
		writeError(w, r, "sync certificate authority", err)
		return
	}
	writeJSON(w, http.StatusOK, SyncOneResponse{AuthorityID: caID, Records: n})
}

func (s *RestServer) triggerSync(w http.ResponseWriter, r *http.Request) {
	started := s.scheduler.TriggerSync()
	writeTrigger(w, scheduler.JobSync, started)
}

func (s *RestServer) triggerDispatch(w http.ResponseWriter, r *http.Request) {
	started := s.scheduler.TriggerDispatch()
	writeTrigger(w, scheduler.JobDispatch, started)
}

func writeTrigger(w http.ResponseWriter, job string, started bool) {
	status := http.StatusAccepted
	if !started {
		status = http.StatusConflict
	}
	writeJSON(w, status, TriggerResponse{Job: job, Started: started})
}

func (s *RestServer) reconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := s.certSync.ReconcileStatuses(ctx, time.Now().Unix())
	if err != nil {
		writeError(w, r, "reconcile certificate statuses", err)
		return
	}
	writeJSON(w, http.StatusOK, ReconcileResponse{Changed: n})
}

func (s *RestServer) sendTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := SendTestRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %s", err.Error()), http.StatusBadRequest)
		return
	}

	sent, err := s.dispatcher.SendTest(ctx, req.Email)
	if err != nil {
		writeError(w, r, "send test notification", err)
		return
	}
	writeJSON(w, http.StatusOK, SendTestResponse{Sent: sent})
}
