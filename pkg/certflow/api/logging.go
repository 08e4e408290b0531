package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// maxLoggedBody caps the error body kept for the access log.
const maxLoggedBody = 1024

// ResponseInterceptor records the status and, for non-2xx responses, the start of the body.
type ResponseInterceptor struct {
	writer http.ResponseWriter
	Status int
	Body   []byte
}

func NewResponseInterceptor(w http.ResponseWriter) *ResponseInterceptor {
	return &ResponseInterceptor{writer: w, Status: http.StatusOK}
}

func (r *ResponseInterceptor) WriteHeader(status int) {
	r.Status = status
	r.writer.WriteHeader(status)
}

func (r *ResponseInterceptor) Write(b []byte) (int, error) {
	if r.Status/100 != 2 && len(r.Body) < maxLoggedBody {
		r.Body = append(r.Body, b[:min(len(b), maxLoggedBody-len(r.Body))]...)
	}
	return r.writer.Write(b)
}

func (r *ResponseInterceptor) Header() http.Header {
	return r.writer.Header()
}

func (r *ResponseInterceptor) IsSystemError() bool {
	return r.Status/100 == 5
}

// Log writes one access log entry per request. 5xx responses are logged as errors and 4xx
// responses with their message.
func Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		interceptor := NewResponseInterceptor(w)
		next.ServeHTTP(interceptor, r)

		entry := logrus.WithFields(logrus.Fields{
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    interceptor.Status,
			"elapsed":   time.Since(begin).Round(time.Millisecond).String(),
			"requester": r.Header.Get(REQUESTER_HEADER),
		})
		message := strings.TrimSpace(string(interceptor.Body))
		switch {
		case interceptor.IsSystemError():
			entry.Errorf("request failed: %s", message)
		case interceptor.Status/100 == 4:
			entry.Infof("request rejected: %s", message)
		default:
			entry.Debug("request served")
		}
	})
}
