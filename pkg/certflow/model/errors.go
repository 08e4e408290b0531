package model

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrInvalidParameter = errors.New("") // Base error for invalid parameter
var ErrWrongStatus = errors.New("")      // Base error for a state machine guard
var ErrDataNotFound = errors.New("")     // Base error for data not found
var ErrGateway = errors.New("")          // Base error for command execution failures
var ErrConflict = errors.New("")         // Base error for concurrent modification

var ErrCSRNotFound = fmt.Errorf("certificate request not found%w", ErrDataNotFound)
var ErrCertificateNotFound = fmt.Errorf("certificate not found%w", ErrDataNotFound)
var ErrAuthorityNotFound = fmt.Errorf("certificate authority not found%w", ErrDataNotFound)
var ErrServerNotFound = fmt.Errorf("server not found%w", ErrDataNotFound)
var ErrUserNotFound = fmt.Errorf("user not found%w", ErrDataNotFound)

var ErrCSRSubmittedNotDeletable = fmt.Errorf("submitted certificate request cannot be deleted%w", ErrWrongStatus)
var ErrVersionMismatch = fmt.Errorf("document was modified concurrently%w", ErrConflict)
var ErrMalformedCAOutput = fmt.Errorf("malformed CA output%w", ErrGateway)
var ErrMalformedCommandOutput = fmt.Errorf("malformed command output%w", ErrGateway)

func ErrToHttpStatus(err error) int {
	if errors.Is(err, ErrInvalidParameter) {
		return http.StatusBadRequest
	} else if errors.Is(err, ErrDataNotFound) {
		return http.StatusNotFound
	} else if errors.Is(err, ErrWrongStatus) || errors.Is(err, ErrConflict) {
		return http.StatusConflict
	} else if errors.Is(err, ErrGateway) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
