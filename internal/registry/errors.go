package registry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/aryankumar/brogw/internal/util"
)

var (
	// ErrNoGMWID is returned when neither the BRO id nor the name contains a GMW id
	ErrNoGMWID = errors.New("no GMW ID found")

	// ErrNoData is returned when the registry has no usable measurements for a tube
	ErrNoData = errors.New("no data returned")
)

// ErrorClass classifies registry failures
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport failures and timeouts
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents malformed response bodies
	ErrorClassDecode ErrorClass = "decode"
)

// APIError is a failed registry call
type APIError struct {
	StatusCode int
	Class      ErrorClass
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := fmt.Sprintf("registry %s error", e.Class)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	msg += " on " + e.Endpoint
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap exposes the cause and maps classes onto the shared sentinels
func (e *APIError) Unwrap() []error {
	errs := []error{}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	switch {
	case e.StatusCode == http.StatusNotFound:
		errs = append(errs, util.ErrNotFound)
	case e.Class == ErrorClassNetwork && isTimeout(e.Err):
		errs = append(errs, util.ErrTimeout)
	case e.Class == ErrorClassNetwork:
		errs = append(errs, util.ErrConnectionFailed)
	}
	return errs
}

func classifyStatus(code int) ErrorClass {
	if code >= 500 {
		return ErrorClassServer
	}
	return ErrorClassClient
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ClassOf returns the error class of err, or "" when it is not a registry error
func ClassOf(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Class
	}
	return ""
}
