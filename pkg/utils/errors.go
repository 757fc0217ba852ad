package utils

import (
	"context"
	"errors"
	"net"
	"strings"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrFetch            = errors.New("fetch failed") // Wraps transport-level errors (DNS, connect, TLS, timeout)
	ErrRequestCreation  = errors.New("failed to create HTTP request")
	ErrResponseBodyRead = errors.New("failed to read response body")
	ErrRowShape         = errors.New("row shape error")    // Missing/invalid input columns
	ErrSource           = errors.New("input source error") // Sheets/CSV read failures
	ErrExport           = errors.New("export error")       // Output write failures
	ErrDatabase         = errors.New("database error")     // Wraps badger errors
	ErrConfigValidation = errors.New("configuration validation error")
)

// CategorizeError maps an error to a predefined category string for logging.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Fetch_Timeout"
	case errors.Is(err, context.Canceled):
		return "Cancelled"
	case errors.Is(err, ErrFetch):
		errMsg := err.Error()
		if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "Timeout") || strings.Contains(errMsg, "deadline exceeded") {
			return "Fetch_Timeout"
		}
		if strings.Contains(errMsg, "connection refused") {
			return "Fetch_ConnectionRefused"
		}
		if strings.Contains(errMsg, "no such host") {
			return "Fetch_DNSLookup"
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "Fetch_Timeout"
		}
		return "Fetch_Other"
	case errors.Is(err, ErrRequestCreation):
		return "Fetch_BadRequest"
	case errors.Is(err, ErrResponseBodyRead):
		return "Fetch_BodyRead"
	case errors.Is(err, ErrRowShape):
		return "Input_RowShape"
	case errors.Is(err, ErrSource):
		return "Input_Source"
	case errors.Is(err, ErrExport):
		return "Output_Export"
	case errors.Is(err, ErrDatabase):
		return "Database"
	case errors.Is(err, ErrConfigValidation):
		return "Config_Validation"
	default:
		return "Unknown"
	}
}
