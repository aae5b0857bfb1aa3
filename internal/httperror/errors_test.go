package httperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/park285/armourmail-go/internal/mail"
)

func TestResponseFromTypedError(t *testing.T) {
	status, payload := Response(NewEmailNotFound("abc"), "req-1")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d", status)
	}
	if payload.ErrorCode != string(ErrorCodeEmailNotFound) {
		t.Fatalf("error_code = %q", payload.ErrorCode)
	}
	if payload.RequestID == nil || *payload.RequestID != "req-1" {
		t.Fatalf("request_id = %v", payload.RequestID)
	}
	if payload.Details["email_id"] != "abc" {
		t.Fatalf("details = %v", payload.Details)
	}
}

func TestResponseWithoutRequestID(t *testing.T) {
	_, payload := Response(NewInternalError("boom"), "")
	if payload.RequestID != nil {
		t.Fatalf("request_id should be nil, got %v", payload.RequestID)
	}
}

func TestFromErrorMapsSentinels(t *testing.T) {
	notFound := FromError(fmt.Errorf("lookup: %w", mail.ErrEmailNotFound))
	if notFound.Code != ErrorCodeEmailNotFound || notFound.Status != http.StatusNotFound {
		t.Fatalf("not found mapping = %+v", notFound)
	}

	invalid := FromError(fmt.Errorf("%w: quarantined -> approved", mail.ErrInvalidStatus))
	if invalid.Code != ErrorCodeInvalidState || invalid.Status != http.StatusBadRequest {
		t.Fatalf("invalid state mapping = %+v", invalid)
	}

	internal := FromError(errors.New("plain failure"))
	if internal.Code != ErrorCodeInternal || internal.Status != http.StatusInternalServerError {
		t.Fatalf("internal mapping = %+v", internal)
	}

	if FromError(nil) != nil {
		t.Fatalf("nil error should map to nil")
	}
}

func TestFromErrorPassesThroughTypedError(t *testing.T) {
	original := NewRateLimitExceeded(map[string]any{"path": "/api/scan"})
	mapped := FromError(fmt.Errorf("wrapped: %w", original))
	if mapped != original {
		t.Fatalf("typed error should be unwrapped as-is")
	}
}
