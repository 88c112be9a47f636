package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/niyam-ai/compliance-os-backend/pkg/errors"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	return body
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, "account created", map[string]any{"user_id": "u1"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if body["message"] != "account created" {
		t.Errorf("message = %v", body["message"])
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["user_id"] != "u1" {
		t.Errorf("data = %v", body["data"])
	}
}

func TestWriteSuccessOmitsEmptyMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, "", map[string]any{"ok": true})

	body := decodeBody(t, rec)
	if _, present := body["message"]; present {
		t.Errorf("empty message should be omitted, got %v", body["message"])
	}
}

func TestWriteErrorClientFaultKeepsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeConflict, "email already registered"))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "CONFLICT" || errObj["message"] != "email already registered" {
		t.Errorf("error = %v", errObj)
	}
}

func TestWriteErrorInternalHidesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeInternal, "records file corrupted"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	if errObj["message"] != "internal server error" {
		t.Errorf("internal message leaked: %v", errObj["message"])
	}
}

func TestWriteErrorUntypedBecomesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, context.DeadlineExceeded)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestWriteErrorValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"email": "must be a valid email"})
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	details, ok := errObj["details"].(map[string]any)
	if !ok || details["email"] != "must be a valid email" {
		t.Errorf("details = %v", errObj["details"])
	}
}
