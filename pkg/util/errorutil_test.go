package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewForbidden("Admin access required")
	mapped := ToDomainError(fmt.Errorf("handling request: %w", original))
	if mapped.Code != "FORBIDDEN" || mapped.HTTPStatus != http.StatusForbidden {
		t.Errorf("wrapped DomainError not preserved: %+v", mapped)
	}
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	mapped := ToDomainError(sql.ErrNoRows)
	if mapped.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", mapped.HTTPStatus)
	}
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	if mapped.Code != "INTERNAL_ERROR" || mapped.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("unexpected mapping: %+v", mapped)
	}
	if !errors.Is(mapped, mapped.Err) {
		t.Error("expected the cause to be wrapped")
	}
}

func TestTaxonomyStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NewUnauthenticated("No token provided"), http.StatusUnauthorized},
		{NewInvalidToken("Invalid token"), http.StatusUnauthorized},
		{NewForbidden("Admin access required"), http.StatusForbidden},
		{NewNotFound("Request"), http.StatusNotFound},
		{NewValidationError("bad input"), http.StatusUnprocessableEntity},
		{NewConflict("Email already exists"), http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		de := ToDomainError(tc.err)
		if de.HTTPStatus != tc.status {
			t.Errorf("%s: expected %d, got %d", de.Code, tc.status, de.HTTPStatus)
		}
	}
}
