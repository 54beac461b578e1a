package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		context    string
		wantCode   string
		wantStatus int
	}{
		{
			name:       "Record not found",
			err:        fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound),
			context:    "client",
			wantCode:   ResourceNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Postgres duplicate tax id",
			err:        errors.New(`ERROR: duplicate key value violates unique constraint "idx_clients_tax_id" (SQLSTATE 23505)`),
			context:    "client",
			wantCode:   ClientTaxIDExists,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "SQLite duplicate tax id",
			err:        errors.New("UNIQUE constraint failed: clients.tax_id"),
			context:    "client",
			wantCode:   ClientTaxIDExists,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "Foreign key",
			err:        errors.New(`insert or update on table "employee_benefits" violates foreign key constraint "fk_employee_benefits_client"`),
			context:    "benefit",
			wantCode:   ClientParentNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "SQLite not null",
			err:        errors.New("NOT NULL constraint failed: feedback.subject"),
			context:    "feedback",
			wantCode:   ValidationRequired,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Unknown keeps text",
			err:        errors.New("disk full"),
			context:    "client",
			wantCode:   InternalServerError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.Equal(t, tt.wantStatus, info.Status())
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_UnknownCarriesErrorText(t *testing.T) {
	info := ParseError(errors.New("disk full"), "client")
	assert.Equal(t, "disk full", info.Message)
}

func TestParseError_NotFoundMessage(t *testing.T) {
	info := ParseError(gorm.ErrRecordNotFound, "client")
	assert.Equal(t, "Client not found", info.Message)
}
