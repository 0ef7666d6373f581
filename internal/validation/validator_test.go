// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/shelfcast/internal/recommend"
)

type testRequest struct {
	Mode    string                   `json:"mode" validate:"required,recmode"`
	Kind    string                   `json:"kind" validate:"omitempty,mediakind"`
	Limit   int                      `json:"limit" validate:"gte=0,lte=100"`
	History []recommend.HistoryEntry `json:"history" validate:"max=3,dive"`
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	valid := func() testRequest {
		return testRequest{
			Mode:  "books-from-shows",
			Kind:  "show",
			Limit: 10,
			History: []recommend.HistoryEntry{
				{Item: recommend.Item{ID: "tvmaze:1", Kind: recommend.KindShow, Title: "Luther"}},
			},
		}
	}

	tests := []struct {
		name      string
		modify    func(*testRequest)
		wantField string
		wantTag   string
	}{
		{name: "valid", modify: func(*testRequest) {}},
		{name: "missing mode", modify: func(r *testRequest) { r.Mode = "" }, wantField: "mode", wantTag: "required"},
		{name: "unknown mode", modify: func(r *testRequest) { r.Mode = "movies" }, wantField: "mode", wantTag: "recmode"},
		{name: "unknown kind", modify: func(r *testRequest) { r.Kind = "podcast" }, wantField: "kind", wantTag: "mediakind"},
		{name: "limit too high", modify: func(r *testRequest) { r.Limit = 500 }, wantField: "limit", wantTag: "lte"},
		{
			name:      "history item without id",
			modify:    func(r *testRequest) { r.History[0].Item.ID = "" },
			wantField: "history[0].item.id",
			wantTag:   "required",
		},
		{
			name:      "history item with bad kind",
			modify:    func(r *testRequest) { r.History[0].Item.Kind = "film" },
			wantField: "history[0].item.kind",
			wantTag:   "mediakind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := valid()
			tt.modify(&req)

			err := ValidateStruct(&req)
			if tt.wantTag == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() error = nil")
			}
			if len(err.Fields) != 1 {
				t.Fatalf("Fields = %+v, want one", err.Fields)
			}
			if err.Fields[0].Field != tt.wantField || err.Fields[0].Tag != tt.wantTag {
				t.Errorf("field error = %+v, want %s/%s", err.Fields[0], tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestRequestValidationError_ToAPIError(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&testRequest{Mode: "nope", Kind: "nope", Limit: -1})
	if err == nil {
		t.Fatal("ValidateStruct() error = nil")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "mode must be one of") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 3 {
		t.Errorf("Details = %+v, want 3 field errors", apiErr.Details)
	}

	single := (&RequestValidationError{Fields: []FieldError{{Field: "id", Tag: "required", Message: "id is required"}}}).ToAPIError()
	if single.Details["field"] != "id" || single.Message != "id is required" {
		t.Errorf("single = %+v", single)
	}
}
