package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"stockroom/internal/domain"

	"github.com/go-playground/validator/v10"
)

func decodeInto(t *testing.T, body string, v interface{}) error {
	t.Helper()
	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(body))
	return DecodeAndValidate(req, v)
}

func TestDecodeAndValidateAcceptsValidProduct(t *testing.T) {
	var input domain.NewProduct
	err := decodeInto(t, `{"name":"Runner","price":59.9,"sizes":[{"size":"42","stockQuantity":10}]}`, &input)
	if err != nil {
		t.Fatalf("expected valid payload to pass, got %v", err)
	}
	if input.Name != "Runner" || input.Price != 59.9 {
		t.Errorf("payload did not decode: %+v", input)
	}
}

func TestDecodeAndValidateRejectsMissingName(t *testing.T) {
	var input domain.NewProduct
	err := decodeInto(t, `{"price":59.9}`, &input)
	if err == nil {
		t.Fatal("expected validation failure for missing name")
	}

	errors := FormatValidationErrors(err)
	if len(errors) != 1 {
		t.Fatalf("expected one validation error, got %d", len(errors))
	}
	if errors[0].Field != "Name" {
		t.Errorf("expected Name field error, got %q", errors[0].Field)
	}
}

func TestDecodeAndValidateRejectsNegativePrice(t *testing.T) {
	var input domain.NewProduct
	if err := decodeInto(t, `{"name":"Runner","price":-1}`, &input); err == nil {
		t.Fatal("expected validation failure for negative price")
	}
}

func TestDecodeAndValidateRejectsRatingAboveFive(t *testing.T) {
	var input domain.NewProduct
	if err := decodeInto(t, `{"name":"Runner","price":10,"rating":6}`, &input); err == nil {
		t.Fatal("expected validation failure for rating above 5")
	}
}

func TestDecodeAndValidateRejectsNegativeStock(t *testing.T) {
	var input domain.NewProduct
	err := decodeInto(t, `{"name":"Runner","price":10,"sizes":[{"size":"42","stockQuantity":-1}]}`, &input)
	if err == nil {
		t.Fatal("expected validation failure for negative stock")
	}
}

func TestDecodeAndValidateRejectsUnknownPaymentMethod(t *testing.T) {
	var req domain.CreateSaleRequest
	body := `{"items":[{"productId":"7b6a6f0e-3f57-4b7b-9a51-111111111111","size":"42","quantity":1}],"paymentMethod":"BARTER"}`
	err := decodeInto(t, body, &req)
	if err == nil {
		t.Fatal("expected validation failure for unknown payment method")
	}

	errors := FormatValidationErrors(err)
	found := false
	for _, e := range errors {
		if e.Field == "PaymentMethod" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected PaymentMethod error, got %v", errors)
	}
}

func TestDecodeAndValidateRejectsEmptySale(t *testing.T) {
	var req domain.CreateSaleRequest
	if err := decodeInto(t, `{"items":[],"paymentMethod":"CASH"}`, &req); err == nil {
		t.Fatal("expected validation failure for empty item list")
	}
}

func TestDecodeAndValidateRejectsZeroQuantity(t *testing.T) {
	var req domain.CreateSaleRequest
	body := `{"items":[{"productId":"7b6a6f0e-3f57-4b7b-9a51-111111111111","size":"42","quantity":0}],"paymentMethod":"CASH"}`
	if err := decodeInto(t, body, &req); err == nil {
		t.Fatal("expected validation failure for zero quantity")
	}
}

func TestDecodeAndValidateRejectsMalformedJSON(t *testing.T) {
	var input domain.NewProduct
	err := decodeInto(t, `{"name":`, &input)
	if err == nil {
		t.Fatal("expected decode failure for malformed JSON")
	}
	if _, ok := err.(validator.ValidationErrors); ok {
		t.Error("malformed JSON should fail decoding, not validation")
	}
}

func TestFormatValidationErrorsIgnoresOtherErrors(t *testing.T) {
	var input domain.NewProduct
	err := decodeInto(t, `{"name":`, &input)

	if errors := FormatValidationErrors(err); len(errors) != 0 {
		t.Errorf("non-validator errors should format to nothing, got %v", errors)
	}
}
