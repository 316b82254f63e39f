package services

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pantrykeeper/core/internal/domain/entities"
)

// expirationLayouts are the accepted wire formats for expiration dates, from
// most to least specific. Date-only values are taken as midnight UTC.
var expirationLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseExpiration(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range expirationLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			t = t.UTC()
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// checkStruct runs the tag-based rules and collects every violation into one
// ValidationError, so a caller sees all problems in one round trip.
func (s *InventoryService) checkStruct(req interface{}) *entities.ValidationError {
	verr := &entities.ValidationError{}
	err := s.validate.Struct(req)
	if err == nil {
		return verr
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return verr.Add("request", err.Error())
	}
	for _, fe := range fieldErrs {
		v := violationFor(fe)
		verr.Add(v.Field, v.Message)
	}
	return verr
}

func violationFor(fe validator.FieldError) entities.FieldViolation {
	switch fe.StructField() {
	case "Name":
		return entities.FieldViolation{Field: "name", Message: "Name is required"}
	case "Quantity":
		if fe.Tag() == "min" && fe.Param() == "0" {
			return entities.FieldViolation{Field: "quantity", Message: "Quantity cannot be negative"}
		}
		return entities.FieldViolation{Field: "quantity", Message: "Quantity must be positive"}
	case "Unit":
		return entities.FieldViolation{Field: "unit", Message: "Unit is required"}
	case "ID":
		return entities.FieldViolation{Field: "id", Message: "Invalid item id"}
	case "ExpiringSoonDays":
		return entities.FieldViolation{Field: "expiringSoonDays", Message: "Expiring window must be between 1 and 30 days"}
	}
	return entities.FieldViolation{Field: strings.ToLower(fe.StructField()), Message: fe.Error()}
}
