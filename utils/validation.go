package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator tags over a request DTO and returns
// field → problem details, or nil when the value is valid.
func ValidateStruct(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	details := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		details["request"] = err.Error()
		return details
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			details[field] = "this field is required"
		case "email":
			details[field] = "must be a valid email address"
		case "min":
			details[field] = fmt.Sprintf("must be at least %s", fe.Param())
		case "max":
			details[field] = fmt.Sprintf("must be at most %s", fe.Param())
		default:
			details[field] = fmt.Sprintf("failed %s validation", fe.Tag())
		}
	}
	return details
}

// ParseIDList parses a comma-separated id list query parameter, e.g.
// "1,2,3". Blank segments are skipped; a malformed segment fails the whole
// parameter.
func ParseIDList(param string) ([]int64, error) {
	if param == "" {
		return nil, nil
	}

	var ids []int64
	for _, part := range strings.Split(param, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseBoolParam interprets query flags like assigned_only=1.
func ParseBoolParam(param string) bool {
	switch strings.ToLower(param) {
	case "1", "true", "yes":
		return true
	}
	return false
}
