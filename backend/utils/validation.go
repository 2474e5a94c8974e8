package utils

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseBody decodes the JSON body into req and checks its validate tags. On
// failure the 400 response has already been sent and the returned error is
// what the handler should return.
func ParseBody(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, SendBadRequest(c, "Invalid request body", nil)
	}
	if details := ValidateStruct(req); len(details) > 0 {
		return false, SendBadRequest(c, "Validation failed", details)
	}
	return true, nil
}

// ValidateStruct returns one message per failing field keyed by its JSON path.
func ValidateStruct(req interface{}) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"non_field_errors": err.Error()}
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		details[field] = describe(fe)
	}
	return details
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min", "gte":
		return fmt.Sprintf("Ensure this value is at least %s.", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("Ensure this value is at most %s.", fe.Param())
	}
	return fmt.Sprintf("Failed on %s.", fe.Tag())
}

// IntQuery reads a non-negative integer query parameter. Missing or
// malformed values yield def.
func IntQuery(c *fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// BoolQuery treats "1" and "true" as set.
func BoolQuery(c *fiber.Ctx, key string) bool {
	switch strings.ToLower(c.Query(key)) {
	case "1", "true":
		return true
	}
	return false
}
