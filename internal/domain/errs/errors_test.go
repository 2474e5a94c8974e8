package errs

import (
	"fmt"
	"testing"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		validation bool
		notFound   bool
		conflict   bool
		forbidden  bool
	}{
		{name: "validation", err: Validation("amount", "must be at least %d", 1), validation: true},
		{name: "wrapped not found", err: fmt.Errorf("create recipe: %w", NotFound("ingredient", int64(7))), notFound: true},
		{name: "conflict", err: Conflict("favorite", "recipe", int64(3)), conflict: true},
		{name: "forbidden", err: Forbidden("delete recipe"), forbidden: true},
		{name: "plain", err: fmt.Errorf("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidation(tt.err); got != tt.validation {
				t.Errorf("IsValidation() = %v, want %v", got, tt.validation)
			}
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := IsConflict(tt.err); got != tt.conflict {
				t.Errorf("IsConflict() = %v, want %v", got, tt.conflict)
			}
			if got := IsForbidden(tt.err); got != tt.forbidden {
				t.Errorf("IsForbidden() = %v, want %v", got, tt.forbidden)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{Validation("tags", "must not be empty"), "tags: must not be empty"},
		{&ValidationError{Message: "cannot follow yourself"}, "cannot follow yourself"},
		{NotFound("recipe", int64(9)), "recipe with ID 9 not found"},
		{NotFound("subscription", nil), "subscription not found"},
		{Conflict("user", "email", "a@b.c"), "user with email a@b.c already exists"},
		{Conflict("user", "username", nil), "user with this username already exists"},
		{Forbidden("change recipe"), "not allowed to change recipe"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
