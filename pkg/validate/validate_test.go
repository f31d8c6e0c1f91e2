package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/genosys/pkg/validate"
)

type registration struct {
	Name  string `json:"name"  validate:"required,min=2,max=50"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"required,in=admin,customer"`
	Site  string `json:"site"  validate:"nullable,url"`
	Days  int    `json:"days"  validate:"nullable,gte=1,lte=365"`
}

func TestStruct_Valid(t *testing.T) {
	errs := validate.Struct(registration{
		Name:  "Amira",
		Email: "amira@example.com",
		Role:  "customer",
		Days:  30,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestStruct_RequiredFields(t *testing.T) {
	errs := validate.Struct(registration{})
	for _, field := range []string{"name", "email", "role"} {
		if errs[field] == "" {
			t.Errorf("missing required error for %s", field)
		}
	}
	if errs["site"] != "" || errs["days"] != "" {
		t.Errorf("nullable fields must pass when empty, got %v", errs)
	}
}

func TestStruct_EmailFormat(t *testing.T) {
	errs := validate.Struct(registration{Name: "Amira", Email: "not-an-email", Role: "customer"})
	if errs["email"] == "" {
		t.Error("expected an email format error")
	}
}

func TestStruct_InRule(t *testing.T) {
	errs := validate.Struct(registration{Name: "Amira", Email: "amira@example.com", Role: "superuser"})
	if errs["role"] == "" {
		t.Error("expected an in-list error for role")
	}
}

func TestStruct_NullableSkipsWhenEmptyOnly(t *testing.T) {
	errs := validate.Struct(registration{
		Name:  "Amira",
		Email: "amira@example.com",
		Role:  "admin",
		Site:  "not a url",
	})
	if errs["site"] == "" {
		t.Error("nullable must still validate a non-empty value")
	}
}

func TestStruct_NumericBounds(t *testing.T) {
	errs := validate.Struct(registration{
		Name:  "Amira",
		Email: "amira@example.com",
		Role:  "admin",
		Days:  1000,
	})
	if errs["days"] == "" {
		t.Error("expected an lte error for days")
	}
}

func TestStruct_FirstFailingRuleWins(t *testing.T) {
	errs := validate.Struct(registration{Name: "A", Email: "amira@example.com", Role: "admin"})
	if errs["name"] != "The name must be at least 2 characters." {
		t.Errorf("name error = %q, want the min-length message", errs["name"])
	}
}

func TestStruct_UsesJSONFieldNames(t *testing.T) {
	type payload struct {
		CustomerEmail string `json:"customer_email" validate:"required"`
	}
	errs := validate.Struct(payload{})
	if errs["customer_email"] == "" {
		t.Errorf("errors must be keyed by json tag, got %v", errs)
	}
}

func TestStruct_PointerInput(t *testing.T) {
	errs := validate.Struct(&registration{Name: "Amira", Email: "amira@example.com", Role: "customer"})
	if validate.HasErrors(errs) {
		t.Errorf("pointer input: expected no errors, got %v", errs)
	}
}
