package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-inject/framework/http/validation"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// pass asserts the validator passes for the given data/rules.
func pass(t *testing.T, label string, data map[string]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		assert.True(t, v.Passes(), "errors: %v", v.Errors())
	})
}

// fail asserts the validator fails with an error on the given field.
func fail(t *testing.T, label, field string, data map[string]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		require.True(t, v.Fails(), "expected a failure on %q", field)
		assert.NotEmpty(t, v.Errors().First(field), "errors: %v", v.Errors())
	})
}

// ── required ─────────────────────────────────────────────────────────────────

func TestValidation_Required(t *testing.T) {
	r := validation.Rules{"name": "required"}

	pass(t, "non-empty value", map[string]string{"name": "Alice"}, r)
	fail(t, "empty string", "name", map[string]string{"name": ""}, r)
	fail(t, "whitespace only", "name", map[string]string{"name": "   "}, r)
	fail(t, "missing key", "name", map[string]string{}, r)
}

func TestValidation_Required_MessageFormat(t *testing.T) {
	v := validation.Make(map[string]string{"name": ""}, validation.Rules{"name": "required"})

	require.True(t, v.Fails())
	assert.Equal(t, "The name field is required.", v.Errors().First("name"))
}

// ── email ─────────────────────────────────────────────────────────────────────

func TestValidation_Email(t *testing.T) {
	r := validation.Rules{"email": "email"}

	pass(t, "valid email", map[string]string{"email": "user@example.com"}, r)
	pass(t, "valid email with subdomain", map[string]string{"email": "user@mail.example.co.uk"}, r)
	fail(t, "no @ sign", "email", map[string]string{"email": "notanemail"}, r)
	fail(t, "no domain", "email", map[string]string{"email": "user@"}, r)
	fail(t, "display name", "email", map[string]string{"email": "Ada <ada@example.com>"}, r)
	fail(t, "angle brackets", "email", map[string]string{"email": "<ada@example.com>"}, r)
}

// ── lengths ──────────────────────────────────────────────────────────────────

func TestValidation_Lengths(t *testing.T) {
	pass(t, "min exact", map[string]string{"name": "abc"}, validation.Rules{"name": "min:3"})
	fail(t, "min short", "name", map[string]string{"name": "ab"}, validation.Rules{"name": "min:3"})
	pass(t, "max exact", map[string]string{"bio": "hello"}, validation.Rules{"bio": "max:5"})
	fail(t, "max long", "bio", map[string]string{"bio": "hello!"}, validation.Rules{"bio": "max:5"})
	pass(t, "size", map[string]string{"code": "ab12"}, validation.Rules{"code": "size:4"})
	fail(t, "size off", "code", map[string]string{"code": "ab1"}, validation.Rules{"code": "size:4"})
	pass(t, "multibyte counts characters", map[string]string{"name": "日本"}, validation.Rules{"name": "max:2"})
}

func TestValidation_Between(t *testing.T) {
	r := validation.Rules{"name": "between:2,4"}

	pass(t, "lower bound", map[string]string{"name": "ab"}, r)
	pass(t, "upper bound", map[string]string{"name": "abcd"}, r)
	fail(t, "below", "name", map[string]string{"name": "a"}, r)
	fail(t, "above", "name", map[string]string{"name": "abcde"}, r)

	v := validation.Make(map[string]string{"name": "a"}, r)
	require.True(t, v.Fails())
	assert.Equal(t, "The name must be between 2 and 4 characters.", v.Errors().First("name"))
}

func TestValidation_In(t *testing.T) {
	r := validation.Rules{"role": "in:admin, editor"}

	pass(t, "listed", map[string]string{"role": "editor"}, r)
	fail(t, "not listed", "role", map[string]string{"role": "guest"}, r)
}

// ── behaviour ────────────────────────────────────────────────────────────────

func TestValidation_BailsOnFirstFailure(t *testing.T) {
	v := validation.Make(map[string]string{"email": ""}, validation.Rules{"email": "required|email"})

	require.True(t, v.Fails())
	assert.Equal(t, []string{"The email field is required."}, v.Errors()["email"])
}

func TestValidation_RerunDoesNotDuplicateMessages(t *testing.T) {
	v := validation.Make(map[string]string{}, validation.Rules{"name": "required"})

	v.Fails()
	v.Fails()

	assert.Len(t, v.Errors()["name"], 1)
}

func TestValidation_Validate(t *testing.T) {
	rules := validation.Rules{"name": "required", "email": "required|email"}

	assert.NoError(t, validation.Make(map[string]string{"name": "Ada", "email": "ada@example.com"}, rules).Validate())

	err := validation.Make(map[string]string{"email": "nope"}, rules).Validate()
	var bag validation.Errors
	require.ErrorAs(t, err, &bag)
	assert.Equal(t, validation.Errors{
		"email": {"The email must be a valid email address."},
		"name":  {"The name field is required."},
	}, bag)
}
