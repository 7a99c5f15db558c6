// Package validation provides Laravel-compatible input validation.
//
// Rules are pipe-separated strings keyed by field name. A field stops at its
// first failing rule.
//
//	v := validation.Make(map[string]string{
//	    "name":  "Alice",
//	    "email": "alice@example.com",
//	}, validation.Rules{
//	    "name":  "required|between:2,100",
//	    "email": "required|email",
//	})
//
//	if err := v.Validate(); err != nil {
//	    // err is validation.Errors: {"field": ["message", ...]}
//	    res.ValidationError(err.(validation.Errors))
//	}
//
// # Available Rules
//
//   - required        — present and not blank
//   - email           — a bare RFC 5322 address (no display name)
//   - min:n           — at least n characters
//   - max:n           — at most n characters
//   - size:n          — exactly n characters
//   - between:min,max — length between min and max (inclusive)
//   - in:a,b,c        — one of the listed values
//
// Lengths count UTF-8 characters, not bytes. Unknown rules pass.
package validation
