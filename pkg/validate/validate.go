// Package validate checks request bodies against `validate` struct tags.
// Only presence and identifier checks are supported:
//
//	required    field must not be zero/empty
//	nullable    if empty, skip the remaining rules for this field
//	objectid    24-digit hex identifier
//	in=a|b|c    value must be one of the listed items
//
// Example:
//
//	type Review struct {
//	    MenuID string `json:"id"    validate:"required,objectid"`
//	    Email  string `json:"email" validate:"required"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string // json name
	Rule    string
	Message string
}

// Errors lists failures in field declaration order, at most one per field.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// First returns the message of the first failure, or "".
func (e Errors) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Message
}

var objectIDRE = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// Struct validates the exported fields of v (a struct or pointer to one),
// descending into embedded structs. It returns nil when v is valid.
func Struct(v any) Errors {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var errs Errors
	walk(rv, &errs)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func walk(rv reflect.Value, errs *Errors) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		value := rv.Field(i)

		if field.Anonymous && value.Kind() == reflect.Struct {
			walk(value, errs)
			continue
		}

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}
		rules := strings.Split(tag, ",")
		if hasRule(rules, "nullable") && value.IsZero() {
			continue
		}

		name := jsonFieldName(field)
		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				key, _, _ := strings.Cut(rule, "=")
				*errs = append(*errs, FieldError{Field: name, Rule: key, Message: msg})
				break
			}
		}
	}
}

func applyRule(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")
	raw := fmt.Sprintf("%v", v.Interface())

	switch key {
	case "required":
		if v.IsZero() {
			return field + " is required"
		}
	case "objectid":
		if !objectIDRE.MatchString(raw) {
			return "invalid " + field
		}
	case "in":
		for _, allowed := range strings.Split(param, "|") {
			if raw == allowed {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(param, "|", ", "))
	default:
		panic(fmt.Sprintf("validate: unknown rule %q on field %s", key, field))
	}
	return ""
}

func hasRule(rules []string, name string) bool {
	for _, r := range rules {
		if r == name {
			return true
		}
	}
	return false
}

// jsonFieldName returns the JSON key for a field, falling back to the Go
// name.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}
