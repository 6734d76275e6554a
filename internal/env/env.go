// Package env fills configuration structs from environment variables.
package env

import (
	"encoding"
	"fmt"
	"os"
	"reflect"
	"strconv"
)

// Validator is implemented by config structs that need validation.
type Validator interface {
	Validate() error
}

// ErrInvalidValue is returned when an environment variable value cannot be parsed.
type ErrInvalidValue struct {
	Field  string
	EnvVar string
	Value  string
	Err    error
}

func (e ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid %s=%q (field %s): %v", e.EnvVar, e.Value, e.Field, e.Err)
}

func (e ErrInvalidValue) Unwrap() error {
	return e.Err
}

// ErrNotStructPointer is returned when Load is called with a non-pointer or non-struct argument.
type ErrNotStructPointer struct {
	Type string
}

func (e ErrNotStructPointer) Error() string {
	return fmt.Sprintf("env: argument must be a pointer to struct, got %s", e.Type)
}

// ErrUnsupportedType is returned when a tagged field has a type Load cannot set.
type ErrUnsupportedType struct {
	Field string
	Kind  string
}

func (e ErrUnsupportedType) Error() string {
	return fmt.Sprintf("env: field %s has unsupported type %s", e.Field, e.Kind)
}

// LookupFunc reports the value of a variable and whether it is set.
type LookupFunc func(key string) (string, bool)

// Load fills v from the process environment. See LoadFrom.
func Load(v any) error {
	return LoadFrom(v, os.LookupEnv)
}

// LoadFrom fills the struct pointed to by v using lookup.
//
// Tags:
//   - env:"VAR" maps the field to VAR
//   - default:"value" is used when VAR is not set at all
//
// A field may be a string, a bool, any signed int kind, or a type whose
// pointer implements encoding.TextUnmarshaler (slog.Level, for one).
// A variable set to the empty string is respected and not replaced by its
// default; fields with neither keep their zero value.
//
// Nested and embedded structs are walked recursively. Every struct that
// implements Validator is validated after its own fields are set, innermost first.
func LoadFrom(v any, lookup LookupFunc) error {
	ptrVal := reflect.ValueOf(v)
	if ptrVal.Kind() != reflect.Pointer || ptrVal.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer{Type: fmt.Sprintf("%T", v)}
	}
	return fill(ptrVal.Elem(), lookup)
}

var textUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()

func fill(val reflect.Value, lookup LookupFunc) error {
	typ := val.Type()

	for i := range val.NumField() {
		field := val.Field(i)
		sf := typ.Field(i)
		if !field.CanSet() {
			continue
		}

		key, tagged := sf.Tag.Lookup("env")
		if !tagged {
			if field.Kind() == reflect.Struct {
				if err := fill(field, lookup); err != nil {
					return err
				}
			}
			continue
		}

		raw, set := lookup(key)
		if !set {
			def, ok := sf.Tag.Lookup("default")
			if !ok {
				continue
			}
			raw = def
		}

		if err := assign(field, sf.Name, raw); err != nil {
			if _, ok := err.(ErrUnsupportedType); ok {
				return err
			}
			return ErrInvalidValue{Field: sf.Name, EnvVar: key, Value: raw, Err: err}
		}
	}

	if validator, ok := val.Addr().Interface().(Validator); ok {
		return validator.Validate()
	}
	return nil
}

func assign(field reflect.Value, name, raw string) error {
	if reflect.PointerTo(field.Type()).Implements(textUnmarshaler) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw))
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	default:
		return ErrUnsupportedType{Field: name, Kind: field.Kind().String()}
	}
	return nil
}
