package logging

import "fmt"

// TypeOf returns the type name of the given value, for use as log field value.
func TypeOf(v any) string {
	return fmt.Sprintf("%T", v)
}

// Component returns the log field key and value identifying a component.
func Component(v any) (string, string) {
	return "component", TypeOf(v)
}
