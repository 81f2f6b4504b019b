package validation

import "strings"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects every field violation found in a candidate
// instead of stopping at the first one.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	messages := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		messages[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(messages, "; ")
}

func (e *Errors) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *Errors) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
