package rest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed user.schema.json
var userSchemaJSON string

const userSchemaURL = "https://schemas.todo.local/user.schema.json"

var (
	userSchemaOnce sync.Once
	userSchema     *jsonschema.Schema
	userSchemaErr  error
)

func compileUserSchema() (*jsonschema.Schema, error) {
	userSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(userSchemaURL, strings.NewReader(userSchemaJSON)); err != nil {
			userSchemaErr = fmt.Errorf("add user schema: %w", err)
			return
		}
		userSchema, userSchemaErr = compiler.Compile(userSchemaURL)
	})
	return userSchema, userSchemaErr
}

// MalformedError reports a response body that does not have the shape the
// store contract promises.
type MalformedError struct {
	Path    string
	Message string
}

func (e *MalformedError) Error() string {
	if e.Path == "" {
		return "malformed response: " + e.Message
	}
	return fmt.Sprintf("malformed response: %s: %s", e.Path, e.Message)
}

// validateUser checks a GET /users/{username} body against the user schema.
func validateUser(body []byte) error {
	schema, err := compileUserSchema()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return &MalformedError{Message: err.Error()}
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &MalformedError{Message: err.Error()}
	}
	return firstLeaf(ve)
}

// firstLeaf walks to the first cause without causes of its own.
func firstLeaf(ve *jsonschema.ValidationError) error {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &MalformedError{
		Path:    strings.TrimPrefix(ve.InstanceLocation, "#"),
		Message: ve.Message,
	}
}
