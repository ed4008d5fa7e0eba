package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	invoiceCreateSchema    = mustCompileSchema(buildInvoiceCreateSchema())
	invoiceUpdateSchema    = mustCompileSchema(buildInvoiceUpdateSchema())
	extractionOutputSchema = mustCompileSchema(buildExtractionOutputSchema())
)

// mustCompileSchema compiles a schema map once at package init.
func mustCompileSchema(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add schema: %v", err))
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return schema
}

// validateJSON validates raw JSON against a compiled schema.
func validateJSON(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return err
	}
	return nil
}
