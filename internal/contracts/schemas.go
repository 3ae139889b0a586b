package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas
var schemasFS embed.FS

const RegionListV1 = "regions/v1"

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// Сначала регистрируем все схемы как ресурсы, чтобы работали $ref между ними
	err := fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		data, err := schemasFS.ReadFile(path)
		if err != nil {
			return err
		}
		return compiler.AddResource(path, bytes.NewReader(data))
	})
	if err != nil {
		panic(fmt.Sprintf("contracts: failed to add schema resources: %v", err))
	}

	err = fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return fmt.Errorf("compile %s: %w", path, err)
		}
		compiledSchemas[keyFromPath(path)] = schema
		return nil
	})
	if err != nil {
		panic(fmt.Sprintf("contracts: failed to compile schemas: %v", err))
	}
}

// keyFromPath: "schemas/regions/v1.json" -> "regions/v1"
func keyFromPath(path string) string {
	return strings.TrimSuffix(strings.TrimPrefix(path, "schemas/"), ".json")
}

// Validate проверяет сырой JSON против зарегистрированной схемы.
func Validate(key string, raw []byte) error {
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema %q is not registered", key)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("payload does not match schema %s: %w", key, err)
	}
	return nil
}
