package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"moderation-console/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	AdDecisionRecordedEvent = "AdDecisionRecordedEvent"
	DecisionRequest         = "DecisionRequest"

	VersionV1 = "1.0.0"
)

// каталог схем -> суффикс ключа
var schemaRoots = map[string]string{
	"events":   "Event",
	"requests": "Request",
}

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	for root := range schemaRoots {
		err := fs.WalkDir(schemas.SchemasFS, root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".json") {
				return nil
			}
			file, err := schemas.SchemasFS.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()
			if err := compiler.AddResource(path, file); err != nil {
				return fmt.Errorf("failed to add schema resource %s: %w", path, err)
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			log.Fatalf("error walking and adding schema resources: %v", err)
		}
	}

	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			log.Fatalf("could not compile schema %s: %v", path, err)
		}
		key := generateKeyFromPath(path)
		if key == "" {
			continue
		}
		compiledSchemas[key] = schema
	}
}

// generateKeyFromPath: "events/ad-decision-recorded/v1.json" -> "AdDecisionRecordedEvent/1.0.0",
// "requests/decision/v1.json" -> "DecisionRequest/1.0.0".
func generateKeyFromPath(path string) string {
	parts := strings.Split(strings.TrimSuffix(path, ".json"), "/")
	if len(parts) != 3 {
		return ""
	}
	suffix, ok := schemaRoots[parts[0]]
	if !ok {
		return ""
	}

	caser := cases.Title(language.English)

	var name strings.Builder
	for _, p := range strings.Split(parts[1], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString(suffix)

	version := strings.Replace(parts[2], "v", "", 1) + ".0.0"

	return fmt.Sprintf("%s/%s", name.String(), version)
}

// Validate проверяет JSON-документ по зарегистрированной схеме.
func Validate(schemaName, version string, body []byte) error {
	key := fmt.Sprintf("%s/%s", schemaName, version)
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema '%s' version '%s' not found", schemaName, version)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
