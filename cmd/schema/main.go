// Command schema reflects the demo options block and the command-line
// Options struct into JSON Schema documents: a build-time tool that turns
// jsonschema-tagged Go structs into machine-readable documents for tooling
// and editor support, never imported by the engine itself.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"
	"github.com/invopop/jsonschema"

	"doomcore/internal/demo"
	"doomcore/internal/options"
)

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write schema documents into")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	docs := map[string]*jsonschema.Schema{
		"demo-options.schema.json": buildSchema(new(demo.Options),
			"Demo Options Block",
			"Validates the options block shared by the demo codec and the save serializer."),
		"cli-options.schema.json": buildSchema(new(options.Options),
			"Command-Line Options",
			"Validates the fully resolved command-line configuration for one engine run."),
	}

	for name, schema := range docs {
		if err := writeSchema(filepath.Join(outDir, name), schema); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", name, err)
			os.Exit(1)
		}
	}
}

func buildSchema(v any, title, description string) *jsonschema.Schema {
	reflector := jsonschema.Reflector{AllowAdditionalProperties: true}
	schema := reflector.Reflect(v)
	schema.Title = title
	schema.Description = description
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	return os.Rename(tmpPath, outPath)
}
