package output

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"apidocgen/internal/core/errors"
	"apidocgen/internal/engine/definition"
)

const schemaRefPrefix = "#/components/schemas/"

type SchemaOptions struct {
	Title   string
	Version string
}

// SchemaGenerator exports the data types of parsed outputs as OpenAPI 3
// component schemas.
type SchemaGenerator struct {
	opts       SchemaOptions
	components openapi3.Schemas
}

func NewSchemaGenerator(opts SchemaOptions) *SchemaGenerator {
	if opts.Title == "" {
		opts.Title = "API data types"
	}
	if opts.Version == "" {
		opts.Version = "0.0.0"
	}
	return &SchemaGenerator{opts: opts}
}

// Build returns a validated document holding one component schema per data
// type. Duplicate type names across outputs keep the first definition.
func (g *SchemaGenerator) Build(ctx context.Context, outputs []*definition.Output) (*openapi3.T, error) {
	g.components = openapi3.Schemas{}

	var ordered []*definition.DataType
	for _, out := range outputs {
		for _, dt := range out.DataTypes {
			if _, ok := g.components[dt.Name]; ok {
				continue
			}
			// Placeholder first so members can reference any data type.
			g.components[dt.Name] = openapi3.NewSchemaRef("", openapi3.NewObjectSchema())
			ordered = append(ordered, dt)
		}
	}
	for _, dt := range ordered {
		schema := g.components[dt.Name].Value
		schema.Title = dt.Name
		g.fillObject(schema, dt.Members, !dt.IsInterface)
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   g.opts.Title,
			Version: g.opts.Version,
		},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: g.components},
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "validate schema document")
	}
	return doc, nil
}

func (g *SchemaGenerator) Generate(ctx context.Context, outputs []*definition.Output) (string, error) {
	doc, err := g.Build(ctx, outputs)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "marshal schema document")
	}
	return string(data) + "\n", nil
}

func (g *SchemaGenerator) fillObject(schema *openapi3.Schema, members []*definition.Parameter, honorOptional bool) {
	for _, m := range members {
		prop := g.memberSchema(m)
		if m.Comment != "" && prop.Ref == "" {
			prop.Value.Description = m.Comment
		}
		if schema.Properties == nil {
			schema.Properties = openapi3.Schemas{}
		}
		schema.Properties[m.Name] = prop
		if honorOptional && !m.Optional {
			schema.Required = append(schema.Required, m.Name)
		}
	}
}

func (g *SchemaGenerator) memberSchema(p *definition.Parameter) *openapi3.SchemaRef {
	if p.AnonymousType != nil {
		obj := openapi3.NewObjectSchema()
		g.fillObject(obj, p.AnonymousType.Members, true)
		if p.AnonymousType.IsArray {
			return openapi3.NewSchemaRef("", openapi3.NewArraySchema().WithItems(obj))
		}
		return openapi3.NewSchemaRef("", obj)
	}
	return g.typeSchema(p.Type)
}

// typeSchema maps a TypeScript type expression. Types without a JSON shape
// become unconstrained schemas tagged with x-ts-type.
func (g *SchemaGenerator) typeSchema(typ string) *openapi3.SchemaRef {
	typ = strings.TrimSpace(typ)
	if elem, ok := strings.CutSuffix(typ, "[]"); ok {
		items := g.typeSchema(elem)
		arr := openapi3.NewArraySchema()
		arr.Items = items
		return openapi3.NewSchemaRef("", arr)
	}
	switch typ {
	case "string":
		return openapi3.NewSchemaRef("", openapi3.NewStringSchema())
	case "number":
		return openapi3.NewSchemaRef("", openapi3.NewFloat64Schema())
	case "boolean":
		return openapi3.NewSchemaRef("", openapi3.NewBoolSchema())
	case "Object":
		return openapi3.NewSchemaRef("", openapi3.NewObjectSchema())
	}
	if ref, ok := g.components[typ]; ok {
		return openapi3.NewSchemaRef(schemaRefPrefix+typ, ref.Value)
	}

	loose := openapi3.NewSchema()
	if typ == "" {
		typ = "any"
	}
	loose.Extensions = map[string]any{"x-ts-type": typ}
	return openapi3.NewSchemaRef("", loose)
}

// LoadSchema reads back an exported document and validates it.
func LoadSchema(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load schema document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate schema document: %w", err)
	}
	return doc, nil
}
