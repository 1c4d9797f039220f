package catalog

import (
	"encoding/json"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
)

// FlavorCount is the number of schema/description templates a variant cycles through.
const FlavorCount = 10

// Flavor returns the template slot used by the tool at index.
func Flavor(index int) int {
	f := index % FlavorCount
	if f < 0 {
		f += FlavorCount
	}
	return f
}

// SchemaShape builds the input schema for the tool at index.
type SchemaShape func(index int) *jsonschema.Schema

// schemaShapes is indexed by flavor.
var schemaShapes = [FlavorCount]SchemaShape{
	arithmeticSchema,
	searchSchema,
	userTagsSchema,
	pathWalkSchema,
	idBatchSchema,
	nestedPayloadSchema,
	textTransformSchema,
	geoRadiusSchema,
	currencySchema,
	seededSampleSchema,
}

// ShapeFor returns the schema shape for flavor.
func ShapeFor(flavor int) SchemaShape {
	return schemaShapes[Flavor(flavor)]
}

func arithmeticSchema(int) *jsonschema.Schema {
	return object(map[string]*jsonschema.Schema{
		"a":  {Type: "number", Description: "First number"},
		"b":  {Type: "number", Description: "Second number"},
		"op": {Type: "string", Enum: []any{"add", "sub", "mul", "div"}, Default: raw(`"add"`)},
	}, "a", "b")
}

func searchSchema(int) *jsonschema.Schema {
	return object(map[string]*jsonschema.Schema{
		"query":       {Type: "string"},
		"limit":       {Type: "integer", Minimum: ptr(1.0), Maximum: ptr(50.0), Default: raw(`5`)},
		"includeMeta": {Type: "boolean", Default: raw(`true`)},
	}, "query")
}

func userTagsSchema(int) *jsonschema.Schema {
	return object(map[string]*jsonschema.Schema{
		"userId": {Type: "string", Pattern: "^[a-zA-Z0-9_-]{3,32}$"},
		"tags":   {Type: "array", Items: &jsonschema.Schema{Type: "string"}, MaxItems: ptr(10)},
		"since":  {Type: "string", Format: "date-time"},
	}, "userId")
}

func pathWalkSchema(int) *jsonschema.Schema {
	return object(map[string]*jsonschema.Schema{
		"path":      {Type: "string", Description: "A pretend file path"},
		"recursive": {Type: "boolean", Default: raw(`false`)},
		"depth":     {Type: "integer", Minimum: ptr(0.0), Maximum: ptr(10.0), Default: raw(`2`)},
	}, "path")
}

func idBatchSchema(int) *jsonschema.Schema {
	return object(map[string]*jsonschema.Schema{
		"ids":  {Type: "array", Items: &jsonschema.Schema{Type: "integer"}, MinItems: ptr(1), MaxItems: ptr(20)},
		"mode": {Type: "string", Enum: []any{"brief", "full"}},
	}, "ids")
}

func nestedPayloadSchema(int) *jsonschema.Schema {
	payload := object(map[string]*jsonschema.Schema{
		"name":   {Type: "string"},
		"count":  {Type: "integer", Minimum: ptr(0.0), Maximum: ptr(1000.0)},
		"active": {Type: "boolean"},
	}, "name")
	return object(map[string]*jsonschema.Schema{
		"payload": payload,
		"traceId": {Type: "string"},
	}, "payload")
}

func textTransformSchema(int) *jsonschema.Schema {
	return object(map[string]*jsonschema.Schema{
		"text":      {Type: "string"},
		"transform": {Type: "string", Enum: []any{"upper", "lower", "title", "reverse"}, Default: raw(`"upper"`)},
	}, "text")
}

func geoRadiusSchema(int) *jsonschema.Schema {
	return object(map[string]*jsonschema.Schema{
		"lat":      {Type: "number", Minimum: ptr(-90.0), Maximum: ptr(90.0)},
		"lon":      {Type: "number", Minimum: ptr(-180.0), Maximum: ptr(180.0)},
		"radiusKm": {Type: "number", Minimum: ptr(0.0), Maximum: ptr(2000.0), Default: raw(`5`)},
	}, "lat", "lon")
}

func currencySchema(int) *jsonschema.Schema {
	return object(map[string]*jsonschema.Schema{
		"currency":         {Type: "string", Enum: []any{"USD", "EUR", "GBP", "JPY"}, Default: raw(`"USD"`)},
		"amount":           {Type: "number", Minimum: ptr(0.0)},
		"includeBreakdown": {Type: "boolean", Default: raw(`false`)},
	}, "amount")
}

func seededSampleSchema(index int) *jsonschema.Schema {
	return object(map[string]*jsonschema.Schema{
		"seed":  {Type: "integer", Minimum: ptr(0.0), Maximum: ptr(1000000.0), Default: raw(strconv.Itoa(index * 1337))},
		"count": {Type: "integer", Minimum: ptr(1.0), Maximum: ptr(25.0), Default: raw(`3`)},
		"kind":  {Type: "string", Enum: []any{"alpha", "beta", "gamma"}, Default: raw(`"alpha"`)},
	})
}

// object builds a closed object schema.
func object(properties map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           properties,
		Required:             required,
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}

func raw(s string) json.RawMessage {
	return json.RawMessage(s)
}

func ptr[T any](v T) *T {
	return &v
}
