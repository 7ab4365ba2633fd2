package schema

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// ToJSONSchema converts a struct to a JSON schema. Optional values are
// described as plain strings and transform kinds as an enum.
func ToJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	r.Mapper = func(t reflect.Type) *jsonschema.Schema {
		if strings.HasPrefix(t.String(), "optional.Option[") {
			return &jsonschema.Schema{Type: "string"}
		}

		if t == reflect.TypeOf(types.TransformKind("")) {
			return &jsonschema.Schema{Type: "string", Enum: types.AllTransformKinds}
		}

		return nil
	}
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}
