package httpapi

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/identity"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/models"
)

// vectorPathPattern matches spec.md §3/§6's required vector_path
// suffix.
var vectorPathPattern = regexp.MustCompile(`.+\.knnvec$`)

// Enum fields are pydantic Enum members in the original source
// (_examples/original_source/.../index_build_parameters.py), which
// reject unknown values automatically; Go's named string types don't,
// so validateFields checks membership explicitly below.
var (
	validRepositoryTypes = map[models.RepositoryType]bool{
		models.RepositoryTypeS3:     true,
		models.RepositoryTypeMemory: true,
	}
	validEngines = map[models.Engine]bool{
		models.EngineFAISS: true,
	}
	// Only float is accepted on the wire; the other identity.DataType
	// values exist for memory estimation only.
	validDataTypes = map[identity.DataType]bool{
		identity.DataTypeFloat: true,
	}
	validAlgorithms = map[models.Algorithm]bool{
		models.AlgorithmHNSW: true,
	}
	validSpaceTypes = map[models.SpaceType]bool{
		models.SpaceTypeL2:           true,
		models.SpaceTypeInnerProduct: true,
	}
)

// FieldError is one entry of a validation error response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ValidationError carries one or more FieldErrors and renders as the
// {"detail":"Validation Error","errors":[...]} body spec.md §6
// requires.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %d field(s)", len(e.Errors))
}

// location is a path segment: either a string (object key) or an int
// (array index).
type location []interface{}

// fieldPath joins string locations with "." and integer locations as
// "[n]", with no leading ".".
func fieldPath(loc location) string {
	var b strings.Builder
	for _, part := range loc {
		switch v := part.(type) {
		case string:
			if b.Len() > 0 {
				b.WriteString(".")
			}
			b.WriteString(v)
		case int:
			fmt.Fprintf(&b, "[%d]", v)
		}
	}
	return b.String()
}

var knownTopLevelFields = map[string]bool{
	"repository_type":  true,
	"container_name":   true,
	"vector_path":      true,
	"doc_id_path":      true,
	"tenant_id":        true,
	"dimension":        true,
	"doc_count":        true,
	"data_type":        true,
	"engine":           true,
	"index_parameters": true,
}

// decodeBuildRequest decodes raw JSON into IndexBuildParameters,
// rejecting unknown top-level fields and collecting per-field
// validation errors rather than failing on the first one.
func decodeBuildRequest(body []byte) (models.IndexBuildParameters, *ValidationError) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.IndexBuildParameters{}, &ValidationError{Errors: []FieldError{
			{Field: "", Message: "request body must be a JSON object", Type: "value_error"},
		}}
	}

	var errs []FieldError
	for key := range raw {
		if !knownTopLevelFields[key] {
			errs = append(errs, FieldError{
				Field:   fieldPath(location{key}),
				Message: "extra fields not permitted",
				Type:    "value_error.extra",
			})
		}
	}

	params := models.IndexBuildParameters{
		RepositoryType:  models.RepositoryTypeS3,
		Engine:          models.EngineFAISS,
		DataType:        "float",
		IndexParameters: models.DefaultIndexParameters(),
	}
	if err := json.Unmarshal(body, &params); err != nil {
		errs = append(errs, FieldError{Field: "", Message: err.Error(), Type: "type_error"})
		return params, &ValidationError{Errors: errs}
	}

	errs = append(errs, validateFields(params)...)

	if len(errs) > 0 {
		return params, &ValidationError{Errors: errs}
	}
	return params, nil
}

func validateFields(params models.IndexBuildParameters) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(params.VectorPath) == "" || !vectorPathPattern.MatchString(params.VectorPath) {
		errs = append(errs, FieldError{
			Field:   fieldPath(location{"vector_path"}),
			Message: "vector_path must match pattern .+\\.knnvec$",
			Type:    "value_error.str.regex",
		})
	}
	if strings.TrimSpace(params.ContainerName) == "" {
		errs = append(errs, FieldError{
			Field:   fieldPath(location{"container_name"}),
			Message: "container_name is required",
			Type:    "value_error.missing",
		})
	}
	if strings.TrimSpace(params.DocIDPath) == "" {
		errs = append(errs, FieldError{
			Field:   fieldPath(location{"doc_id_path"}),
			Message: "doc_id_path is required",
			Type:    "value_error.missing",
		})
	}
	if params.Dimension <= 0 {
		errs = append(errs, FieldError{
			Field:   fieldPath(location{"dimension"}),
			Message: "dimension must be greater than 0",
			Type:    "value_error.number.not_gt",
		})
	}
	if params.DocCount <= 1 {
		errs = append(errs, FieldError{
			Field:   fieldPath(location{"doc_count"}),
			Message: "doc_count must be greater than 1",
			Type:    "value_error.number.not_gt",
		})
	}
	if !validRepositoryTypes[params.RepositoryType] {
		errs = append(errs, FieldError{
			Field:   fieldPath(location{"repository_type"}),
			Message: fmt.Sprintf("unsupported repository_type %q", params.RepositoryType),
			Type:    "value_error.enum",
		})
	}
	if !validEngines[params.Engine] {
		errs = append(errs, FieldError{
			Field:   fieldPath(location{"engine"}),
			Message: fmt.Sprintf("unsupported engine %q", params.Engine),
			Type:    "value_error.enum",
		})
	}
	if !validDataTypes[params.DataType] {
		errs = append(errs, FieldError{
			Field:   fieldPath(location{"data_type"}),
			Message: fmt.Sprintf("unsupported data_type %q", params.DataType),
			Type:    "value_error.enum",
		})
	}
	if !validAlgorithms[params.IndexParameters.Algorithm] {
		errs = append(errs, FieldError{
			Field:   fieldPath(location{"index_parameters", "algorithm"}),
			Message: fmt.Sprintf("unsupported algorithm %q", params.IndexParameters.Algorithm),
			Type:    "value_error.enum",
		})
	}
	if !validSpaceTypes[params.IndexParameters.SpaceType] {
		errs = append(errs, FieldError{
			Field:   fieldPath(location{"index_parameters", "space_type"}),
			Message: fmt.Sprintf("unsupported space_type %q", params.IndexParameters.SpaceType),
			Type:    "value_error.enum",
		})
	}

	return errs
}
