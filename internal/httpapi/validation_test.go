package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBuildRequestBodyWithField(field, value string) string {
	return `{
		"container_name": "bucket",
		"vector_path": "x.knnvec",
		"doc_id_path": "x.knndid",
		"dimension": 3,
		"doc_count": 5,
		"` + field + `": "` + value + `"
	}`
}

func TestDecodeBuildRequestRejectsUnsupportedRepositoryType(t *testing.T) {
	_, verr := decodeBuildRequest([]byte(validBuildRequestBodyWithField("repository_type", "ftp")))
	require.NotNil(t, verr)

	var found bool
	for _, e := range verr.Errors {
		if e.Field == "repository_type" {
			found = true
		}
	}
	assert.True(t, found, "expected a repository_type field error, got %+v", verr.Errors)
}

func TestDecodeBuildRequestRejectsUnsupportedEngine(t *testing.T) {
	_, verr := decodeBuildRequest([]byte(validBuildRequestBodyWithField("engine", "bruteforce")))
	require.NotNil(t, verr)

	var found bool
	for _, e := range verr.Errors {
		if e.Field == "engine" {
			found = true
		}
	}
	assert.True(t, found, "expected an engine field error, got %+v", verr.Errors)
}

func TestDecodeBuildRequestRejectsUnsupportedDataType(t *testing.T) {
	_, verr := decodeBuildRequest([]byte(validBuildRequestBodyWithField("data_type", "double")))
	require.NotNil(t, verr)

	var found bool
	for _, e := range verr.Errors {
		if e.Field == "data_type" {
			found = true
		}
	}
	assert.True(t, found, "expected a data_type field error, got %+v", verr.Errors)
}

func TestDecodeBuildRequestAcceptsDefaultedEnums(t *testing.T) {
	_, verr := decodeBuildRequest([]byte(validBuildRequestBody()))
	assert.Nil(t, verr)
}
