package apiv1

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The published OpenAPI document must stay valid and keep describing the
// routes the API actually serves.
func TestOpenAPIDocument(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile("../../../public/docs/v1/openapi.yml")
	require.NoError(t, err)

	require.NoError(t, doc.Validate(context.Background()))

	for _, path := range []string{
		"/ping",
		"/me",
		"/subscription",
		"/chat/messages",
		"/chat/messages/{uuid}",
		"/chat/export",
		"/admin/users",
		"/admin/analytics",
	} {
		assert.NotNil(t, doc.Paths.Find(path), "path %s missing from document", path)
	}

	assert.Equal(t, "Smart Study AI Solution API", doc.Info.Title)
}
