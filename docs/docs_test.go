package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDoc_ProductsCategoryParam(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]struct {
			Parameters []struct {
				Name string `json:"name"`
				In   string `json:"in"`
			} `json:"parameters"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	params := doc.Paths["/api/products"]["get"].Parameters
	require.Len(t, params, 1)
	assert.Equal(t, "categoryId", params[0].Name)
	assert.Equal(t, "query", params[0].In)
}
