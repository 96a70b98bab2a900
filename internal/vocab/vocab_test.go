package vocab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets(t *testing.T) {
	t.Parallel()

	t.Run("OWL2", func(t *testing.T) {
		t.Parallel()
		v := OWL2()
		require.NoError(t, v.Validate())
		assert.Equal(t, "http://www.w3.org/1999/02/22-rdf-syntax-ns#type", v.RDFType)
		assert.Equal(t, "http://www.w3.org/2002/07/owl#qualifiedCardinality", v.QualifiedCardinality)
	})

	t.Run("OWL11", func(t *testing.T) {
		t.Parallel()
		v := OWL11()
		require.NoError(t, v.Validate())
		assert.Equal(t, OWL11NS+"onClass", v.OnClass)
		assert.Equal(t, OWL11NS+"onDataRange", v.OnDataRange)
		assert.True(t, v.IsBuiltIn(v.QualifiedCardinality))
		assert.Equal(t, OWL+"cardinality", v.Cardinality)
	})

	t.Run("ByName", func(t *testing.T) {
		t.Parallel()
		v, err := ByName("OWL11")
		require.NoError(t, err)
		assert.Equal(t, "owl11", v.Name)

		_, err = ByName("owl3")
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("OverridesKeepDefaults", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		content := "name: custom\non_class: http://example.org/onClass\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		v, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "custom", v.Name)
		assert.Equal(t, "http://example.org/onClass", v.OnClass)
		assert.Equal(t, OWL+"onProperty", v.OnProperty)
	})

	t.Run("EmptyEntryRejected", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		require.NoError(t, os.WriteFile(path, []byte("on_property: \"\"\n"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("ResolveFallsBackToFile", func(t *testing.T) {
		t.Parallel()
		_, err := Resolve("/nonexistent/vocab.yaml")
		assert.Error(t, err)

		v, err := Resolve("owl2")
		require.NoError(t, err)
		assert.Equal(t, "owl2", v.Name)
	})
}

func TestIsBuiltIn(t *testing.T) {
	t.Parallel()

	v := OWL2()
	assert.True(t, v.IsBuiltIn(v.Restriction))
	assert.True(t, v.IsBuiltIn(XSD+"integer"))
	assert.False(t, v.IsBuiltIn("http://example.org/Person"))
	assert.True(t, v.IsBuiltIn(v.TransitiveProperty))
	assert.True(t, v.IsBuiltIn(v.RDFSClass))
	assert.Len(t, v.CardinalityPredicates(), 6)
}
