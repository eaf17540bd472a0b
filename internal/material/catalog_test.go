package material

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestResolveKnownID(t *testing.T) {
	c := NewCatalog(nil)
	s := c.Resolve("walnut")
	assert.Equal(t, "walnut", s.ID)
	assert.Equal(t, "Walnut", s.DisplayName)
	assert.NotZero(t, s.PricePerM3)
}

func TestResolveUnknownIDFallsBackWithOneWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := NewCatalog(zap.New(core))

	s := c.Resolve("mahogany")
	assert.Equal(t, DefaultID, s.ID, "unknown id resolves to the default entry")

	entries := logs.FilterMessage("unknown material id, using default").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "mahogany", entries[0].ContextMap()["material_id"])
}

func TestResolveNeverFails(t *testing.T) {
	c := NewCatalog(nil)
	for _, id := range []string{"", "OAK", "oak ", "does-not-exist"} {
		s := c.Resolve(id)
		assert.NotEmpty(t, s.ID, "resolution is total for %q", id)
	}
}

func TestLoadFileMergesOverBuiltins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "materials.yaml")
	yaml := `materials:
  - id: oak
    display_name: Rustic oak
    base_color: [160, 130, 90]
    price_per_m3: 11000
  - id: bamboo
    display_name: Bamboo
    base_color: [205, 180, 128]
    finish:
      roughness: 0.6
      reflectivity: 0.2
    price_per_m3: 8800
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	c := NewCatalog(nil)
	require.NoError(t, c.LoadFile(path))

	oak := c.Resolve("oak")
	assert.Equal(t, "Rustic oak", oak.DisplayName, "file entry replaces the builtin")
	assert.InDelta(t, 11000, oak.PricePerM3, 0.01)

	bamboo := c.Resolve("bamboo")
	assert.Equal(t, "Bamboo", bamboo.DisplayName, "new ids are added")
	assert.InDelta(t, 0.6, bamboo.Finish.Roughness, 1e-6)

	assert.Contains(t, c.IDs(), "bamboo")
}

func TestLoadFileMissingIsNotAnError(t *testing.T) {
	c := NewCatalog(nil)
	require.NoError(t, c.LoadFile(filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Equal(t, "oak", c.Resolve("oak").ID)
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "materials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("materials: {not a list"), 0o644))
	c := NewCatalog(nil)
	assert.Error(t, c.LoadFile(path))
}

func TestIDsSorted(t *testing.T) {
	c := NewCatalog(nil)
	ids := c.IDs()
	require.NotEmpty(t, ids)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}
