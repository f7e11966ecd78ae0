package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogAssignsLoadedIDs(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, len(DefaultDefinitions()), c.Len())

	air, ok := c.ByName(AirName)
	require.True(t, ok)
	assert.Equal(t, AirBlockID, air.LID, "Воздух должен получить загруженный ID 0")

	glow, ok := c.ByID(GlowstoneID)
	require.True(t, ok)
	assert.Equal(t, GlowstoneName, glow.Name)

	got, ok := c.Get(glow.LID)
	require.True(t, ok)
	assert.Same(t, glow, got)
}

func TestCatalogOpacityAndEmission(t *testing.T) {
	c := DefaultCatalog()

	assert.False(t, c.IsOpaque(AirBlockID), "Воздух прозрачен")
	assert.True(t, c.IsOpaque(c.MustLID(StoneName)), "Камень - полный куб")
	assert.False(t, c.IsOpaque(c.MustLID(GlassName)), "Стекло - произвольная форма")
	assert.True(t, c.IsOpaque(BlockID(60000)), "Неизвестный ID считается непрозрачным")

	lamp := c.MustLID(RedLampName)
	assert.Equal(t, uint8(14), c.Emission(lamp, 0))
	assert.Equal(t, uint8(0), c.Emission(lamp, 1))
	assert.Equal(t, uint8(0), c.Emission(lamp, 7), "Несуществующий канал не светится")
	assert.True(t, c.Emits(lamp))
	assert.False(t, c.Emits(c.MustLID(DirtName)))
}

func TestMustLIDPanicsOnUnknownName(t *testing.T) {
	c := DefaultCatalog()
	assert.PanicsWithValue(t, `блок "obsidian" отсутствует в каталоге`, func() {
		c.MustLID("obsidian")
	})
}

func TestNewCatalogValidation(t *testing.T) {
	air := Definition{ID: 0, Name: "air", Mesh: CustomMesh()}

	_, err := NewCatalog(nil)
	assert.ErrorIs(t, err, ErrNoAir)

	_, err = NewCatalog([]Definition{{ID: 0, Name: "solid", Mesh: CubeMesh("x")}})
	assert.ErrorIs(t, err, ErrNoAir, "Воздух не может быть полным кубом")

	_, err = NewCatalog([]Definition{air, {ID: 1, Name: "air", Mesh: CubeMesh("x")}})
	assert.ErrorIs(t, err, ErrRedefinition, "Повтор имени")

	_, err = NewCatalog([]Definition{air, {ID: 0, Name: "other", Mesh: CubeMesh("x")}})
	assert.ErrorIs(t, err, ErrRedefinition, "Повтор ID")

	_, err = NewCatalog([]Definition{air, {ID: 1, Name: "sun", Emission: [3]uint8{16, 0, 0}, Mesh: CubeMesh("x")}})
	assert.ErrorIs(t, err, ErrEmissionOutOfRange)
}

func TestMeshKind(t *testing.T) {
	assert.True(t, CubeMesh("a").IsFullCube())
	assert.Len(t, CubeMesh("a").Faces, 6)
	assert.False(t, CustomMesh("a", "b").IsFullCube())
	assert.Equal(t, "cube", MeshCube.String())
	assert.Equal(t, "custom", MeshCustom.String())
}
