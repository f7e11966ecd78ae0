package block

// Сохраняемые идентификаторы стандартного контента
const (
	AirID       uint16 = 0
	UnknownID   uint16 = 1
	DirtID      uint16 = 2
	GrassID     uint16 = 3
	BedrockID   uint16 = 4
	StoneID     uint16 = 5
	GlowstoneID uint16 = 6
	GlassID     uint16 = 7
	RedLampID   uint16 = 8
	BlueLampID  uint16 = 9
)

// Имена стандартного контента
const (
	AirName       = "air"
	UnknownName   = "unknown"
	DirtName      = "dirt"
	GrassName     = "grass"
	BedrockName   = "bedrock"
	StoneName     = "stone"
	GlowstoneName = "glowstone"
	GlassName     = "glass"
	RedLampName   = "red_lamp"
	BlueLampName  = "blue_lamp"
)

// DefaultDefinitions возвращает стандартный набор блоков
func DefaultDefinitions() []Definition {
	return []Definition{
		{ID: AirID, Name: AirName, Mesh: CustomMesh()},
		{ID: UnknownID, Name: UnknownName, Mesh: CubeMesh("unknown")},
		{ID: DirtID, Name: DirtName, Mesh: CubeMesh("dirt")},
		{ID: GrassID, Name: GrassName, Mesh: Mesh{Kind: MeshCube, Faces: []string{"grass_top", "dirt", "grass_side", "grass_side", "grass_side", "grass_side"}}},
		{ID: BedrockID, Name: BedrockName, Mesh: CubeMesh("bedrock")},
		{ID: StoneID, Name: StoneName, Mesh: CubeMesh("stone")},
		{ID: GlowstoneID, Name: GlowstoneName, Emission: [3]uint8{15, 15, 15}, Mesh: CubeMesh("glowstone")},
		{ID: GlassID, Name: GlassName, Mesh: CustomMesh("glass")},
		{ID: RedLampID, Name: RedLampName, Emission: [3]uint8{14, 0, 0}, Mesh: CustomMesh("red_lamp")},
		{ID: BlueLampID, Name: BlueLampName, Emission: [3]uint8{0, 0, 12}, Mesh: CustomMesh("blue_lamp")},
	}
}

// DefaultCatalog создаёт каталог стандартного контента
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultDefinitions())
	if err != nil {
		panic(err)
	}
	return c
}
