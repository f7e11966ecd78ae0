package block

// MeshKind различает форму блока
type MeshKind uint8

const (
	MeshCube   MeshKind = iota // полный куб: непрозрачен для света и луча
	MeshCustom                 // произвольная форма: свет и луч проходят
)

// String возвращает строковое представление формы
func (k MeshKind) String() string {
	switch k {
	case MeshCube:
		return "cube"
	case MeshCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Mesh описывает форму блока.
// Для MeshCube Faces содержит шесть граней (top, bottom, front, back, right, left),
// для MeshCustom - произвольный список. Сами грани потребляет генератор мешей.
type Mesh struct {
	Kind  MeshKind
	Faces []string
}

// CubeMesh создаёт полнокубическую форму с одной гранью на все стороны
func CubeMesh(face string) Mesh {
	return Mesh{Kind: MeshCube, Faces: []string{face, face, face, face, face, face}}
}

// CustomMesh создаёт произвольную форму
func CustomMesh(faces ...string) Mesh {
	return Mesh{Kind: MeshCustom, Faces: faces}
}

// IsFullCube возвращает true, если блок непрозрачен
func (m Mesh) IsFullCube() bool {
	return m.Kind == MeshCube
}
