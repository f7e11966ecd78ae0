package vec

// Vec3 представляет трехмерный вектор с целочисленными координатами.
// Используется для смещений и координат, которые могут выходить за пределы мира.
type Vec3 struct {
	X int
	Y int
	Z int
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Neg возвращает противоположный вектор
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Vec3Byte представляет абсолютную позицию в мире 256x256x256.
// Каждая компонента занимает ровно один байт, поэтому любая
// позиция этого типа гарантированно лежит внутри мира.
type Vec3Byte struct {
	X uint8
	Y uint8
	Z uint8
}

// ToVec3 расширяет позицию до знаковых координат
func (p Vec3Byte) ToVec3() Vec3 {
	return Vec3{X: int(p.X), Y: int(p.Y), Z: int(p.Z)}
}

// Container возвращает координаты хранилища 16³, содержащего позицию
func (p Vec3Byte) Container() Vec3Byte {
	return Vec3Byte{X: p.X >> 4, Y: p.Y >> 4, Z: p.Z >> 4}
}

// Local возвращает координаты внутри хранилища 16³
func (p Vec3Byte) Local() Vec3Byte {
	return Vec3Byte{X: p.X & 0x0F, Y: p.Y & 0x0F, Z: p.Z & 0x0F}
}

// Vec3ByteFrom возвращает позицию для знаковых координат, если они
// помещаются в диапазон 0..255 по каждой оси.
func Vec3ByteFrom(v Vec3) (Vec3Byte, bool) {
	if v.X < 0 || v.X > 0xFF || v.Y < 0 || v.Y > 0xFF || v.Z < 0 || v.Z > 0xFF {
		return Vec3Byte{}, false
	}
	return Vec3Byte{X: uint8(v.X), Y: uint8(v.Y), Z: uint8(v.Z)}, true
}
