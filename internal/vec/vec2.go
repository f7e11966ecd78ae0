package vec

// Vec2 представляет 2D координаты.
// Для колонок мира X соответствует оси X, а Y - оси Z.
type Vec2 struct {
	X, Y int
}
