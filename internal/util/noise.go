package util

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Noise2D - источник двумерного шума со значениями в диапазоне [0, 1]
type Noise2D interface {
	Noise2D(x, y float64) float64
}

// Виды источников шума
const (
	NoisePerlin  = "perlin"
	NoiseSimplex = "simplex"
)

// PerlinNoise - шум Перлина
type PerlinNoise struct {
	perlin *perlin.Perlin
}

// NewPerlin создаёт генератор шума Перлина с указанным сидом
func NewPerlin(seed int64) *PerlinNoise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &PerlinNoise{perlin: perlin.NewPerlin(alpha, beta, n, seed)}
}

// Noise2D возвращает значение шума Перлина для указанных координат (от 0 до 1)
func (p *PerlinNoise) Noise2D(x, y float64) float64 {
	// Значение шума в диапазоне примерно от -1 до 1
	return clamp01((p.perlin.Noise2D(x, y) + 1.0) / 2.0)
}

// SimplexNoise - шум OpenSimplex
type SimplexNoise struct {
	noise opensimplex.Noise
}

// NewSimplex создаёт генератор шума OpenSimplex с указанным сидом
func NewSimplex(seed int64) *SimplexNoise {
	return &SimplexNoise{noise: opensimplex.NewNormalized(seed)}
}

// Noise2D возвращает значение шума OpenSimplex (от 0 до 1)
func (s *SimplexNoise) Noise2D(x, y float64) float64 {
	return clamp01(s.noise.Eval2(x, y))
}

// NewNoise создаёт источник шума по названию вида
func NewNoise(kind string, seed int64) (Noise2D, error) {
	switch kind {
	case NoisePerlin, "":
		return NewPerlin(seed), nil
	case NoiseSimplex:
		return NewSimplex(seed), nil
	default:
		return nil, fmt.Errorf("неизвестный вид шума: %q", kind)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
