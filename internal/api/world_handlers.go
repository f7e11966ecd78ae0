package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/annel0/voxel-world/internal/eventbus"
	"github.com/annel0/voxel-world/internal/light"
	"github.com/annel0/voxel-world/internal/physics"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/gin-gonic/gin"
	"github.com/go-gl/mathgl/mgl32"
)

// saveTimeout ограничивает время сохранения по запросу
const saveTimeout = 30 * time.Second

// maxHitBoxSize ограничивает размеры коллайдера в запросе
const maxHitBoxSize = 16

// BlockInfo описывает воксель мира
type BlockInfo struct {
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Z        int      `json:"z"`
	Name     string   `json:"name"`
	LID      uint16   `json:"lid"`
	ID       uint16   `json:"id"`
	Opaque   bool     `json:"opaque"`
	Light    [4]uint8 `json:"light"` // R, G, B, S
	Emission [3]uint8 `json:"emission"`
}

// PlaceBlockRequest задает блок по имени или по сохраняемому ID
type PlaceBlockRequest struct {
	Name string  `json:"name"`
	ID   *uint16 `json:"id"`
}

// RaycastRequest представляет запрос на трассировку луча
type RaycastRequest struct {
	Origin      [3]float32 `json:"origin"`
	Direction   [3]float32 `json:"direction"`
	MaxDistance float32    `json:"max_distance"`
}

// RaycastResponse описывает результат трассировки
type RaycastResponse struct {
	Hit    bool       `json:"hit"`
	Block  string     `json:"block,omitempty"`
	Voxel  [3]int     `json:"voxel"`
	End    [3]float32 `json:"end"`
	Normal [3]float32 `json:"normal"`
}

// CollisionRequest - коллайдер с центром основания в Position и пробное смещение
type CollisionRequest struct {
	Position [3]float32 `json:"position"`
	Width    float32    `json:"width"`
	Height   float32    `json:"height"`
	Offset   [3]float32 `json:"offset"`
}

// CollisionResponse описывает столкновения коллайдера с миром
type CollisionResponse struct {
	Collides bool `json:"collides"`
	CanMove  bool `json:"can_move"`
}

// parsePosition читает координаты вокселя из пути запроса
func parsePosition(c *gin.Context) (vec.Vec3Byte, bool) {
	var coords [3]int
	for i, name := range []string{"x", "y", "z"} {
		v, err := strconv.Atoi(c.Param(name))
		if err != nil {
			return vec.Vec3Byte{}, false
		}
		coords[i] = v
	}
	return vec.Vec3ByteFrom(vec.Vec3{X: coords[0], Y: coords[1], Z: coords[2]})
}

func badPosition(c *gin.Context) {
	c.JSON(http.StatusBadRequest, GenericResponse{
		Success: false,
		Message: "Координаты должны быть целыми числами 0..255",
	})
}

// blockInfo собирает описание вокселя. Вызывается под блокировкой мира.
func (rs *RestServer) blockInfo(pos vec.Vec3Byte) BlockInfo {
	lid := rs.world.GetBlock(pos)
	info := BlockInfo{
		X:      int(pos.X),
		Y:      int(pos.Y),
		Z:      int(pos.Z),
		LID:    uint16(lid),
		Opaque: rs.world.IsOpaque(pos),
	}
	if b, ok := rs.world.Catalog().Get(lid); ok {
		info.Name = b.Name
		info.ID = b.ID
		info.Emission = b.Emission
	}
	for _, ch := range light.Channels {
		info.Light[ch] = rs.world.GetLightLevel(pos, ch)
	}
	return info
}

func (rs *RestServer) blockName(lid block.BlockID) string {
	if b, ok := rs.world.Catalog().Get(lid); ok {
		return b.Name
	}
	return ""
}

func blockChange(info BlockInfo, previous string) eventbus.BlockChange {
	return eventbus.BlockChange{
		X:        info.X,
		Y:        info.Y,
		Z:        info.Z,
		Block:    info.Name,
		ID:       info.ID,
		Previous: previous,
	}
}

// handleGetBlock возвращает блок и освещение вокселя
func (rs *RestServer) handleGetBlock(c *gin.Context) {
	pos, ok := parsePosition(c)
	if !ok {
		badPosition(c)
		return
	}

	rs.mu.RLock()
	info := rs.blockInfo(pos)
	rs.mu.RUnlock()

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Блок получен",
		Data:    info,
	})
}

// handlePlaceBlock ставит блок и пересчитывает освещение
func (rs *RestServer) handlePlaceBlock(c *gin.Context) {
	pos, ok := parsePosition(c)
	if !ok {
		badPosition(c)
		return
	}

	var req PlaceBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}

	catalog := rs.world.Catalog()
	var (
		b     *block.Block
		found bool
	)
	switch {
	case req.ID != nil:
		b, found = catalog.ByID(*req.ID)
	case req.Name != "":
		b, found = catalog.ByName(req.Name)
	}
	if !found {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неизвестный блок",
		})
		return
	}

	rs.mu.Lock()
	previous := rs.blockName(rs.world.GetBlock(pos))
	err := rs.lighting.PlaceBlock(pos, b.LID)
	var info BlockInfo
	if err == nil {
		info = rs.blockInfo(pos)
	}
	rs.mu.Unlock()

	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, block.ErrUnknownBlock) {
			status = http.StatusBadRequest
		}
		rs.logger.Warn("Не удалось поставить блок %s в %v: %v", b.Name, pos, err)
		c.JSON(status, GenericResponse{Success: false, Message: err.Error()})
		return
	}

	rs.logger.Debug("Блок %s поставлен в %v", b.Name, pos)
	rs.emit(c, eventbus.EventBlockPlaced, blockChange(info, previous))
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Блок поставлен",
		Data:    info,
	})
}

// handleBreakBlock заменяет блок воздухом
func (rs *RestServer) handleBreakBlock(c *gin.Context) {
	pos, ok := parsePosition(c)
	if !ok {
		badPosition(c)
		return
	}

	rs.mu.Lock()
	previous := rs.blockName(rs.world.GetBlock(pos))
	err := rs.lighting.BreakBlock(pos)
	var info BlockInfo
	if err == nil {
		info = rs.blockInfo(pos)
	}
	rs.mu.Unlock()

	if err != nil {
		rs.logger.Error("Не удалось сломать блок в %v: %v", pos, err)
		c.JSON(http.StatusInternalServerError, GenericResponse{Success: false, Message: err.Error()})
		return
	}

	rs.emit(c, eventbus.EventBlockBroken, blockChange(info, previous))
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Блок сломан",
		Data:    info,
	})
}

// handleCatalog возвращает список типов блоков
func (rs *RestServer) handleCatalog(c *gin.Context) {
	catalog := rs.world.Catalog()
	blocks := make([]gin.H, 0, catalog.Len())
	for lid := 0; lid < catalog.Len(); lid++ {
		b, _ := catalog.Get(block.BlockID(lid))
		blocks = append(blocks, gin.H{
			"lid":      b.LID,
			"id":       b.ID,
			"name":     b.Name,
			"opaque":   b.Mesh.IsFullCube(),
			"emission": b.Emission,
		})
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Каталог блоков",
		Data: gin.H{
			"blocks": blocks,
			"total":  len(blocks),
		},
	})
}

func finite(values ...float32) bool {
	for _, v := range values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}

// handleRaycast ищет первый непустой блок вдоль луча
func (rs *RestServer) handleRaycast(c *gin.Context) {
	var req RaycastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}
	if req.MaxDistance < 0 || !finite(req.MaxDistance) ||
		!finite(req.Origin[:]...) || !finite(req.Direction[:]...) {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Параметры луча должны быть конечными, дистанция неотрицательной",
		})
		return
	}

	origin := mgl32.Vec3(req.Origin)
	direction := mgl32.Vec3(req.Direction)

	rs.mu.RLock()
	res := rs.world.RayGet(origin, direction, req.MaxDistance)
	rs.mu.RUnlock()

	resp := RaycastResponse{
		Hit:    res.Hit,
		Voxel:  [3]int{res.Voxel.X, res.Voxel.Y, res.Voxel.Z},
		End:    res.End,
		Normal: res.Normal,
	}
	if res.Hit {
		if b, ok := rs.world.Catalog().Get(res.Block); ok {
			resp.Block = b.Name
		}
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Луч обработан",
		Data:    resp,
	})
}

// handleCollision проверяет коллайдер на пересечение с твёрдыми блоками
func (rs *RestServer) handleCollision(c *gin.Context) {
	var req CollisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}
	if !finite(req.Position[:]...) || !finite(req.Offset[:]...) ||
		!finite(req.Width, req.Height) ||
		req.Width <= 0 || req.Height <= 0 || req.Width > maxHitBoxSize || req.Height > maxHitBoxSize {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Размеры коллайдера должны быть в пределах (0, 16]",
		})
		return
	}

	box := physics.NewHitBox(mgl32.Vec3(req.Position), req.Width, req.Height)

	rs.mu.RLock()
	resp := CollisionResponse{
		Collides: box.CollidesWithWorld(rs.world),
		CanMove:  physics.CanMoveToPosition(box, mgl32.Vec3(req.Offset), rs.world),
	}
	rs.mu.RUnlock()

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Коллизии проверены",
		Data:    resp,
	})
}

// handleDirtySubChunks возвращает подчанки, которым нужна перестройка меша.
// С параметром clear=true флаги сбрасываются.
func (rs *RestServer) handleDirtySubChunks(c *gin.Context) {
	reset := c.Query("clear") == "true"

	var dirty []vec.Vec3
	if reset {
		rs.mu.Lock()
		dirty = rs.world.DirtySubChunks()
		rs.world.ClearDirty()
		rs.mu.Unlock()
	} else {
		rs.mu.RLock()
		dirty = rs.world.DirtySubChunks()
		rs.mu.RUnlock()
	}

	if rs.worldMetrics != nil {
		if reset {
			rs.worldMetrics.SetDirtySubChunks(0)
		} else {
			rs.worldMetrics.SetDirtySubChunks(len(dirty))
		}
	}

	list := make([][3]int, 0, len(dirty))
	for _, p := range dirty {
		list = append(list, [3]int{p.X, p.Y, p.Z})
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Изменённые подчанки",
		Data: gin.H{
			"subchunks": list,
			"total":     len(list),
			"cleared":   reset,
		},
	})
}

// handleSave сохраняет мир в хранилище
func (rs *RestServer) handleSave(c *gin.Context) {
	if rs.store == nil {
		c.JSON(http.StatusServiceUnavailable, GenericResponse{
			Success: false,
			Message: "Хранилище не настроено",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), saveTimeout)
	defer cancel()

	start := time.Now()
	rs.mu.RLock()
	err := rs.store.SaveWorld(ctx, rs.world)
	rs.mu.RUnlock()

	if rs.worldMetrics != nil {
		rs.worldMetrics.ObserveSave(rs.backend, err)
	}
	if err != nil {
		rs.logger.Error("❌ Ошибка сохранения мира: %v", err)
		c.JSON(http.StatusInternalServerError, GenericResponse{
			Success: false,
			Message: "Ошибка сохранения мира",
		})
		return
	}

	elapsed := time.Since(start)
	rs.logger.Info("💾 Мир сохранён за %v", elapsed)
	rs.emit(c, eventbus.EventWorldSaved, eventbus.WorldSaved{Backend: rs.backend, Duration: elapsed})
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Мир сохранён",
		Data: gin.H{
			"backend":     rs.backend,
			"duration_ms": elapsed.Milliseconds(),
		},
	})
}
