package light

// Channel - один из четырёх независимых 4-битных каналов освещения
type Channel uint8

const (
	ChannelR Channel = iota
	ChannelG
	ChannelB
	ChannelS // солнечный свет

	ChannelCount // всегда последний: количество каналов
)

// MaxLevel - максимальный уровень освещённости канала
const MaxLevel uint8 = 15

// Channels перечисляет все каналы в порядке упаковки
var Channels = [ChannelCount]Channel{ChannelR, ChannelG, ChannelB, ChannelS}

// String возвращает строковое представление канала
func (c Channel) String() string {
	switch c {
	case ChannelR:
		return "R"
	case ChannelG:
		return "G"
	case ChannelB:
		return "B"
	case ChannelS:
		return "S"
	default:
		return "UNKNOWN"
	}
}

// IsColor возвращает true для каналов, питаемых свечением блоков (R, G, B)
func (c Channel) IsColor() bool {
	return c < ChannelS
}

func (c Channel) shift() uint16 {
	return uint16(c) << 2
}
