package glhf

// AttrFormat lists the attributes of a vertex or the uniforms of a shader, in order.
type AttrFormat []Attr

// Size returns the number of bytes one vertex of this format occupies.
func (af AttrFormat) Size() int {
	total := 0
	for _, attr := range af {
		total += attr.Type.Size()
	}
	return total
}

type Attr struct {
	Name string
	Type AttrType
}

type AttrType int

const (
	Int AttrType = iota
	UInt
	Float
	Vec2
	Vec3
	Vec4
	Mat4
)

// Size returns the number of bytes of one value of the type.
func (at AttrType) Size() int {
	switch at {
	case Int, UInt, Float:
		return 4
	case Vec2:
		return 2 * 4
	case Vec3:
		return 3 * 4
	case Vec4:
		return 4 * 4
	case Mat4:
		return 4 * 4 * 4
	default:
		panic("size of vertex attribute type: invalid type")
	}
}
