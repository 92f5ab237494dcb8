package shaderdbg

import "math"

// VarType is the declared base type of a shader variable.
type VarType uint8

const (
	VarFloat VarType = iota
	VarInt
	VarUInt
	VarDouble
)

var varTypeNames = [...]string{
	VarFloat:  "float",
	VarInt:    "int",
	VarUInt:   "uint",
	VarDouble: "double",
}

// String returns the HLSL-style name of the type.
func (t VarType) String() string {
	if int(t) < len(varTypeNames) {
		return varTypeNames[t]
	}
	return "unknown"
}

// MaxLanes is the number of 32-bit lanes a ShaderValue holds (a 4x4 matrix).
const MaxLanes = 16

// ShaderValue is the raw storage of a register. The same bits are viewed
// as float, int, uint or double depending on the cast the user asks for.
// Out of range lane indices read as zero.
type ShaderValue struct {
	Lanes [MaxLanes]uint32
}

// U returns lane i as an unsigned integer.
func (v ShaderValue) U(i int) uint32 {
	if i < 0 || i >= MaxLanes {
		return 0
	}
	return v.Lanes[i]
}

// I returns lane i as a signed integer.
func (v ShaderValue) I(i int) int32 {
	return int32(v.U(i))
}

// F returns lane i as a float.
func (v ShaderValue) F(i int) float32 {
	return math.Float32frombits(v.U(i))
}

// D returns double i, built from lanes 2i (low word) and 2i+1 (high word).
func (v ShaderValue) D(i int) float64 {
	lo := uint64(v.U(2 * i))
	hi := uint64(v.U(2*i + 1))
	return math.Float64frombits(hi<<32 | lo)
}

// FloatValue packs floats into consecutive lanes.
func FloatValue(f ...float32) ShaderValue {
	var v ShaderValue
	for i := 0; i < len(f) && i < MaxLanes; i++ {
		v.Lanes[i] = math.Float32bits(f[i])
	}
	return v
}

// IntValue packs signed integers into consecutive lanes.
func IntValue(n ...int32) ShaderValue {
	var v ShaderValue
	for i := 0; i < len(n) && i < MaxLanes; i++ {
		v.Lanes[i] = uint32(n[i])
	}
	return v
}

// UIntValue packs unsigned integers into consecutive lanes.
func UIntValue(n ...uint32) ShaderValue {
	var v ShaderValue
	copy(v.Lanes[:], n)
	return v
}

// DoubleValue packs doubles into lane pairs.
func DoubleValue(d ...float64) ShaderValue {
	var v ShaderValue
	for i := 0; i < len(d) && 2*i+1 < MaxLanes; i++ {
		bits := math.Float64bits(d[i])
		v.Lanes[2*i] = uint32(bits)
		v.Lanes[2*i+1] = uint32(bits >> 32)
	}
	return v
}

// ShaderVariable is a named register or constant.
type ShaderVariable struct {
	Name    string
	Rows    int
	Columns int
	Type    VarType
	Value   ShaderValue

	// Members holds struct members for constant buffer variables.
	Members []ShaderVariable
}
