package vpack

//go:generate go tool stringer -type=ValueType -output=valuetype_string.go

// ValueType tags a tree node.
type ValueType int

const (
	None ValueType = iota // absent: returned by Get for a missing key, distinct from Null
	Null
	Bool
	Int
	UInt
	Double
	BigInt
	BigFloat
	String
	Binary
	UTCDate
	Array
	Object
)

// IsCompound reports whether nodes of this type hold children.
func (t ValueType) IsCompound() bool {
	return t == Array || t == Object
}
