// Package mapper converts Go values to VelocyPack value trees and back
// without per-type code.
//
// Dispatch order when serializing a value:
//   - nil pointers, slices, maps and interfaces become null
//   - a serializer registered for the exact type wins
//   - scalars, big numbers, time.Time and []byte become scalar nodes
//   - registered enums become their symbolic name
//   - arrays, slices and sets become array nodes
//   - maps with stringable keys become objects, other maps become
//     arrays of {key, value} objects
//   - structs become objects of their exported fields
//
// Deserialization mirrors the order, consulting registered deserializers
// and instance factories first. Every failure is reported as a single
// *ParserError.
//
// Typical use:
//
//	reg := mapper.NewRegistry()
//	_ = reg.RegisterEnum(Red, Green, Blue)
//	vp := mapper.New(reg)
//	tree, err := vp.Serialize(order)
//	back, err := mapper.DeserializeAs[Order](vp, tree)
package mapper
