// Package shaderdbg steps through a precomputed shader debug trace.
//
// A Trace is produced by the replay engine and never changes. It holds
// one State per executed instruction: the machine state immediately
// before executing State.NextInstruction. A Stepper is a cursor over those
// states with breakpoints and run-to semantics, and a Resolver turns
// register expressions such as "r0.xyzw,f" or "x1[4].x,u" into display
// strings for the watch panel and hover tooltips.
//
// # Expressions
//
//	regtype regindex ('.' swizzle)? (',' cast)?
//
// regtype is r (temporary register), v (input) or o (output), or
// x<N>[<idx>] for indexable temporary array N. swizzle is 1 to 4 of
// xyzwrgba. cast is one of:
//   - i: signed int
//   - f: float
//   - u: unsigned int
//   - x: hex, 0x%08X
//   - b: binary, 32 digits
//   - d: double, pairing lanes (x,y) and (z,w)
//
// Resolution never fails loudly. Anything that cannot be evaluated shows
// as [ErrorText].
package shaderdbg
