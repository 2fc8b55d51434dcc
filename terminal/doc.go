// Package terminal defines the vocabulary shared by the engine and its drivers.
//
// Features:
//   - Bitmask key codes: a base value plus independent shift/alt/ctrl bits
//   - Mouse flag sets covering buttons, wheel, motion and modifier state
//   - Colors, style bits and driver-allocated attribute handles
//   - Canvas and Driver contracts implemented by concrete back-ends
//
// Concrete drivers live in subpackages: tcelldrv (tcell screens) and headless
// (in-memory grid for tests and batch use).
package terminal
