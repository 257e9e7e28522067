// Package abi holds the Canonical ABI layout rules shared by the transcoder
// and the linear memory adapters: size limits, record layouts, alignment and
// overflow-checked arithmetic.
package abi
