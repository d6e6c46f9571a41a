// Package normalisers provides implementations of the Normaliser interface
// for the supported document formats. Each normaliser knows how to extract
// text sections from a specific MIME type.
//
// Normalisers are registered with the Registry at startup; DefaultRegistry
// returns one holding every built-in normaliser.
package normalisers
