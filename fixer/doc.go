/*
Package fixer applies point mutations and water boxes to chem molecules,
using an external structure repair and solvation engine.

The engine is anything that implements the Engine interface. The package
writes the molecule in PDB format for the engine, reads back the engine's
structure, and reconciles it with the original molecule: the molecules
returned by MutateResidues, MutateStrings and AddWater are always new, and
the original is never modified.

The package logs through the global zap logger, named "fixer", so it is
silent until the application installs a logger with zap.ReplaceGlobals.
*/
package fixer
