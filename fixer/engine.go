/*
 * engine.go, part of chemfix.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package fixer

import (
	"context"
	"errors"

	chem "github.com/rmera/chemfix"
	"github.com/rmera/chemfix/chemjson"
	"go.uber.org/zap"
)

// Engine is a structure repair and solvation toolkit. Load parses a
// structure in PDB format and returns a handle to the engine's own
// representation of it.
type Engine interface {
	Load(ctx context.Context, pdb []byte) (Handle, error)
}

// Handle is a structure loaded in an Engine. The methods that change the
// structure do it in place.
type Handle interface {
	//Topology returns the current structure, with the engine's ordering
	//of chains, residues and atoms.
	Topology() *chemjson.Structure

	//ApplyMutations applies mutations, each of the form "ALA-43-MET",
	//to the chain named chain.
	ApplyMutations(ctx context.Context, mutations []string, chain string) error

	//AddSolvent surrounds the structure with water and ions.
	AddSolvent(ctx context.Context, req SolventRequest) error
}

// SolventRequest contains the parameters for Handle.AddSolvent.
type SolventRequest struct {
	ForceField    []string
	Box           [3]float64 //Angstrom
	PositiveIon   string     //with the charge sign, as "Na+"
	NegativeIon   string
	IonicStrength float64 //molar
	Neutralize    bool
}

// Errors returned for invalid input. They are wrapped in chem.CError values,
// so use errors.Is to check for them.
var (
	ErrNoMutations       = errors.New("no mutations specified")
	ErrMalformedMutation = errors.New("malformed mutation string")
	ErrNoMatch           = errors.New("mutation did not match any residues")
	ErrUnknownResidue    = errors.New("unknown residue code")
	ErrUnknownChain      = errors.New("unknown chain")
	ErrNoBox             = errors.New("solvation requires a box size, a padding or both")
	ErrConcentrationUnit = errors.New("ion concentration must be dimensionless (molar) or in mol/m^3")
	ErrNoTopology        = errors.New("engine returned no topology")
	ErrMissingAtom       = errors.New("atom not found in residue")
)

// Panic messages for broken invariants.
const (
	ErrDuplicateMutation = chem.PanicMsg("chemfix/fixer: multiple mutations for the same residue")
	ErrResidueCount      = chem.PanicMsg("chemfix/fixer: the engine changed the number of residues")
	ErrNegativeBox       = chem.PanicMsg("chemfix/fixer: negative box dimension")
	ErrSolvatedCount     = chem.PanicMsg("chemfix/fixer: solvated molecule doesn't match the engine output")
	ErrIonSign           = chem.PanicMsg("chemfix/fixer: ion name has the wrong charge sign")
	ErrBoxSize           = chem.PanicMsg("chemfix/fixer: box size must have 1 or 3 elements")
)

func logger() *zap.Logger {
	return zap.L().Named("fixer")
}
