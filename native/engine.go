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

package native

import (
	"bytes"
	"context"
	"errors"

	chem "github.com/rmera/chemfix"
	"github.com/rmera/chemfix/chemjson"
	"github.com/rmera/chemfix/fixer"
	"go.uber.org/zap"
)

// Default parameters for the water grid.
const (
	DefaultWaterSpacing = 3.104 //Angstrom, gives the density of liquid water
	DefaultSoluteCutoff = 2.8   //Angstrom
)

// Errors returned by the engine. They are wrapped in chem.CError values.
var (
	ErrBadDescriptor     = errors.New("mutation descriptor must have the form FROM-POS-TO")
	ErrNoResidue         = errors.New("residue not found")
	ErrResidueMismatch   = errors.New("residue name doesn't match the mutation")
	ErrUnknownTarget     = errors.New("unknown target residue")
	ErrIncompleteResidue = errors.New("residue lacks backbone atoms")
	ErrUnknownIon        = errors.New("unsupported ion")
	ErrTooManyIons       = errors.New("not enough waters to place the ions")
	ErrNoForceField      = errors.New("no force field given")
	ErrBadOp             = errors.New("unknown operation")
)

func logger() *zap.Logger {
	return zap.L().Named("native")
}

// Engine is a pure-Go implementation of fixer.Engine. Mutations
// replace the side chain of a residue with a CB atom, and solvation
// fills a box with a grid of water molecules, some of them replaced
// by ions.
// The zero value is ready to use.
type Engine struct {
	WaterSpacing float64 //distance between neighboring waters. DefaultWaterSpacing if 0.
	SoluteCutoff float64 //minimum distance between the solute and a water oxygen. DefaultSoluteCutoff if 0.
}

// Load reads pdb and returns a handle for the structure. If the PDB has
// no CONECT records, the bonds are assigned from the distances between
// atoms.
func (E *Engine) Load(ctx context.Context, pdb []byte) (fixer.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mol, err := chem.PDBRead(bytes.NewReader(pdb))
	if err != nil {
		return nil, chem.ErrDecorate(err, "native.Engine.Load")
	}
	if len(mol.Bonds()) == 0 {
		if err := chem.AssignBonds(mol); err != nil {
			return nil, chem.ErrDecorate(err, "native.Engine.Load")
		}
	}
	logger().Debug("loaded", zap.String("molecule", mol.Name), zap.Int("atoms", mol.Len()), zap.Int("bonds", len(mol.Bonds())))
	return E.Open(mol), nil
}

// Open returns a handle for mol. The handle takes ownership of mol.
func (E *Engine) Open(mol *chem.Molecule) *Handle {
	return &Handle{engine: E, mol: mol}
}

// Handle is a structure loaded in the native engine.
type Handle struct {
	engine *Engine
	mol    *chem.Molecule
}

// Molecule returns the current structure.
func (H *Handle) Molecule() *chem.Molecule {
	return H.mol
}

// Topology returns the current structure in its serializable form.
func (H *Handle) Topology() *chemjson.Structure {
	return chemjson.FromMolecule(H.mol)
}

func (E *Engine) spacing() float64 {
	if E.WaterSpacing > 0 {
		return E.WaterSpacing
	}
	return DefaultWaterSpacing
}

func (E *Engine) cutoff() float64 {
	if E.SoluteCutoff > 0 {
		return E.SoluteCutoff
	}
	return DefaultSoluteCutoff
}
