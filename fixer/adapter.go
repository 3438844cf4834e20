/*
 * adapter.go, part of chemfix.
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
	"strconv"
	"strings"

	chem "github.com/rmera/chemfix"
)

// ToExternal writes mol in PDB format and loads it in eng.
func ToExternal(ctx context.Context, eng Engine, mol *chem.Molecule) (Handle, error) {
	pdb, err := chem.PDBStringWrite(mol)
	if err != nil {
		return nil, chem.ErrDecorate(err, "ToExternal")
	}
	h, err := eng.Load(ctx, []byte(pdb))
	if err != nil {
		return nil, chem.ErrDecorate(err, "ToExternal")
	}
	return h, nil
}

// externalOrder returns, for each residue of mol, its index in the
// molecules built from an engine loaded with mol. The engine gets the
// residues chain by chain, which is not the order of their indexes in mol
// when the chains are interleaved.
func externalOrder(mol *chem.Molecule) []int {
	order := make([]int, mol.NResidues())
	n := 0
	for i := 0; i < mol.NChains(); i++ {
		for _, r := range mol.Chain(i).Residues {
			order[r] = n
			n++
		}
	}
	return order
}

// FromExternal builds a new molecule from the current topology and positions
// of h, keeping the order of the engine.
func FromExternal(h Handle) (*chem.Molecule, error) {
	s := h.Topology()
	if s == nil {
		return nil, chem.NewError("", "FromExternal", ErrNoTopology)
	}
	mol, err := s.Molecule()
	if err != nil {
		return nil, chem.ErrDecorate(err, "FromExternal")
	}
	return mol, nil
}

// NormalizeChainName returns the uppercase letter corresponding to the chain
// name, if the name is an integer between 1 and 26, so "1" becomes "A" and
// "26" becomes "Z". Any other name is returned unchanged.
func NormalizeChainName(name string) string {
	if name == "" || strings.TrimLeft(name, "0123456789") != "" {
		return name
	}
	n, err := strconv.Atoi(name)
	if err != nil || n < 1 || n > 26 {
		return name
	}
	return string(rune('A' + n - 1))
}

// NormalizeChainNames applies NormalizeChainName to every chain of mol, in place.
func NormalizeChainNames(mol *chem.Molecule) {
	for i := 0; i < mol.NChains(); i++ {
		c := mol.Chain(i)
		c.Name = NormalizeChainName(c.Name)
	}
}
