/*
 * handy.go, part of chemfix.
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

package chem

import (
	"math"

	v3 "github.com/rmera/chemfix/v3"
)

// Deg2Rad converts an angle in degrees to radians.
func Deg2Rad(f float64) float64 {
	return f * math.Pi / 180
}

// FindResidues returns the indexes of the residues with the given position
// in the chain numbering. If chains is not empty, only residues in chains
// with one of those names are considered.
func FindResidues(mol *Molecule, pdbindex int, chains ...string) []int {
	ret := make([]int, 0, 2)
	for i, r := range mol.residues {
		if r.PDBIndex != pdbindex {
			continue
		}
		if len(chains) > 0 && !isInString(mol.chains[r.Chain].Name, chains) {
			continue
		}
		ret = append(ret, i)
	}
	return ret
}

// ChainsByName returns the indexes of the chains named name.
func ChainsByName(mol *Molecule, name string) []int {
	var ret []int
	for i, c := range mol.chains {
		if c.Name == name {
			ret = append(ret, i)
		}
	}
	return ret
}

// SelectCoords returns a new matrix with the coordinates of the atoms
// with indexes in atoms.
func SelectCoords(mol *Molecule, atoms []int) *v3.Matrix {
	ret := v3.Zeros(len(atoms))
	if len(atoms) > 0 {
		ret.SomeVecs(mol.Coords, atoms)
	}
	return ret
}

func isInString(test string, container []string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
