/*
 * bonds.go, part of chemfix.
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
	"sort"
)

// constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
)

// Bond is a bond between two atoms of the same molecule.
type Bond struct {
	Index int
	At1   *Atom
	At2   *Atom
	Order float64 //Order 0 means undetermined
}

// Cross returns the atom bonded to origin by the bond B.
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin == B.At1 {
		return B.At2
	}
	if origin == B.At2 {
		return B.At1
	}
	panic(ErrNotInBond) //this has to be a programming error, so a panic is warranted.
}

// return a new *Bond slice with the bond b removed
func takefromslice(bonds []*Bond, b *Bond) []*Bond {
	newb := make([]*Bond, 0, len(bonds))
	for _, v := range bonds {
		if v != b {
			newb = append(newb, v)
		}
	}
	return newb
}

// removeBond removes b from the molecule and from both its atoms,
// and re-numbers the remaining bonds.
func (M *Molecule) removeBond(b *Bond) {
	b.At1.Bonds = takefromslice(b.At1.Bonds, b)
	b.At2.Bonds = takefromslice(b.At2.Bonds, b)
	M.bonds = takefromslice(M.bonds, b)
	for i, v := range M.bonds {
		v.Index = i
	}
}

// AssignBonds assigns bonds to a molecule based on a simple distance
// criterion, similar to that described in DOI:10.1186/1758-2946-3-33.
// Only atoms in the same residue, or in consecutive residues of the same
// chain, are considered, so the cost is linear in the number of residues.
// The exception are the SG atoms of cysteines, which are all checked against
// each other to find disulfide bridges. Other bonds between residues that
// are not neighbors, such as those to ligands, are not assigned.
// Monoatomic ions are never bonded. Existing bonds are kept.
func AssignBonds(mol *Molecule) error {
	for _, c := range mol.chains {
		for k, r := range c.Residues {
			cur := mol.residues[r].Atoms
			var next []int
			if k+1 < len(c.Residues) {
				next = mol.residues[c.Residues[k+1]].Atoms
			}
			for i, a := range cur {
				if err := bondAgainst(mol, a, cur[i+1:]); err != nil {
					return errDecorate(err, "AssignBonds")
				}
				if err := bondAgainst(mol, a, next); err != nil {
					return errDecorate(err, "AssignBonds")
				}
			}
		}
	}
	var sg []int
	for _, r := range mol.residues {
		if r.Name != "CYS" && r.Name != "CYX" {
			continue
		}
		for _, a := range r.Atoms {
			if mol.atoms[a].Name == "SG" {
				sg = append(sg, a)
			}
		}
	}
	for i, a := range sg {
		if err := bondAgainst(mol, a, sg[i+1:]); err != nil {
			return errDecorate(err, "AssignBonds")
		}
	}
	//Now we check that no atom has too many bonds.
	for _, at := range mol.atoms {
		max := symbolMaxBonds[at.Symbol]
		if max == 0 || len(at.Bonds) <= max {
			continue
		}
		sort.Slice(at.Bonds, func(i, j int) bool {
			return bondLength(mol, at.Bonds[i]) < bondLength(mol, at.Bonds[j])
		})
		for len(at.Bonds) > max {
			mol.removeBond(at.Bonds[len(at.Bonds)-1]) //we remove the longest bond
		}
	}
	return nil
}

func bondLength(mol *Molecule, b *Bond) float64 {
	return mol.Coords.Dist(b.At1.index, b.At2.index)
}

// bondAgainst bonds the atom with index i to every atom in others within
// bonding distance.
func bondAgainst(mol *Molecule, i int, others []int) error {
	at1 := mol.atoms[i]
	if ionSymbols[at1.Symbol] && len(mol.residues[at1.residue].Atoms) == 1 {
		return nil
	}
	cov1, ok := symbolCovrad[at1.Symbol]
	if !ok {
		return Errorf("bondAgainst", "Couldn't find the covalent radius for %s %d", at1.Symbol, i)
	}
	for _, j := range others {
		at2 := mol.atoms[j]
		if ionSymbols[at2.Symbol] && len(mol.residues[at2.residue].Atoms) == 1 {
			continue
		}
		cov2, ok := symbolCovrad[at2.Symbol]
		if !ok {
			return Errorf("bondAgainst", "Couldn't find the covalent radius for %s %d", at2.Symbol, j)
		}
		d := mol.Coords.Dist(i, j)
		if d < cov1+cov2+bondtol && d > tooclose {
			mol.addBond(i, j, 1)
		}
	}
	return nil
}
