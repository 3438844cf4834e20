/*
 * chem.go, part of chemfix.
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
	"fmt"

	v3 "github.com/rmera/chemfix/v3"
)

/*Note: Many functions here panic instead of returning errors. This is because they are "fundamental"
 * functions. If something goes wrong here, the program is most likely wrong and should
 * crash. Most panics are related to using the function on a nil object or trying to access out-of bounds
 * fields*/

// Atom contains the atomic information except for the coordinates, which are in the
// Coords matrix of the Molecule that owns the atom.
type Atom struct {
	Name      string
	ID        int //The serial number in the PDB file.
	Symbol    string
	Het       bool // is hetatm in the pdb file?
	Occupancy float64
	Bfactor   float64
	Charge    float64
	Bonds     []*Bond
	index     int
	residue   int
}

// Index returns the position of the atom in its molecule.
func (A *Atom) Index() int {
	return A.index
}

// Residue returns the index of the residue that owns the atom.
func (A *Atom) Residue() int {
	return A.residue
}

// Copy returns a copy of the Atom object, without bonds, and not
// owned by any molecule.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	return &Atom{
		Name:      A.Name,
		ID:        A.ID,
		Symbol:    A.Symbol,
		Het:       A.Het,
		Occupancy: A.Occupancy,
		Bfactor:   A.Bfactor,
		Charge:    A.Charge,
		index:     -1,
		residue:   -1,
	}
}

// BondedTo returns the bond between A and the atom with index i, or nil
// if they are not bonded.
func (A *Atom) BondedTo(i int) *Bond {
	for _, b := range A.Bonds {
		if b.Cross(A).index == i {
			return b
		}
	}
	return nil
}

// Residue is a group of atoms in a chain, identified by a name (the
// 3-letter code for amino acids) and a position in the chain's numbering.
type Residue struct {
	Name     string
	PDBIndex int
	InsCode  string
	Chain    int   //index of the owning chain
	Atoms    []int //indexes of the atoms, in order
	index    int
}

// Index returns the position of the residue in its molecule.
func (R *Residue) Index() int {
	return R.index
}

// Code returns the 1-letter code of the residue, or an empty string
// if the residue is not an amino acid.
func (R *Residue) Code() string {
	return OneLetter(R.Name)
}

// String returns the residue name followed by its position, as in "ALA23".
func (R *Residue) String() string {
	return fmt.Sprintf("%s%d%s", R.Name, R.PDBIndex, R.InsCode)
}

// Chain is an ordered set of residues.
type Chain struct {
	Name     string
	Residues []int //indexes of the residues, in order
	index    int
}

// Index returns the position of the chain in its molecule.
func (C *Chain) Index() int {
	return C.index
}

/**Type Molecule**/

// Molecule is a set of chains, each an ordered set of residues which in turn
// contain atoms. All the objects are stored in flat slices owned by the molecule,
// and refer to each other by index. A Molecule is built with a Builder, and
// it should be treated as read-only afterwards, except for the names and the
// metadata.
type Molecule struct {
	Name     string
	Metadata map[string]any
	Coords   *v3.Matrix
	atoms    []*Atom
	residues []*Residue
	chains   []*Chain
	bonds    []*Bond
}

// Len returns the number of atoms in the molecule.
func (M *Molecule) Len() int {
	if M == nil {
		return 0
	}
	return len(M.atoms)
}

// Atom returns the Atom corresponding to the index i
// of the Atom slice in the molecule. Panics if
// out of range.
func (M *Molecule) Atom(i int) *Atom {
	if i < 0 || i >= len(M.atoms) {
		panic(ErrAtomOutOfRange)
	}
	return M.atoms[i]
}

// NResidues returns the number of residues in the molecule.
func (M *Molecule) NResidues() int {
	return len(M.residues)
}

// Residue returns the ith residue of the molecule. Panics if out of range.
func (M *Molecule) Residue(i int) *Residue {
	if i < 0 || i >= len(M.residues) {
		panic(ErrResOutOfRange)
	}
	return M.residues[i]
}

// NChains returns the number of chains in the molecule.
func (M *Molecule) NChains() int {
	return len(M.chains)
}

// Chain returns the ith chain of the molecule. Panics if out of range.
func (M *Molecule) Chain(i int) *Chain {
	if i < 0 || i >= len(M.chains) {
		panic(ErrChainOutOfRange)
	}
	return M.chains[i]
}

// ChainOf returns the chain that owns the ith residue.
func (M *Molecule) ChainOf(res int) *Chain {
	return M.Chain(M.Residue(res).Chain)
}

// Bonds returns all the bonds in the molecule, in the order they were created.
// The slice should not be modified.
func (M *Molecule) Bonds() []*Bond {
	return M.bonds
}

// ResidueAtom returns the index of the atom named name in the ith residue.
// It returns -1 if there is no such atom.
func (M *Molecule) ResidueAtom(res int, name string) int {
	for _, v := range M.Residue(res).Atoms {
		if M.atoms[v].Name == name {
			return v
		}
	}
	return -1
}

// Backbone returns the indexes of the backbone atoms of the ith residue.
// If linking is true, only the atoms that can bond to a neighboring
// residue are returned.
func (M *Molecule) Backbone(res int, linking bool) []int {
	ret := make([]int, 0, 4)
	for _, v := range M.Residue(res).Atoms {
		if IsBackbone(M.atoms[v].Name, linking) {
			ret = append(ret, v)
		}
	}
	return ret
}

// Sequence returns the residue names of the molecule, in order.
func (M *Molecule) Sequence() []string {
	ret := make([]string, len(M.residues))
	for i, v := range M.residues {
		ret[i] = v.Name
	}
	return ret
}

// addBond bonds the atoms with indexes i and j. If they are already
// bonded, the existing bond is returned.
func (M *Molecule) addBond(i, j int, order float64) *Bond {
	if i == j {
		panic(ErrSelfBond)
	}
	at1, at2 := M.Atom(i), M.Atom(j)
	if b := at1.BondedTo(j); b != nil {
		return b
	}
	b := &Bond{Index: len(M.bonds), At1: at1, At2: at2, Order: order}
	at1.Bonds = append(at1.Bonds, b)
	at2.Bonds = append(at2.Bonds, b)
	M.bonds = append(M.bonds, b)
	return b
}
