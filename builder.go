/*
 * builder.go, part of chemfix.
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
	v3 "github.com/rmera/chemfix/v3"
)

// Builder constructs a Molecule piece by piece. Chains, residues and atoms
// are appended in order, and the indexes returned by the Add methods are
// their positions in the final molecule. Atoms added are always copies, so
// the new molecule never shares objects with any other.
// A Builder must not be used after Molecule has been called.
type Builder struct {
	mol    *Molecule
	coords []float64
}

// NewBuilder returns a Builder for a molecule with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{mol: &Molecule{Name: name, Metadata: make(map[string]any)}}
}

// Len returns the number of atoms added so far.
func (B *Builder) Len() int {
	return len(B.mol.atoms)
}

// NResidues returns the number of residues added so far.
func (B *Builder) NResidues() int {
	return len(B.mol.residues)
}

// AddChain adds an empty chain and returns its index.
func (B *Builder) AddChain(name string) int {
	c := &Chain{Name: name, index: len(B.mol.chains)}
	B.mol.chains = append(B.mol.chains, c)
	return c.index
}

// AddResidue adds an empty residue at the end of the chain with index chain,
// and returns the index of the new residue.
func (B *Builder) AddResidue(chain int, name string, pdbindex int, inscode string) int {
	c := B.mol.Chain(chain)
	r := &Residue{Name: name, PDBIndex: pdbindex, InsCode: inscode, Chain: chain, index: len(B.mol.residues)}
	B.mol.residues = append(B.mol.residues, r)
	c.Residues = append(c.Residues, r.index)
	return r.index
}

// AddAtom adds a copy of at, with coordinates coords, to the residue
// with index res. It returns the index of the new atom.
func (B *Builder) AddAtom(res int, at *Atom, coords []float64) int {
	if len(coords) != 3 {
		panic(v3.ErrShape)
	}
	r := B.mol.Residue(res)
	n := at.Copy()
	n.index = len(B.mol.atoms)
	n.residue = res
	B.mol.atoms = append(B.mol.atoms, n)
	B.coords = append(B.coords, coords...)
	r.Atoms = append(r.Atoms, n.index)
	return n.index
}

// AddBond bonds the atoms with indexes i and j, with the given order.
// Adding an existing bond returns the existing one. Panics if i==j or
// if either atom doesn't exist.
func (B *Builder) AddBond(i, j int, order float64) *Bond {
	return B.mol.addBond(i, j, order)
}

// CopyResidue appends a copy of the residue with index res in src, with all
// its atoms, to the chain with index chain. Bonds are not copied. It returns
// a map from the indexes of the atoms in src to the indexes of the new atoms.
func (B *Builder) CopyResidue(src *Molecule, res, chain int) map[int]int {
	r := src.Residue(res)
	nr := B.AddResidue(chain, r.Name, r.PDBIndex, r.InsCode)
	ret := make(map[int]int, len(r.Atoms))
	for _, v := range r.Atoms {
		ret[v] = B.AddAtom(nr, src.Atom(v), src.Coords.Vec(v))
	}
	return ret
}

// CopyBonds re-creates in the new molecule every bond of src where both
// atoms are keys in mapping, which maps atom indexes in src to atom
// indexes in the new molecule. It returns the number of bonds created.
func (B *Builder) CopyBonds(src *Molecule, mapping map[int]int) int {
	n := 0
	for _, b := range src.Bonds() {
		i, ok1 := mapping[b.At1.index]
		j, ok2 := mapping[b.At2.index]
		if !ok1 || !ok2 {
			continue
		}
		B.AddBond(i, j, b.Order)
		n++
	}
	return n
}

// SetMetadata sets the value for the key k in the new molecule's metadata.
func (B *Builder) SetMetadata(k string, v any) {
	B.mol.Metadata[k] = v
}

// Molecule returns the built molecule.
func (B *Builder) Molecule() *Molecule {
	c, err := v3.NewMatrix(B.coords)
	if err != nil {
		panic(ErrCoordsMismatch)
	}
	B.mol.Coords = c
	return B.mol
}
