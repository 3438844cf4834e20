/*
 * fake_test.go, part of chemfix.
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
	"bytes"
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"

	chem "github.com/rmera/chemfix"
	"github.com/rmera/chemfix/chemjson"
)

// fakeEngine behaves like a typical external toolkit: it renames chains
// to numbers and lists the atoms of each residue in its own order (here,
// reversed).
type fakeEngine struct {
	loads        int
	mutations    []fakeCall
	solvent      []SolventRequest
	waters       int       //added by AddSolvent
	shift        []float64 //applied to the whole system by AddSolvent
	extraResidue bool      //ApplyMutations adds a residue
}

type fakeCall struct {
	chain       string
	descriptors []string
}

// fakeWater is the position of the oxygen of the ith water added by
// fakeEngine, before the shift.
func fakeWater(i int) []float64 {
	return []float64{50 + 3*float64(i), 50, 50}
}

func (E *fakeEngine) Load(ctx context.Context, pdb []byte) (Handle, error) {
	E.loads++
	mol, err := chem.PDBRead(bytes.NewReader(pdb))
	if err != nil {
		return nil, err
	}
	return &fakeHandle{eng: E, mol: mol}, nil
}

type fakeHandle struct {
	eng *fakeEngine
	mol *chem.Molecule
}

func (H *fakeHandle) Topology() *chemjson.Structure {
	b := chem.NewBuilder(H.mol.Name)
	mapping := make(map[int]int, H.mol.Len())
	for i := 0; i < H.mol.NChains(); i++ {
		nc := b.AddChain(strconv.Itoa(i + 1))
		for _, r := range H.mol.Chain(i).Residues {
			res := H.mol.Residue(r)
			nr := b.AddResidue(nc, res.Name, res.PDBIndex, res.InsCode)
			for k := len(res.Atoms) - 1; k >= 0; k-- {
				a := res.Atoms[k]
				mapping[a] = b.AddAtom(nr, H.mol.Atom(a), H.mol.Coords.Vec(a))
			}
		}
	}
	b.CopyBonds(H.mol, mapping)
	return chemjson.FromMolecule(b.Molecule())
}

// ApplyMutations renames the residues and cuts them down to N, CA, C, O
// and CB.
func (H *fakeHandle) ApplyMutations(ctx context.Context, mutations []string, chain string) error {
	H.eng.mutations = append(H.eng.mutations, fakeCall{chain: chain, descriptors: mutations})
	targets := make(map[int]string)
	for _, d := range mutations {
		f := strings.Split(d, "-")
		if len(f) != 3 {
			return fmt.Errorf("bad descriptor %q", d)
		}
		n, err := strconv.Atoi(f[1])
		if err != nil {
			return err
		}
		rs := chem.FindResidues(H.mol, n, chain)
		if len(rs) != 1 || H.mol.Residue(rs[0]).Name != f[0] {
			return fmt.Errorf("no residue for %q in chain %s", d, chain)
		}
		targets[rs[0]] = f[2]
	}
	keep := map[string]bool{"N": true, "CA": true, "C": true, "O": true, "CB": true}
	b := chem.NewBuilder(H.mol.Name)
	mapping := make(map[int]int)
	for i := 0; i < H.mol.NChains(); i++ {
		nc := b.AddChain(H.mol.Chain(i).Name)
		for _, r := range H.mol.Chain(i).Residues {
			to, ok := targets[r]
			if !ok {
				maps.Copy(mapping, b.CopyResidue(H.mol, r, nc))
				continue
			}
			res := H.mol.Residue(r)
			nr := b.AddResidue(nc, to, res.PDBIndex, res.InsCode)
			for _, a := range res.Atoms {
				if keep[H.mol.Atom(a).Name] {
					mapping[a] = b.AddAtom(nr, H.mol.Atom(a), H.mol.Coords.Vec(a))
				}
			}
		}
	}
	if H.eng.extraResidue {
		r := b.AddResidue(0, "GLY", 999, "")
		b.AddAtom(r, &chem.Atom{Name: "CA", Symbol: "C"}, []float64{90, 90, 90})
	}
	b.CopyBonds(H.mol, mapping)
	H.mol = b.Molecule()
	return nil
}

// AddSolvent adds the waters in a new chain, and then shifts everything.
func (H *fakeHandle) AddSolvent(ctx context.Context, req SolventRequest) error {
	H.eng.solvent = append(H.eng.solvent, req)
	b := chem.NewBuilder(H.mol.Name)
	mapping := make(map[int]int)
	for i := 0; i < H.mol.NChains(); i++ {
		nc := b.AddChain(H.mol.Chain(i).Name)
		for _, r := range H.mol.Chain(i).Residues {
			maps.Copy(mapping, b.CopyResidue(H.mol, r, nc))
		}
	}
	b.CopyBonds(H.mol, mapping)
	wc := b.AddChain("W")
	for i := 0; i < H.eng.waters; i++ {
		o := fakeWater(i)
		r := b.AddResidue(wc, "HOH", i+1, "")
		oi := b.AddAtom(r, &chem.Atom{Name: "O", Symbol: "O", Het: true}, o)
		h1 := b.AddAtom(r, &chem.Atom{Name: "H1", Symbol: "H", Het: true}, []float64{o[0] + 0.96, o[1], o[2]})
		h2 := b.AddAtom(r, &chem.Atom{Name: "H2", Symbol: "H", Het: true}, []float64{o[0], o[1] + 0.96, o[2]})
		b.AddBond(oi, h1, 1)
		b.AddBond(oi, h2, 1)
	}
	mol := b.Molecule()
	if H.eng.shift != nil {
		mol.Coords.AddVec(mol.Coords, H.eng.shift)
	}
	H.mol = mol
	return nil
}
