/*
 * chem_test.go, part of chemfix.
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
	"errors"
	"io"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

const testPDB = "test/peptide.pdb"

func TestPDBRead(Te *testing.T) {
	mol, err := PDBFileRead(testPDB)
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != 73 || mol.NResidues() != 11 || mol.NChains() != 2 {
		Te.Fatalf("wrong counts: %d atoms %d residues %d chains", mol.Len(), mol.NResidues(), mol.NChains())
	}
	if len(mol.Bonds()) != 71 {
		Te.Errorf("expected 71 bonds from CONECT, got %d", len(mol.Bonds()))
	}
	if mol.Name != "test peptide" {
		Te.Errorf("wrong name %q", mol.Name)
	}
	r := mol.Residue(3)
	if r.Name != "ALA" || r.PDBIndex != 43 || r.Code() != "A" || mol.ChainOf(3).Name != "A" {
		Te.Errorf("wrong residue 3: %s chain %s", r, mol.ChainOf(3).Name)
	}
	ca := mol.ResidueAtom(3, "CA")
	if ca < 0 || mol.Atom(ca).Symbol != "C" || mol.Atom(ca).Residue() != 3 {
		Te.Errorf("CA of ALA43 not found or wrong")
	}
	if bb := mol.Backbone(3, true); len(bb) != 4 {
		Te.Errorf("expected 4 linking backbone atoms, got %d", len(bb))
	}
	if got := FindResidues(mol, 45); len(got) != 2 {
		Te.Errorf("expected residue 45 in both chains, got %v", got)
	}
	if got := FindResidues(mol, 45, "B"); len(got) != 1 || mol.Residue(got[0]).Name != "LYS" {
		Te.Errorf("wrong residue 45 of chain B: %v", got)
	}
}

func compareMolecules(Te *testing.T, a, b *Molecule) {
	Te.Helper()
	if a.Len() != b.Len() || a.NResidues() != b.NResidues() || a.NChains() != b.NChains() {
		Te.Fatalf("different sizes: %d/%d atoms %d/%d residues", a.Len(), b.Len(), a.NResidues(), b.NResidues())
	}
	for i := 0; i < a.Len(); i++ {
		at1, at2 := a.Atom(i), b.Atom(i)
		if at1.Name != at2.Name || at1.Symbol != at2.Symbol {
			Te.Errorf("atom %d differs: %s/%s %s/%s", i, at1.Name, at2.Name, at1.Symbol, at2.Symbol)
		}
		for j := 0; j < 3; j++ {
			if math.Abs(a.Coords.At(i, j)-b.Coords.At(i, j)) > 1e-3 {
				Te.Errorf("coordinates of atom %d differ", i)
			}
		}
	}
	for i := 0; i < a.NResidues(); i++ {
		if a.Residue(i).String() != b.Residue(i).String() {
			Te.Errorf("residue %d differs: %s %s", i, a.Residue(i), b.Residue(i))
		}
	}
	if len(a.Bonds()) != len(b.Bonds()) {
		Te.Errorf("different number of bonds: %d %d", len(a.Bonds()), len(b.Bonds()))
	}
}

func TestPDBRoundTrip(Te *testing.T) {
	mol, err := PDBFileRead(testPDB)
	if err != nil {
		Te.Fatal(err)
	}
	s, err := PDBStringWrite(mol)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(s, "TER") || !strings.HasSuffix(s, "END\n") {
		Te.Errorf("missing TER or END records")
	}
	mol2, err := PDBRead(strings.NewReader(s))
	if err != nil {
		Te.Fatal(err)
	}
	compareMolecules(Te, mol, mol2)
}

func TestZstdRoundTrip(Te *testing.T) {
	mol, err := PDBFileRead(testPDB)
	if err != nil {
		Te.Fatal(err)
	}
	name := filepath.Join(Te.TempDir(), "peptide.pdb.zst")
	if err := PDBFileWrite(name, mol); err != nil {
		Te.Fatal(err)
	}
	mol2, err := PDBFileRead(name)
	if err != nil {
		Te.Fatal(err)
	}
	compareMolecules(Te, mol, mol2)
}

func TestAssignBonds(Te *testing.T) {
	mol, err := PDBFileRead(testPDB)
	if err != nil {
		Te.Fatal(err)
	}
	b := NewBuilder("nobonds")
	for i := 0; i < mol.NChains(); i++ {
		c := b.AddChain(mol.Chain(i).Name)
		for _, r := range mol.Chain(i).Residues {
			b.CopyResidue(mol, r, c)
		}
	}
	bare := b.Molecule()
	if len(bare.Bonds()) != 0 {
		Te.Fatalf("CopyResidue shouldn't copy bonds")
	}
	if err := AssignBonds(bare); err != nil {
		Te.Fatal(err)
	}
	if len(bare.Bonds()) != len(mol.Bonds()) {
		Te.Errorf("expected %d bonds, got %d", len(mol.Bonds()), len(bare.Bonds()))
	}
	for _, bond := range mol.Bonds() {
		if bare.Atom(bond.At1.Index()).BondedTo(bond.At2.Index()) == nil {
			Te.Errorf("missing bond %d-%d", bond.At1.Index(), bond.At2.Index())
		}
	}
}

func TestBondOrderAndIons(Te *testing.T) {
	b := NewBuilder("co2")
	c := b.AddChain("A")
	r := b.AddResidue(c, "CO2", 1, "")
	o1 := b.AddAtom(r, &Atom{Name: "O1", Symbol: "O", Het: true}, []float64{-1.16, 0, 0})
	c1 := b.AddAtom(r, &Atom{Name: "C", Symbol: "C", Het: true}, []float64{0, 0, 0})
	o2 := b.AddAtom(r, &Atom{Name: "O2", Symbol: "O", Het: true}, []float64{1.16, 0, 0})
	r2 := b.AddResidue(c, "NA", 2, "")
	b.AddAtom(r2, &Atom{Name: "NA", Symbol: "Na", Het: true, Charge: 1}, []float64{0, 1.5, 0})
	b.AddBond(o1, c1, 2)
	if b.AddBond(c1, o1, 1).Order != 2 {
		Te.Errorf("adding an existing bond should return the old one")
	}
	b.AddBond(c1, o2, 2)
	mol := b.Molecule()
	s, err := PDBStringWrite(mol)
	if err != nil {
		Te.Fatal(err)
	}
	mol2, err := PDBRead(strings.NewReader(s))
	if err != nil {
		Te.Fatal(err)
	}
	if len(mol2.Bonds()) != 2 {
		Te.Fatalf("expected 2 bonds, got %d", len(mol2.Bonds()))
	}
	for _, bond := range mol2.Bonds() {
		if bond.Order != 2 {
			Te.Errorf("bond order not preserved: %v", bond.Order)
		}
	}
	if mol2.Atom(3).Symbol != "Na" || mol2.Atom(3).Charge != 1 {
		Te.Errorf("ion not read correctly: %s %v", mol2.Atom(3).Symbol, mol2.Atom(3).Charge)
	}
	bare := NewBuilder("")
	bc := bare.AddChain("A")
	for i := 0; i < mol.NResidues(); i++ {
		bare.CopyResidue(mol, i, bc)
	}
	m3 := bare.Molecule()
	if err := AssignBonds(m3); err != nil {
		Te.Fatal(err)
	}
	if len(m3.Bonds()) != 2 {
		Te.Errorf("the ion shouldn't be bonded, got %d bonds", len(m3.Bonds()))
	}
}

func TestBuilderPanics(Te *testing.T) {
	b := NewBuilder("x")
	r := b.AddResidue(b.AddChain("A"), "HOH", 1, "")
	o := b.AddAtom(r, &Atom{Name: "O", Symbol: "O"}, []float64{0, 0, 0})
	defer func() {
		if rec := recover(); rec != ErrSelfBond {
			Te.Errorf("expected ErrSelfBond panic, got %v", rec)
		}
	}()
	b.AddBond(o, o, 1)
}

func TestErrors(Te *testing.T) {
	_, err := PDBRead(strings.NewReader("ATOM      1  N   GLY A  4x       0.000   0.000   0.000\n"))
	if err == nil {
		Te.Fatal("a malformed line should give an error")
	}
	e, ok := err.(CError)
	if !ok {
		Te.Fatalf("expected a CError, got %T", err)
	}
	deco := e.Decorate("TestErrors")
	if len(deco) != 2 || deco[0] != "PDBRead" {
		Te.Errorf("wrong decoration %v", deco)
	}
	if tr := ErrDecorate(e, "TestErrors").(CError).Trace(); tr != "PDBRead <- TestErrors" {
		Te.Errorf("wrong trace %q", tr)
	}
	wrapped := ErrDecorate(io.ErrUnexpectedEOF, "TestErrors")
	if !errors.Is(wrapped, io.ErrUnexpectedEOF) {
		Te.Errorf("errors.Is should see through a CError")
	}
	if _, err := PDBRead(strings.NewReader("REMARK nothing\n")); err == nil {
		Te.Errorf("a PDB without atoms should give an error")
	}
}

func TestPDBWriteChainName(Te *testing.T) {
	b := NewBuilder("long chain")
	r := b.AddResidue(b.AddChain("AB"), "ALA", 1, "")
	b.AddAtom(r, &Atom{Name: "CA", Symbol: "C"}, []float64{0, 0, 0})
	mol := b.Molecule()
	var out strings.Builder
	err := PDBWrite(&out, mol)
	if !errors.Is(err, ErrChainName) {
		Te.Fatalf("expected ErrChainName, got %v", err)
	}
	if out.Len() != 0 {
		Te.Errorf("nothing should be written, got %q", out.String())
	}
	if _, err := PDBStringWrite(mol); !errors.Is(err, ErrChainName) {
		Te.Errorf("expected ErrChainName from PDBStringWrite, got %v", err)
	}
}

func TestAssignBondsDisulfide(Te *testing.T) {
	b := NewBuilder("disulfide")
	var sg []int
	for i, x := range []float64{0, 2.04, 6} {
		r := b.AddResidue(b.AddChain(string(rune('A'+i))), "CYS", 10, "")
		b.AddAtom(r, &Atom{Name: "CB", Symbol: "C"}, []float64{x, -1.8, 0})
		sg = append(sg, b.AddAtom(r, &Atom{Name: "SG", Symbol: "S"}, []float64{x, 0, 0}))
	}
	mol := b.Molecule()
	if err := AssignBonds(mol); err != nil {
		Te.Fatal(err)
	}
	if mol.Atom(sg[0]).BondedTo(sg[1]) == nil {
		Te.Errorf("the disulfide bridge between chains A and B was not found")
	}
	if mol.Atom(sg[1]).BondedTo(sg[2]) != nil {
		Te.Errorf("SG atoms 4 A apart should not be bonded")
	}
	if len(mol.Bonds()) != 4 {
		Te.Errorf("expected 3 CB-SG bonds and a disulfide, got %d bonds", len(mol.Bonds()))
	}
}
