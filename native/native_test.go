/*
 * native_test.go, part of chemfix.
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
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	chem "github.com/rmera/chemfix"
	"github.com/rmera/chemfix/fixer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

const testPDB = "../test/peptide.pdb"

func loadHandle(t *testing.T) *Handle {
	t.Helper()
	pdb, err := os.ReadFile(testPDB)
	require.NoError(t, err)
	h, err := new(Engine).Load(context.Background(), pdb)
	require.NoError(t, err)
	return h.(*Handle)
}

func residueAtoms(mol *chem.Molecule, res int) []string {
	var ret []string
	for _, a := range mol.Residue(res).Atoms {
		ret = append(ret, mol.Atom(a).Name)
	}
	return ret
}

func TestLoadAssignsBonds(t *testing.T) {
	pdb, err := os.ReadFile(testPDB)
	require.NoError(t, err)
	var noconect bytes.Buffer
	s := bufio.NewScanner(bytes.NewReader(pdb))
	for s.Scan() {
		if !strings.HasPrefix(s.Text(), "CONECT") {
			noconect.WriteString(s.Text() + "\n")
		}
	}
	h, err := new(Engine).Load(context.Background(), noconect.Bytes())
	require.NoError(t, err)
	assert.Len(t, h.Topology().Bonds, 71)
	assert.Equal(t, 73, h.Topology().NAtoms())
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := new(Engine).Load(ctx, []byte("END\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseDescriptor(t *testing.T) {
	from, pos, to, err := parseDescriptor("lys-42-ala")
	require.NoError(t, err)
	assert.Equal(t, "LYS", from)
	assert.Equal(t, 42, pos)
	assert.Equal(t, "ALA", to)

	_, pos, _, err = parseDescriptor("ALA--2-MET")
	require.NoError(t, err)
	assert.Equal(t, -2, pos)

	for _, d := range []string{"", "ALA43MET", "ALA-43", "-43-MET", "ALA-43-", "ALA-x-MET", "ALA--MET"} {
		_, _, _, err := parseDescriptor(d)
		assert.ErrorIs(t, err, ErrBadDescriptor, d)
	}
}

func TestMutateTrimsSideChain(t *testing.T) {
	h := loadHandle(t)
	orig := h.Molecule()
	require.NoError(t, h.ApplyMutations(context.Background(), []string{"LYS-42-ALA", "SER-41-GLY"}, "A"))
	mol := h.Molecule()
	assert.Equal(t, orig.NResidues(), mol.NResidues())
	assert.Equal(t, orig.Len()-4-2, mol.Len())
	assert.Equal(t, "ALA", mol.Residue(2).Name)
	assert.Equal(t, []string{"N", "CA", "C", "O", "CB"}, residueAtoms(mol, 2))
	assert.Equal(t, "GLY", mol.Residue(1).Name)
	assert.Equal(t, []string{"N", "CA", "C", "O"}, residueAtoms(mol, 1))
	//the backbone is kept
	assert.NotNil(t, mol.Atom(mol.ResidueAtom(1, "C")).BondedTo(mol.ResidueAtom(2, "N")))
	assert.NotNil(t, mol.Atom(mol.ResidueAtom(2, "C")).BondedTo(mol.ResidueAtom(3, "N")))
	assert.Len(t, mol.Bonds(), 71-4-2)
	//the original molecule is untouched
	assert.Equal(t, "LYS", orig.Residue(2).Name)
	assert.Equal(t, 73, orig.Len())
}

func TestMutateBuildsCB(t *testing.T) {
	h := loadHandle(t)
	require.NoError(t, h.ApplyMutations(context.Background(), []string{"GLY-46-SER"}, "B"))
	mol := h.Molecule()
	res := chem.FindResidues(mol, 46, "B")
	require.Len(t, res, 1)
	assert.Equal(t, "SER", mol.Residue(res[0]).Name)
	cb, ca := mol.ResidueAtom(res[0], "CB"), mol.ResidueAtom(res[0], "CA")
	require.GreaterOrEqual(t, cb, 0)
	assert.InDelta(t, 1.53, mol.Coords.Dist(cb, ca), 0.02)
	assert.NotNil(t, mol.Atom(cb).BondedTo(ca))
	assert.Equal(t, "C", mol.Atom(cb).Symbol)
}

func TestIdealCBMatchesExisting(t *testing.T) {
	h := loadHandle(t)
	mol := h.Molecule()
	cb, err := idealCB(mol, 3) //ALA43
	require.NoError(t, err)
	want := mol.Coords.Vec(mol.ResidueAtom(3, "CB"))
	assert.Less(t, floats.Distance(cb, want, 2), 0.05)
}

func TestMutateErrors(t *testing.T) {
	h := loadHandle(t)
	ctx := context.Background()
	assert.ErrorIs(t, h.ApplyMutations(ctx, []string{"ALA-43-XYZ"}, "A"), ErrUnknownTarget)
	assert.ErrorIs(t, h.ApplyMutations(ctx, []string{"ALA-99-MET"}, "A"), ErrNoResidue)
	assert.ErrorIs(t, h.ApplyMutations(ctx, []string{"ALA-43-MET"}, "B"), ErrNoResidue)
	assert.ErrorIs(t, h.ApplyMutations(ctx, []string{"GLY-43-MET"}, "A"), ErrResidueMismatch)
	assert.ErrorIs(t, h.ApplyMutations(ctx, []string{"ALA43MET"}, "A"), ErrBadDescriptor)
	//a failure leaves the structure as it was
	assert.ErrorIs(t, h.ApplyMutations(ctx, []string{"LYS-42-ALA", "ALA-99-MET"}, "A"), ErrNoResidue)
	assert.Equal(t, "LYS", h.Molecule().Residue(2).Name)
}

func TestIonSymbol(t *testing.T) {
	s, err := ionSymbol("Na+", positiveIons)
	require.NoError(t, err)
	assert.Equal(t, "Na", s)
	s, err = ionSymbol("CL-", negativeIons)
	require.NoError(t, err)
	assert.Equal(t, "Cl", s)
	_, err = ionSymbol("Cl-", positiveIons)
	assert.ErrorIs(t, err, ErrUnknownIon)
	_, err = ionSymbol("Xx+", positiveIons)
	assert.ErrorIs(t, err, ErrUnknownIon)
}

func TestIonCounts(t *testing.T) {
	p, n := ionCounts(1, 1000, 0, true)
	assert.Equal(t, 0, p)
	assert.Equal(t, 1, n)
	p, n = ionCounts(-3, 1000, 0, true)
	assert.Equal(t, 3, p)
	assert.Equal(t, 0, n)
	p, n = ionCounts(-3, 1000, 0, false)
	assert.Equal(t, 0, p+n)
	//1000*0.15/55.4 = 2.7
	p, n = ionCounts(2, 1000, 0.15, true)
	assert.Equal(t, 3, p)
	assert.Equal(t, 5, n)
}

func testSolventRequest() fixer.SolventRequest {
	return fixer.SolventRequest{
		ForceField:  []string{"amber14-all.xml", "amber14/tip3pfb.xml"},
		Box:         [3]float64{34, 33, 25},
		PositiveIon: "Na+",
		NegativeIon: "Cl-",
		Neutralize:  true,
	}
}

func TestAddSolvent(t *testing.T) {
	h := loadHandle(t)
	orig := h.Molecule()
	assert.Equal(t, 1.0, netCharge(orig))
	require.NoError(t, h.AddSolvent(context.Background(), testSolventRequest()))
	mol := h.Molecule()
	require.Equal(t, 3, mol.NChains())
	assert.Equal(t, "3", mol.Chain(2).Name)
	for i := 0; i < orig.Len(); i++ {
		assert.Equal(t, orig.Coords.Vec(i), mol.Coords.Vec(i))
		assert.Equal(t, orig.Atom(i).Name, mol.Atom(i).Name)
	}
	var nwater, ncl, nna int
	for _, r := range mol.Chain(2).Residues {
		res := mol.Residue(r)
		switch res.Name {
		case "HOH":
			nwater++
			require.Len(t, res.Atoms, 3)
			o := res.Atoms[0]
			for a := 0; a < orig.Len(); a++ {
				require.GreaterOrEqual(t, floats.Distance(mol.Coords.Vec(o), orig.Coords.Vec(a), 2), DefaultSoluteCutoff)
			}
			assert.InDelta(t, 0.9572, mol.Coords.Dist(o, res.Atoms[1]), 1e-6)
			assert.NotNil(t, mol.Atom(o).BondedTo(res.Atoms[2]))
		case "CL":
			ncl++
		case "NA":
			nna++
		default:
			t.Fatalf("unexpected solvent residue %s", res)
		}
	}
	assert.Greater(t, nwater, 100)
	assert.Equal(t, 1, ncl)
	assert.Equal(t, 0, nna)
	assert.Equal(t, 0.0, netCharge(mol))
	assert.Len(t, mol.Bonds(), len(orig.Bonds())+2*nwater)
}

func TestAddSolventIonicStrength(t *testing.T) {
	h := loadHandle(t)
	req := testSolventRequest()
	req.IonicStrength = 0.5
	req.PositiveIon = "K"
	require.NoError(t, h.AddSolvent(context.Background(), req))
	mol := h.Molecule()
	var nwater, nk, ncl int
	for _, r := range mol.Chain(2).Residues {
		switch mol.Residue(r).Name {
		case "HOH":
			nwater++
		case "K":
			nk++
		case "CL":
			ncl++
		}
	}
	p, n := ionCounts(1, nwater+nk+ncl, 0.5, true)
	assert.Equal(t, p, nk)
	assert.Equal(t, n, ncl)
	assert.Equal(t, nk+1, ncl)
	assert.Equal(t, 0.0, netCharge(mol))
}

func TestAddSolventErrors(t *testing.T) {
	h := loadHandle(t)
	ctx := context.Background()
	req := testSolventRequest()
	req.PositiveIon = "Ca+"
	assert.ErrorIs(t, h.AddSolvent(ctx, req), ErrUnknownIon)
	req = testSolventRequest()
	req.ForceField = nil
	assert.ErrorIs(t, h.AddSolvent(ctx, req), ErrNoForceField)
	//no room for the neutralizing ion
	req = testSolventRequest()
	req.Box = [3]float64{1, 1, 1}
	assert.True(t, errors.Is(h.AddSolvent(ctx, req), ErrTooManyIons))
	//at most one water fits, and 200 mol/L asks for 4 pairs per water
	p, n := ionCounts(1, 1, 200, true)
	require.Equal(t, [2]int{4, 5}, [2]int{p, n})
	req = testSolventRequest()
	req.Box = [3]float64{4, 4, 4}
	req.IonicStrength = 200
	assert.True(t, errors.Is(h.AddSolvent(ctx, req), ErrTooManyIons))
	//nothing was added
	assert.Equal(t, 2, h.Molecule().NChains())
}
