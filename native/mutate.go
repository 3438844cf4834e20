/*
 * mutate.go, part of chemfix.
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
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"

	chem "github.com/rmera/chemfix"
	"github.com/rmera/chemfix/chemgraph"
	"github.com/rmera/chemfix/v3"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// parseDescriptor splits a descriptor of the form "ALA-43-MET". The position
// can be negative, as in "ALA--2-MET".
func parseDescriptor(d string) (from string, pos int, to string, err error) {
	i := strings.Index(d, "-")
	j := strings.LastIndex(d, "-")
	if i <= 0 || j <= i+1 || j == len(d)-1 {
		return "", 0, "", chem.NewError(fmt.Sprintf("%q", d), "parseDescriptor", ErrBadDescriptor)
	}
	pos, err = strconv.Atoi(d[i+1 : j])
	if err != nil {
		return "", 0, "", chem.NewError(fmt.Sprintf("%q", d), "parseDescriptor", ErrBadDescriptor)
	}
	return strings.ToUpper(d[:i]), pos, strings.ToUpper(d[j+1:]), nil
}

// findResidue returns the index of the residue with the given number in the
// chain named chain, checking that its name is name.
func findResidue(mol *chem.Molecule, chain string, pos int, name string) (int, error) {
	rs := chem.FindResidues(mol, pos, chain)
	if len(rs) == 0 {
		return -1, chem.NewError(fmt.Sprintf("%s%d in chain %q", name, pos, chain), "findResidue", ErrNoResidue)
	}
	r := mol.Residue(rs[0])
	if strings.ToUpper(r.Name) != name {
		return -1, chem.NewError(fmt.Sprintf("found %s, expected %s%d", r, name, pos), "findResidue", ErrResidueMismatch)
	}
	return rs[0], nil
}

// idealCB returns the position of a CB atom with ideal geometry for the
// residue with index res, built from its N, CA and C atoms.
func idealCB(mol *chem.Molecule, res int) ([]float64, error) {
	n, ca, c := mol.ResidueAtom(res, "N"), mol.ResidueAtom(res, "CA"), mol.ResidueAtom(res, "C")
	if n < 0 || ca < 0 || c < 0 {
		return nil, chem.NewError(mol.Residue(res).String(), "idealCB", ErrIncompleteResidue)
	}
	pca := mol.Coords.Vec(ca)
	b := floats.SubTo(make([]float64, 3), pca, mol.Coords.Vec(n))
	cc := floats.SubTo(make([]float64, 3), mol.Coords.Vec(c), pca)
	a := v3.Cross(b, cc)
	cb := append([]float64(nil), pca...)
	floats.AddScaled(cb, -0.58273431, a)
	floats.AddScaled(cb, 0.56802827, b)
	floats.AddScaled(cb, -0.54067466, cc)
	return cb, nil
}

// mutate returns a copy of mol where the residue with index res is renamed to
// to, and its side chain is cut down to the CB atom, or removed entirely if to
// is GLY. A CB is built for residues that lack one.
func mutate(mol *chem.Molecule, res int, to string) (*chem.Molecule, error) {
	drop := make(map[int]bool)
	for _, v := range chemgraph.TopologyFromChem(mol, nil).SideChain(res) {
		drop[v] = true
	}
	var newcb []float64
	if to != "GLY" {
		if cb := mol.ResidueAtom(res, "CB"); cb >= 0 {
			delete(drop, cb)
		} else {
			var err error
			if newcb, err = idealCB(mol, res); err != nil {
				return nil, errDecorate(err, "mutate")
			}
		}
	}
	b := chem.NewBuilder(mol.Name)
	mapping := make(map[int]int, mol.Len())
	cbindex := -1
	for i := 0; i < mol.NChains(); i++ {
		c := mol.Chain(i)
		nc := b.AddChain(c.Name)
		for _, r := range c.Residues {
			if r != res {
				maps.Copy(mapping, b.CopyResidue(mol, r, nc))
				continue
			}
			old := mol.Residue(r)
			nr := b.AddResidue(nc, to, old.PDBIndex, old.InsCode)
			for _, a := range old.Atoms {
				if !drop[a] {
					mapping[a] = b.AddAtom(nr, mol.Atom(a), mol.Coords.Vec(a))
				}
			}
			if newcb != nil {
				cbindex = b.AddAtom(nr, &chem.Atom{Name: "CB", Symbol: "C", Occupancy: 1}, newcb)
			}
		}
	}
	b.CopyBonds(mol, mapping)
	if cbindex >= 0 {
		b.AddBond(mapping[mol.ResidueAtom(res, "CA")], cbindex, 1)
	}
	for k, v := range mol.Metadata {
		b.SetMetadata(k, v)
	}
	logger().Debug("residue mutated", zap.Stringer("residue", mol.Residue(res)), zap.String("to", to), zap.Int("removed", len(drop)))
	return b.Molecule(), nil
}

// ApplyMutations applies mutations, each of the form "ALA-43-MET", to
// the chain named chain. Nothing is changed if any of them fails.
func (H *Handle) ApplyMutations(ctx context.Context, mutations []string, chain string) error {
	mol := H.mol
	for _, d := range mutations {
		if err := ctx.Err(); err != nil {
			return err
		}
		from, pos, to, err := parseDescriptor(d)
		if err != nil {
			return errDecorate(err, "native.Handle.ApplyMutations")
		}
		if !chem.IsAminoAcid(to) {
			return chem.NewError(fmt.Sprintf("%q", d), "native.Handle.ApplyMutations", ErrUnknownTarget)
		}
		res, err := findResidue(mol, chain, pos, from)
		if err != nil {
			return errDecorate(err, "native.Handle.ApplyMutations")
		}
		if mol, err = mutate(mol, res, to); err != nil {
			return errDecorate(err, "native.Handle.ApplyMutations")
		}
	}
	H.mol = mol
	return nil
}

func errDecorate(err error, caller string) error {
	return chem.ErrDecorate(err, caller)
}
