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

package fixer

import (
	"context"
	"fmt"
	"maps"

	chem "github.com/rmera/chemfix"
	"go.uber.org/zap"
)

// Metadata keys set in the molecules returned by this package.
const (
	MetaOrigin    = "origin"
	MetaMutations = "mutations"
)

// chainMutations are the engine descriptors for the mutations in one chain.
type chainMutations struct {
	chain       string
	descriptors []string
}

// byChain groups the mutations by the name of the residue's chain, with
// the chains in the order of their first mutated residue. Each mutation
// becomes a descriptor of the form "ALA-43-MET".
func (M Mutations) byChain(mol *chem.Molecule) []chainMutations {
	var ret []chainMutations
	pos := make(map[string]int)
	for _, r := range M.Residues() {
		res := mol.Residue(r)
		name := mol.ChainOf(r).Name
		i, ok := pos[name]
		if !ok {
			i = len(ret)
			pos[name] = i
			ret = append(ret, chainMutations{chain: name})
		}
		ret[i].descriptors = append(ret[i].descriptors, fmt.Sprintf("%s-%d-%s", res.Name, res.PDBIndex, M[r]))
	}
	return ret
}

// boundaryBond is a bond between a backbone atom of a residue that is kept
// and an atom of a mutated residue, which the engine's output doesn't carry
// over to the new molecule.
type boundaryBond struct {
	kept       int    //atom index in the original molecule
	mutatedRes int    //residue index in the original molecule
	mutated    string //atom name
	order      float64
}

// boundaryBonds collects the bonds between the backbone atoms of the
// residues of mol not in muts, and the atoms of the residues in muts.
func boundaryBonds(mol *chem.Molecule, muts Mutations) []boundaryBond {
	var ret []boundaryBond
	for r := 0; r < mol.NResidues(); r++ {
		if _, ok := muts[r]; ok {
			continue
		}
		for _, a := range mol.Backbone(r, false) {
			at := mol.Atom(a)
			for _, b := range at.Bonds {
				partner := b.Cross(at)
				if _, ok := muts[partner.Residue()]; ok {
					ret = append(ret, boundaryBond{kept: a, mutatedRes: partner.Residue(), mutated: partner.Name, order: b.Order})
				}
			}
		}
	}
	return ret
}

// MutateResidues returns a mutant of mol, with the residues in muts replaced by
// the engine's mutated versions. mol is not modified. The other residues are
// copied from mol, with their bonds, and the backbone bonds between kept and
// mutated residues are re-created. The metadata of the mutant has the
// keys "origin", a copy of the metadata of mol, and "mutations", the list of
// mutations applied, as strings.
func MutateResidues(ctx context.Context, eng Engine, mol *chem.Molecule, muts Mutations) (*chem.Molecule, error) {
	if len(muts) == 0 {
		return nil, chem.NewError("", "MutateResidues", ErrNoMutations)
	}
	mutstrs := muts.Strings(mol)
	h, err := ToExternal(ctx, eng, mol)
	if err != nil {
		return nil, chem.ErrDecorate(err, "MutateResidues")
	}
	for _, cm := range muts.byChain(mol) {
		logger().Debug("applying mutations", zap.String("chain", cm.chain), zap.Strings("mutations", cm.descriptors))
		if err := h.ApplyMutations(ctx, cm.descriptors, cm.chain); err != nil {
			return nil, chem.ErrDecorate(err, "MutateResidues")
		}
	}
	temp, err := FromExternal(h)
	if err != nil {
		return nil, chem.ErrDecorate(err, "MutateResidues")
	}
	NormalizeChainNames(temp)
	if temp.NResidues() != mol.NResidues() {
		panic(fmt.Errorf("%w: %d before, %d after", ErrResidueCount, mol.NResidues(), temp.NResidues()))
	}

	//Must be collected before the engine's molecule is dropped.
	boundary := boundaryBonds(mol, muts)
	order := externalOrder(mol)

	b := chem.NewBuilder(fmt.Sprintf("Mutant of %q", mol.Name))
	kept := make(map[int]int)    //atoms of mol -> new atoms
	mutated := make(map[int]int) //atoms of temp -> new atoms
	for i := 0; i < mol.NChains(); i++ {
		c := mol.Chain(i)
		nc := b.AddChain(c.Name)
		for _, r := range c.Residues {
			if _, ok := muts[r]; ok {
				maps.Copy(mutated, b.CopyResidue(temp, order[r], nc))
				continue
			}
			maps.Copy(kept, b.CopyResidue(mol, r, nc))
		}
	}
	b.CopyBonds(mol, kept)
	b.CopyBonds(temp, mutated)
	for _, v := range boundary {
		t := temp.ResidueAtom(order[v.mutatedRes], v.mutated)
		if t < 0 {
			return nil, chem.NewError(fmt.Sprintf("%s in mutated residue %s", v.mutated, temp.Residue(order[v.mutatedRes])), "MutateResidues", ErrMissingAtom)
		}
		b.AddBond(kept[v.kept], mutated[t], v.order)
	}
	origin := maps.Clone(mol.Metadata)
	if origin == nil {
		origin = make(map[string]any)
	}
	b.SetMetadata(MetaOrigin, origin)
	b.SetMetadata(MetaMutations, mutstrs)
	mutant := b.Molecule()
	logger().Info("mutant built", zap.String("molecule", mol.Name), zap.Strings("mutations", mutstrs))
	logger().Debug("mutant sequence", zap.Strings("sequence", mutant.Sequence()))
	return mutant, nil
}

// MutateStrings parses the mutation strings specs (see ParseMutations) and
// applies the mutations to mol with MutateResidues.
func MutateStrings(ctx context.Context, eng Engine, mol *chem.Molecule, specs ...string) (*chem.Molecule, error) {
	muts, err := ParseMutations(mol, specs...)
	if err != nil {
		return nil, chem.ErrDecorate(err, "MutateStrings")
	}
	mutant, err := MutateResidues(ctx, eng, mol, muts)
	if err != nil {
		return nil, chem.ErrDecorate(err, "MutateStrings")
	}
	return mutant, nil
}
