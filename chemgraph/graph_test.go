/*
 * graph_test.go, part of chemfix.
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

package chemgraph

import (
	"testing"

	chem "github.com/rmera/chemfix"
)

func names(mol *chem.Molecule, atoms []int) map[string]bool {
	ret := make(map[string]bool)
	for _, v := range atoms {
		ret[mol.Atom(v).Name] = true
	}
	return ret
}

func TestSideChain(Te *testing.T) {
	mol, err := chem.PDBFileRead("../test/peptide.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	top := TopologyFromChem(mol, nil)
	if top.Nodes().Len() != mol.Len() {
		Te.Fatalf("expected %d nodes, got %d", mol.Len(), top.Nodes().Len())
	}
	//residue 2 is LYS42
	sc := names(mol, top.SideChain(2))
	for _, n := range []string{"CB", "CG", "CD", "CE", "NZ"} {
		if !sc[n] {
			Te.Errorf("%s missing from the LYS side chain", n)
		}
	}
	if len(sc) != 5 {
		Te.Errorf("expected 5 side chain atoms, got %v", sc)
	}
	//residue 0 is GLY40
	if top.SideChain(0) != nil {
		Te.Errorf("glycine has no side chain")
	}
	//Walking all the bonds from the first atom covers chain A only.
	all := top.Reachable(0, nil)
	n := 0
	for _, r := range mol.Chain(0).Residues {
		n += len(mol.Residue(r).Atoms)
	}
	if len(all) != n {
		Te.Errorf("expected the whole chain A, got %d atoms", len(all))
	}
	if w, ok := top.Weight(int64(all[0]), int64(all[1])); !ok || w != 1 {
		Te.Errorf("wrong weight %v %v", w, ok)
	}
}
