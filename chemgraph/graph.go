/*
 * graph.go, part of chemfix.
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

// Package chemgraph builds gonum graphs from the bonds of a chem.Molecule.
package chemgraph

import (
	"sort"

	chem "github.com/rmera/chemfix"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Atom is a node of the bond graph. Its ID is the index of the atom
// in its molecule.
type Atom struct {
	*chem.Atom
}

func (A Atom) ID() int64 {
	return int64(A.Index())
}

// Topology is the bond graph of a molecule. It implements the gonum
// graph.Undirected and graph.Weighted interfaces.
type Topology struct {
	*simple.WeightedUndirectedGraph
	mol *chem.Molecule
}

// TopologyFromChem builds the graph for mol. The weight of each edge is
// given by weightfunc or, if weightfunc is nil, by the order of the bond, with
// bonds of undetermined order weighting 1.
func TopologyFromChem(mol *chem.Molecule, weightfunc func(*chem.Bond) float64) *Topology {
	if weightfunc == nil {
		weightfunc = func(B *chem.Bond) float64 {
			if B.Order <= 0 {
				return 1
			}
			return B.Order
		}
	}
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i := 0; i < mol.Len(); i++ {
		g.AddNode(Atom{mol.Atom(i)})
	}
	for _, b := range mol.Bonds() {
		g.SetWeightedEdge(simple.WeightedEdge{F: Atom{b.At1}, T: Atom{b.At2}, W: weightfunc(b)})
	}
	return &Topology{WeightedUndirectedGraph: g, mol: mol}
}

// Bond returns the bond represented by the edge e.
func (T *Topology) Bond(e graph.Edge) *chem.Bond {
	return T.mol.Atom(int(e.From().ID())).BondedTo(int(e.To().ID()))
}

// Reachable returns the sorted indexes of the atoms that can be reached from the
// atom with index from, walking only the bonds for which follow returns true.
// follow gets the bond and the atom the walk would move to. If follow is nil,
// all bonds are walked. from is always included.
func (T *Topology) Reachable(from int, follow func(b *chem.Bond, to *chem.Atom) bool) []int {
	ret := make([]int, 0, 8)
	bf := traverse.BreadthFirst{
		Visit: func(n graph.Node) { ret = append(ret, int(n.ID())) },
	}
	if follow != nil {
		bf.Traverse = func(e graph.Edge) bool {
			return follow(T.Bond(e), T.mol.Atom(int(e.To().ID())))
		}
	}
	bf.Walk(T, T.Node(int64(from)), nil)
	sort.Ints(ret)
	return ret
}

// SideChain returns the sorted indexes of the side chain atoms of the
// residue with index res: the atoms of the residue reachable from its CB
// without crossing a backbone atom. It returns nil if the residue has
// no CB, as glycine.
func (T *Topology) SideChain(res int) []int {
	cb := T.mol.ResidueAtom(res, "CB")
	if cb < 0 {
		return nil
	}
	return T.Reachable(cb, func(b *chem.Bond, to *chem.Atom) bool {
		return to.Residue() == res && !chem.IsBackbone(to.Name, false)
	})
}
