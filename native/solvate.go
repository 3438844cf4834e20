/*
 * solvate.go, part of chemfix.
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
	"math"
	"sort"
	"strconv"
	"strings"

	chem "github.com/rmera/chemfix"
	"github.com/rmera/chemfix/fixer"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Molar concentration of pure water.
const waterMolarity = 55.4

// TIP3P geometry
const ohDistance = 0.9572 //Angstrom

var hohAngle = chem.Deg2Rad(104.52)

var positiveIons = []string{"Li", "Na", "K", "Rb", "Cs"}
var negativeIons = []string{"F", "Cl", "Br", "I"}

// Formal charges of the titratable residues in their usual protonation
// states, in the AMBER naming.
var residueCharges = map[string]float64{
	"ARG": 1,
	"LYS": 1,
	"HIP": 1,
	"ASP": -1,
	"GLU": -1,
}

// ionSymbol returns the element symbol for ion, as in "Na" for "NA+",
// if it is one of the allowed ions.
func ionSymbol(ion string, allowed []string) (string, error) {
	s := strings.TrimRight(ion, "+-")
	if s != "" {
		s = strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	}
	for _, v := range allowed {
		if v == s {
			return s, nil
		}
	}
	return "", chem.NewError(fmt.Sprintf("%q", ion), "ionSymbol", ErrUnknownIon)
}

// netCharge returns the charge of mol, from the charges of its residues
// and of any ions already in it.
func netCharge(mol *chem.Molecule) float64 {
	var q float64
	for r := 0; r < mol.NResidues(); r++ {
		res := mol.Residue(r)
		if c, ok := residueCharges[strings.ToUpper(res.Name)]; ok {
			q += c
			continue
		}
		if len(res.Atoms) == 1 {
			q += mol.Atom(res.Atoms[0]).Charge
		}
	}
	return q
}

// waterGrid returns the positions of the water oxygens in a box of size box
// centered in center, skipping those closer than cutoff to any atom of mol.
func (E *Engine) waterGrid(mol *chem.Molecule, center []float64, box [3]float64) [][]float64 {
	var tree *kdtree.Tree
	if mol.Len() > 0 {
		pts := make(kdtree.Points, mol.Len())
		for i := range pts {
			pts[i] = kdtree.Point(mol.Coords.Vec(i))
		}
		tree = kdtree.New(pts, false)
	}
	spacing := E.spacing()
	cutoff2 := E.cutoff() * E.cutoff()
	var n [3]int
	var lo [3]float64
	for i := range n {
		n[i] = int(box[i] / spacing)
		lo[i] = center[i] - box[i]/2 + spacing/2
	}
	ret := make([][]float64, 0, n[0]*n[1]*n[2])
	for i := 0; i < n[0]; i++ {
		for j := 0; j < n[1]; j++ {
			for k := 0; k < n[2]; k++ {
				p := []float64{lo[0] + float64(i)*spacing, lo[1] + float64(j)*spacing, lo[2] + float64(k)*spacing}
				if tree != nil {
					if _, d2 := tree.Nearest(kdtree.Point(p)); d2 < cutoff2 {
						continue
					}
				}
				ret = append(ret, p)
			}
		}
	}
	return ret
}

// ionCounts returns the number of positive and negative ions to add
// for a solute with charge q, in nwater waters, with an ionic strength of c
// mol/L.
func ionCounts(q float64, nwater int, c float64, neutralize bool) (npos, nneg int) {
	if neutralize {
		nq := int(math.Round(q))
		if nq > 0 {
			nneg = nq
		} else {
			npos = -nq
		}
	}
	pairs := int(math.Floor(float64(nwater)*c/waterMolarity + 0.5))
	return npos + pairs, nneg + pairs
}

// AddSolvent surrounds the structure with a box of water and ions, centered on
// the structure. The solvent is added in a new chain, named after its
// position, so "3" for a structure with 2 chains. Waters go first, followed by
// the positive ions and the negative ions, which replace the waters farthest
// from the center of the box.
func (H *Handle) AddSolvent(ctx context.Context, req fixer.SolventRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(req.ForceField) == 0 {
		return chem.NewError("", "native.Handle.AddSolvent", ErrNoForceField)
	}
	pos, err := ionSymbol(req.PositiveIon, positiveIons)
	if err != nil {
		return errDecorate(err, "native.Handle.AddSolvent")
	}
	neg, err := ionSymbol(req.NegativeIon, negativeIons)
	if err != nil {
		return errDecorate(err, "native.Handle.AddSolvent")
	}
	mol := H.mol
	center := make([]float64, 3)
	if mol.Len() > 0 {
		min, max := mol.Coords.Bounds()
		for i := range center {
			center[i] = (min[i] + max[i]) / 2
		}
	}
	waters := H.engine.waterGrid(mol, center, req.Box)
	q := netCharge(mol)
	npos, nneg := ionCounts(q, len(waters), req.IonicStrength, req.Neutralize)
	if npos+nneg > len(waters) {
		return chem.NewError(fmt.Sprintf("%d ions, %d waters", npos+nneg, len(waters)), "native.Handle.AddSolvent", ErrTooManyIons)
	}
	//the first npos+nneg elements of order are the waters to replace
	order := make([]int, len(waters))
	dist := make([]float64, len(waters))
	for i, w := range waters {
		order[i] = i
		dist[i] = floats.Distance(w, center, 2)
	}
	sort.SliceStable(order, func(i, j int) bool { return dist[order[i]] > dist[order[j]] })
	ions := make(map[int]bool, npos+nneg)
	for _, v := range order[:npos+nneg] {
		ions[v] = true
	}

	b := chem.NewBuilder(mol.Name)
	mapping := make(map[int]int, mol.Len())
	for i := 0; i < mol.NChains(); i++ {
		c := mol.Chain(i)
		nc := b.AddChain(c.Name)
		for _, r := range c.Residues {
			maps.Copy(mapping, b.CopyResidue(mol, r, nc))
		}
	}
	b.CopyBonds(mol, mapping)
	for k, v := range mol.Metadata {
		b.SetMetadata(k, v)
	}
	sc := b.AddChain(strconv.Itoa(mol.NChains() + 1))
	nres := 0
	for i, w := range waters {
		if ions[i] {
			continue
		}
		nres++
		addWater(b, sc, nres, w)
	}
	for i, v := range order[:npos+nneg] {
		sym, charge := pos, 1.0
		if i >= npos {
			sym, charge = neg, -1.0
		}
		nres++
		r := b.AddResidue(sc, strings.ToUpper(sym), nres, "")
		b.AddAtom(r, &chem.Atom{Name: strings.ToUpper(sym), Symbol: sym, Het: true, Charge: charge, Occupancy: 1}, waters[v])
	}
	H.mol = b.Molecule()
	logger().Info("solvent added", zap.Int("waters", len(waters)-npos-nneg), zap.Int("positive_ions", npos),
		zap.Int("negative_ions", nneg), zap.Float64("solute_charge", q), zap.Strings("forcefield", req.ForceField))
	return nil
}

// addWater adds a water molecule with its oxygen in o, as residue number
// num of the chain with index chain.
func addWater(b *chem.Builder, chain, num int, o []float64) {
	r := b.AddResidue(chain, "HOH", num, "")
	oi := b.AddAtom(r, &chem.Atom{Name: "O", Symbol: "O", Het: true, Occupancy: 1}, o)
	h1 := []float64{o[0] + ohDistance, o[1], o[2]}
	h2 := []float64{o[0] + ohDistance*math.Cos(hohAngle), o[1] + ohDistance*math.Sin(hohAngle), o[2]}
	b.AddBond(oi, b.AddAtom(r, &chem.Atom{Name: "H1", Symbol: "H", Het: true, Occupancy: 1}, h1), 1)
	b.AddBond(oi, b.AddAtom(r, &chem.Atom{Name: "H2", Symbol: "H", Het: true, Occupancy: 1}, h2), 1)
}
