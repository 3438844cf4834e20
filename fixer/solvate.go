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

package fixer

import (
	"context"
	"fmt"
	"math"
	"strings"

	chem "github.com/rmera/chemfix"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/unit"
)

// WaterOptions contains the options for AddWater. Each option is read
// and set with a method of the same name: a call without arguments
// returns the current value, a call with arguments sets it first.
type WaterOptions struct {
	box           []float64
	padding       float64
	concentration unit.Uniter
	neutralize    bool
	positiveIon   string
	negativeIon   string
	forceField    []string
}

// DefaultWaterOptions returns the default options: no box size, no padding,
// no ions beyond those needed to neutralize the solute, Na+ and Cl- ions, and
// the AMBER14 force field with TIP3P-FB water.
func DefaultWaterOptions() *WaterOptions {
	return &WaterOptions{
		concentration: unit.Dimless(0),
		neutralize:    true,
		positiveIon:   "Na+",
		negativeIon:   "Cl-",
		forceField:    []string{"amber14-all.xml", "amber14/tip3pfb.xml"},
	}
}

// BoxSize is the minimum size of the water box, in Angstrom. It can be given as
// one value, for a cubic box, or as 3, one per dimension. A nil box means
// no minimum size.
func (O *WaterOptions) BoxSize(size ...float64) []float64 {
	switch len(size) {
	case 0:
	case 1, 3:
		O.box = append([]float64(nil), size...)
	default:
		panic(ErrBoxSize)
	}
	return append([]float64(nil), O.box...)
}

// Padding is the minimum distance, in Angstrom, between the solute and the
// edge of the box in each dimension. 0 means no padding.
func (O *WaterOptions) Padding(padding ...float64) float64 {
	if len(padding) > 0 {
		O.padding = padding[0]
	}
	return O.padding
}

// IonConcentration is the concentration of ions to add, beyond those
// needed to neutralize the solute. A dimensionless value is taken as molar.
func (O *WaterOptions) IonConcentration(c ...unit.Uniter) unit.Uniter {
	if len(c) > 0 {
		O.concentration = c[0]
	}
	return O.concentration
}

// Neutralize sets whether ions are added to neutralize the solute's charge.
func (O *WaterOptions) Neutralize(n ...bool) bool {
	if len(n) > 0 {
		O.neutralize = n[0]
	}
	return O.neutralize
}

// PositiveIon is the positive ion to add, with or without the charge sign.
func (O *WaterOptions) PositiveIon(ion ...string) string {
	if len(ion) > 0 {
		O.positiveIon = ion[0]
	}
	return O.positiveIon
}

// NegativeIon is the negative ion to add, with or without the charge sign.
func (O *WaterOptions) NegativeIon(ion ...string) string {
	if len(ion) > 0 {
		O.negativeIon = ion[0]
	}
	return O.negativeIon
}

// ForceField is the list of force field files for the engine.
func (O *WaterOptions) ForceField(ff ...string) []string {
	if len(ff) > 0 {
		O.forceField = append([]string(nil), ff...)
	}
	return append([]string(nil), O.forceField...)
}

// ionName appends the sign to ion if missing. Panics if ion ends with
// the opposite sign.
func ionName(ion string, sign, opposite byte) string {
	if strings.HasSuffix(ion, string(opposite)) {
		panic(fmt.Errorf("%w: %q", ErrIonSign, ion))
	}
	if !strings.HasSuffix(ion, string(sign)) {
		ion += string(sign)
	}
	return ion
}

var molPerCubicMeter = unit.New(1, unit.Dimensions{unit.MoleDim: 1, unit.LengthDim: -3})

// molar returns the concentration c in mol/L.
func molar(c unit.Uniter) (float64, error) {
	if c == nil {
		return 0, nil
	}
	u := c.Unit()
	if len(u.Dimensions()) == 0 {
		return u.Value(), nil
	}
	if unit.DimensionsMatch(u, molPerCubicMeter) {
		return u.Value() / 1000, nil
	}
	return 0, chem.NewError(fmt.Sprintf("%v", u), "molar", ErrConcentrationUnit)
}

// SolvationBox returns the size of the water box for mol: in each dimension, the
// larger of the box size and the extent of mol plus the padding. Panics if
// a dimension is negative.
func SolvationBox(mol *chem.Molecule, O *WaterOptions) [3]float64 {
	var box [3]float64
	switch b := O.BoxSize(); len(b) {
	case 1:
		box = [3]float64{b[0], b[0], b[0]}
	case 3:
		copy(box[:], b)
	}
	if O.Padding() != 0 {
		extent := mol.Coords.Extent()
		for i := range box {
			box[i] = math.Max(box[i], extent[i]+O.Padding())
		}
	}
	if floats.Min(box[:]) < 0 {
		panic(fmt.Errorf("%w: %v", ErrNegativeBox, box))
	}
	return box
}

// soluteShift returns the mean displacement of the atoms of mol in
// solvated, where order gives the index in solvated of each residue of
// mol. Atoms are matched by name.
func soluteShift(mol, solvated *chem.Molecule, order []int) []float64 {
	var before, after []int
	for r, p := range order {
		for _, a := range mol.Residue(r).Atoms {
			s := solvated.ResidueAtom(p, mol.Atom(a).Name)
			if s < 0 {
				continue
			}
			before = append(before, a)
			after = append(after, s)
		}
	}
	shift := chem.SelectCoords(solvated, after).Centroid()
	floats.Sub(shift, chem.SelectCoords(mol, before).Centroid())
	return shift
}

// AddWater returns a new molecule with mol surrounded by a box of water and
// ions, placed by eng. At least one of a box size and a padding must be
// given in O. mol is not modified, and its atoms are copied verbatim into
// the new molecule, followed by the solvent, in new chains. If the engine
// moved the solute, the solvent is moved by the opposite of the mean
// displacement of the solute atoms. The metadata of the new molecule has
// the key "origin", the metadata of mol.
func AddWater(ctx context.Context, eng Engine, mol *chem.Molecule, O *WaterOptions) (*chem.Molecule, error) {
	if O == nil {
		O = DefaultWaterOptions()
	}
	if len(O.BoxSize()) == 0 && O.Padding() == 0 {
		return nil, chem.NewError("", "AddWater", ErrNoBox)
	}
	req := SolventRequest{
		ForceField:  O.ForceField(),
		PositiveIon: ionName(O.PositiveIon(), '+', '-'),
		NegativeIon: ionName(O.NegativeIon(), '-', '+'),
		Neutralize:  O.Neutralize(),
	}
	var err error
	if req.IonicStrength, err = molar(O.IonConcentration()); err != nil {
		return nil, chem.ErrDecorate(err, "AddWater")
	}
	req.Box = SolvationBox(mol, O)
	h, err := ToExternal(ctx, eng, mol)
	if err != nil {
		return nil, chem.ErrDecorate(err, "AddWater")
	}
	logger().Debug("adding solvent", zap.Float64s("box", req.Box[:]), zap.Float64("ionic_strength", req.IonicStrength))
	if err := h.AddSolvent(ctx, req); err != nil {
		return nil, chem.ErrDecorate(err, "AddWater")
	}
	solvated, err := FromExternal(h)
	if err != nil {
		return nil, chem.ErrDecorate(err, "AddWater")
	}
	NormalizeChainNames(solvated)
	nres := mol.NResidues()
	if solvated.NResidues() < nres {
		panic(fmt.Errorf("%w: %d residues in the solute, %d after solvation", ErrSolvatedCount, nres, solvated.NResidues()))
	}
	shift := soluteShift(mol, solvated, externalOrder(mol))

	b := chem.NewBuilder(fmt.Sprintf("Solvated %s", mol.Name))
	solute := make(map[int]int, mol.Len())
	for i := 0; i < mol.NChains(); i++ {
		c := mol.Chain(i)
		nc := b.AddChain(c.Name)
		for _, r := range c.Residues {
			for k, v := range b.CopyResidue(mol, r, nc) {
				solute[k] = v
			}
		}
	}
	b.CopyBonds(mol, solute)
	solvent := make(map[int]int, solvated.Len())
	newchains := make(map[int]int) //chains of solvated -> new chains
	for r := nres; r < solvated.NResidues(); r++ {
		res := solvated.Residue(r)
		nc, ok := newchains[res.Chain]
		if !ok {
			nc = b.AddChain(solvated.Chain(res.Chain).Name)
			newchains[res.Chain] = nc
		}
		nr := b.AddResidue(nc, res.Name, res.PDBIndex, res.InsCode)
		for _, a := range res.Atoms {
			pos := solvated.Coords.Vec(a)
			floats.Sub(pos, shift)
			solvent[a] = b.AddAtom(nr, solvated.Atom(a), pos)
		}
	}
	b.CopyBonds(solvated, solvent)
	b.SetMetadata(MetaOrigin, mol.Metadata)
	if b.Len() != solvated.Len() || b.NResidues() != solvated.NResidues() {
		panic(fmt.Errorf("%w: %d atoms and %d residues, expected %d and %d", ErrSolvatedCount, b.Len(), b.NResidues(), solvated.Len(), solvated.NResidues()))
	}
	logger().Info("solvated", zap.String("molecule", mol.Name), zap.Int("solvent_residues", solvated.NResidues()-nres), zap.Float64s("box", req.Box[:]))
	return b.Molecule(), nil
}
