/*
 * mutation.go, part of chemfix.
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
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	chem "github.com/rmera/chemfix"
	"go.uber.org/zap"
)

// Mutations maps residue indexes to the 3-letter name of the residue
// each will be mutated into.
type Mutations map[int]string

// Add sets the mutation of residue res into newres. Panics if res
// already has a mutation.
func (M Mutations) Add(res int, newres string) {
	if old, ok := M[res]; ok {
		panic(fmt.Errorf("%w: residue %d (%s and %s)", ErrDuplicateMutation, res, old, newres))
	}
	M[res] = newres
}

// Residues returns the indexes of the mutated residues, in increasing order.
func (M Mutations) Residues() []int {
	ret := make([]int, 0, len(M))
	for k := range M {
		ret = append(ret, k)
	}
	sort.Ints(ret)
	return ret
}

// Strings returns a human-readable description of each mutation, in
// the order given by Residues. See MutationString.
func (M Mutations) Strings(mol *chem.Molecule) []string {
	ret := make([]string, 0, len(M))
	for _, r := range M.Residues() {
		s, err := MutationString(mol, r, M[r])
		if err != nil {
			logger().Warn("failed to construct mutation code", zap.Int("residue", r), zap.Error(err))
			s = fmt.Sprintf("%s -> %s", mol.Residue(r), M[r])
		}
		ret = append(ret, s)
	}
	return ret
}

// MutationString describes the mutation of the residue with index res into newres,
// following the protein nomenclature of den Dunnen and Antonarakis
// (Hum Genet 109(1): 121-124, 2001): "A23W" or, if the residue's chain has a
// name, "C.A23W". The code of an unknown newres is "?". It fails if the
// residue has no 1-letter code.
func MutationString(mol *chem.Molecule, res int, newres string) (string, error) {
	r := mol.Residue(res)
	code := r.Code()
	if code == "" {
		return "", chem.Errorf("MutationString", "residue %s has no 1-letter code", r)
	}
	newcode := chem.OneLetter(newres)
	if newcode == "" {
		newcode = "?"
	}
	s := fmt.Sprintf("%s%d%s", code, r.PDBIndex, newcode)
	if c := mol.ChainOf(res).Name; c != "" {
		s = c + "." + s
	}
	return s, nil
}

// [chain.][fromcode]position tocode
var mutationRe = regexp.MustCompile(`^(?:([^.]+)\.)?([^\d.]*)(\d+)([^\d.]+)$`)

// ParseMutations turns mutation strings into a Mutations map for mol.
// Each string has the form
//
//	[chain.][fromcode]position tocode
//
// where chain is the name of a chain (if omitted, all chains are searched),
// fromcode is the 1-letter code or the 3-letter name of the residue being
// mutated (if omitted, the residue is found by position alone), position is the
// residue number, and tocode is the 1-letter code or the 3-letter name of the
// new residue. Codes are case-insensitive. For instance, "A43M" mutates
// every ALA43 into MET, "332S" mutates residue 332 of every chain into SER, and
// "B.C53N" mutates the CYS53 of chain B into ASN.
// A string that matches several residues mutates all of them. Two mutations
// for the same residue cause a panic.
func ParseMutations(mol *chem.Molecule, specs ...string) (Mutations, error) {
	ret := make(Mutations)
	for _, s := range specs {
		m := mutationRe.FindStringSubmatch(strings.TrimSpace(s))
		if m == nil {
			return nil, chem.NewError(fmt.Sprintf("%q", s), "ParseMutations", ErrMalformedMutation)
		}
		chain, from, pos, to := m[1], strings.ToUpper(m[2]), m[3], strings.ToUpper(m[4])
		newres, ok := residueName(to)
		if !ok {
			return nil, chem.NewError(fmt.Sprintf("%q: %s", s, to), "ParseMutations", ErrUnknownResidue)
		}
		if len(from) > 1 && len(from) != 3 || len(from) == 1 && chem.ThreeLetter(from) == "" {
			return nil, chem.NewError(fmt.Sprintf("%q: %s", s, from), "ParseMutations", ErrUnknownResidue)
		}
		var chains []string
		if chain != "" {
			if len(chem.ChainsByName(mol, chain)) == 0 {
				return nil, chem.NewError(fmt.Sprintf("%q: %s", s, chain), "ParseMutations", ErrUnknownChain)
			}
			chains = []string{chain}
		}
		pdbindex, err := strconv.Atoi(pos)
		if err != nil {
			return nil, chem.NewError(fmt.Sprintf("%q", s), "ParseMutations", ErrMalformedMutation)
		}
		matched := 0
		for _, r := range chem.FindResidues(mol, pdbindex, chains...) {
			res := mol.Residue(r)
			if len(from) == 1 && res.Code() != from || len(from) == 3 && strings.ToUpper(res.Name) != from {
				continue
			}
			ret.Add(r, newres)
			matched++
		}
		if matched == 0 {
			return nil, chem.NewError(fmt.Sprintf("%q", s), "ParseMutations", ErrNoMatch)
		}
	}
	return ret, nil
}

// residueName returns the 3-letter name of the amino acid with the given
// 1-letter code or 3-letter name.
func residueName(code string) (string, bool) {
	if len(code) == 1 {
		n := chem.ThreeLetter(code)
		return n, n != ""
	}
	if chem.IsAminoAcid(code) {
		return strings.ToUpper(code), true
	}
	return "", false
}
