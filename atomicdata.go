/*
 * atomicdata.go, part of chemfix.
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

import "strings"

// A map for assigning covalent radii to elements
// Values from Cordero et al., 2008 (DOI:10.1039/B801115J)
// Note that just common "bio-elements" are present
var symbolCovrad = map[string]float64{
	"H":  0.4, // 0.31 in the paper. H has only one bond, the extra bonds get eliminated later.
	"C":  0.76,
	"O":  0.66,
	"N":  0.71,
	"P":  1.07,
	"S":  1.05,
	"Se": 1.2,
	"Li": 1.28,
	"K":  2.03,
	"Rb": 2.20,
	"Cs": 2.44,
	"Ca": 1.76,
	"Mg": 1.41,
	"Cl": 1.02,
	"Na": 1.66,
	"Cu": 1.32,
	"Zn": 1.22,
	"Co": 1.5,  // hs
	"Fe": 1.52, //hs
	"Mn": 1.61, //hs
	"F":  0.57,
	"Br": 1.2,
	"I":  1.39,
}

// A map for checking that atoms don't
// have too many bonds. Elements not in the map are not checked.
var symbolMaxBonds = map[string]int{
	"H":  1, //this is the only one truly important.
	"C":  4,
	"O":  2,
	"F":  1,
	"Br": 1,
	"I":  1,
}

// Monoatomic ions, which never bond.
var ionSymbols = map[string]bool{
	"Li": true,
	"Na": true,
	"K":  true,
	"Rb": true,
	"Cs": true,
	"F":  true,
	"Cl": true,
	"Br": true,
	"I":  true,
	"Mg": true,
	"Ca": true,
	"Zn": true,
}

// A map between 3-letters name for aminoacidic residues to the corresponding 1-letter names.
// It includes the usual AMBER protonation variants.
var three2One = map[string]string{
	"SER": "S",
	"THR": "T",
	"ASN": "N",
	"GLN": "Q",
	"SEC": "U", //Selenocysteine!
	"CYS": "C",
	"CYX": "C",
	"CYM": "C",
	"GLY": "G",
	"PRO": "P",
	"ALA": "A",
	"VAL": "V",
	"ILE": "I",
	"LEU": "L",
	"MET": "M",
	"PHE": "F",
	"TYR": "Y",
	"TRP": "W",
	"ARG": "R",
	"HIS": "H",
	"HID": "H",
	"HIE": "H",
	"HIP": "H",
	"LYS": "K",
	"LYN": "K",
	"ASP": "D",
	"ASH": "D",
	"GLU": "E",
	"GLH": "E",
	"PYL": "O",
}

// The canonical 3-letter name for each 1-letter code.
var one2Three = map[string]string{
	"S": "SER",
	"T": "THR",
	"N": "ASN",
	"Q": "GLN",
	"U": "SEC",
	"C": "CYS",
	"G": "GLY",
	"P": "PRO",
	"A": "ALA",
	"V": "VAL",
	"I": "ILE",
	"L": "LEU",
	"M": "MET",
	"F": "PHE",
	"Y": "TYR",
	"W": "TRP",
	"R": "ARG",
	"H": "HIS",
	"K": "LYS",
	"D": "ASP",
	"E": "GLU",
	"O": "PYL",
}

// Atoms that take part in the links between consecutive residues, for
// proteins and nucleic acids.
var backboneHeavy = map[string]bool{
	"N":   true,
	"CA":  true,
	"C":   true,
	"O":   true,
	"P":   true,
	"OP1": true,
	"OP2": true,
	"O5'": true,
	"C5'": true,
	"C4'": true,
	"C3'": true,
	"O3'": true,
}

// Backbone atoms that don't link residues.
var backboneOther = map[string]bool{
	"OXT": true,
	"H":   true,
	"HA":  true,
}

// OneLetter returns the 1-letter code for the residue name res, or an
// empty string if res is not a known amino acid. The comparison is
// case-insensitive.
func OneLetter(res string) string {
	return three2One[strings.ToUpper(res)]
}

// ThreeLetter returns the canonical 3-letter residue name for the
// 1-letter amino acid code c, or an empty string if c is not known.
func ThreeLetter(c string) string {
	return one2Three[strings.ToUpper(c)]
}

// IsAminoAcid returns true if res is a known amino acid residue name.
func IsAminoAcid(res string) bool {
	return OneLetter(res) != ""
}

// IsBackbone returns true if name is the name of a backbone atom.
// If linking is true, only the atoms that can bond to a neighboring
// residue count.
func IsBackbone(name string, linking bool) bool {
	if backboneHeavy[name] {
		return true
	}
	return !linking && backboneOther[name]
}
