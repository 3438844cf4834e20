/*
 * files.go, part of chemfix.
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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/klauspost/compress/zstd"
)

// PDB files with names ending with this suffix are read and written
// compressed with zstd.
const ZstdSuffix = ".zst"

//PDBRead family

// This tries to guess a chemical element symbol from a PDB atom name. Mostly based on AMBER names.
// It only deals with some common bio-elements.
func symbolFromName(name string) (string, error) {
	name = strings.TrimLeftFunc(strings.ToUpper(name), unicode.IsDigit)
	if name == "" {
		return "", fmt.Errorf("Couldn't guess symbol from an empty PDB name")
	}
	//Names that are exactly an element symbol, such as most ions.
	for _, s := range []string{"NA", "CL", "LI", "RB", "CS", "BR", "MG", "CA", "ZN", "FE", "CU", "MN", "CO", "SE"} {
		if name == s || name == s+"+" || name == s+"-" || name == s+"2+" {
			if s == "CA" && name == "CA" {
				break //C-alpha, most likely.
			}
			return string(s[0]) + strings.ToLower(s[1:]), nil
		}
	}
	symbol := ""
	switch name[0] {
	case 'H':
		symbol = "H"
	case 'C':
		symbol = "C"
	case 'N':
		symbol = "N"
	case 'O':
		symbol = "O"
	case 'P':
		symbol = "P"
	case 'S':
		symbol = "S"
	case 'K':
		symbol = "K"
	case 'F':
		symbol = "F"
	case 'I':
		symbol = "I"
	}
	if symbol == "" {
		return symbol, fmt.Errorf("Couldn't guess symbol from PDB name %s", name)
	}
	return symbol, nil
}

// normalizes an element symbol, so "CL" becomes "Cl".
func normalSymbol(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return strings.ToUpper(s)
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

type resKey struct {
	chain string
	name  string
	seq   int
	ins   string
}

// Parses a valid ATOM or HETATM line of a PDB file, returns an Atom
// object with the info except for the coordinates, which are returned
// separately as a slice of 3 float64, and the key of the atom's residue.
func readPDBAtomLine(line string) (*Atom, []float64, resKey, error) {
	var rk resKey
	if len(line) < 54 {
		return nil, nil, rk, fmt.Errorf("ATOM/HETATM line too short")
	}
	if len(line) < 80 {
		line += strings.Repeat(" ", 80-len(line))
	}
	err := make([]error, 4) //accumulate errors to check at the end of the line.
	coords := make([]float64, 3)
	atom := new(Atom)
	atom.Het = strings.HasPrefix(line, "HETATM")
	atom.ID, _ = strconv.Atoi(strings.TrimSpace(line[6:11])) //serial numbers may overflow in large systems.
	atom.Name = strings.TrimSpace(line[12:16])
	rk.name = strings.TrimSpace(line[17:21])
	rk.chain = strings.TrimSpace(line[21:22])
	rk.seq, err[0] = strconv.Atoi(strings.TrimSpace(line[22:26]))
	rk.ins = strings.TrimSpace(line[26:27])
	coords[0], err[1] = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	coords[1], err[2] = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	coords[2], err[3] = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	for _, e := range err {
		if e != nil {
			return nil, nil, rk, e
		}
	}
	// In this part we don't catch errors. If something is missing we
	// just omit it
	atom.Occupancy = 1
	if o, e := strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64); e == nil {
		atom.Occupancy = o
	}
	atom.Bfactor, _ = strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
	atom.Symbol = normalSymbol(line[76:78])
	if q := strings.TrimSpace(line[78:80]); len(q) == 2 {
		c, e := strconv.Atoi(q[:1])
		if e == nil && q[1] == '-' {
			atom.Charge = -float64(c)
		} else if e == nil {
			atom.Charge = float64(c)
		}
	}
	//This part tries to guess the symbol from the atom name, if it has not been read
	if atom.Symbol == "" {
		var e error
		atom.Symbol, e = symbolFromName(atom.Name)
		if e != nil {
			return nil, nil, rk, e
		}
	}
	return atom, coords, rk, nil
}

// reads a CONECT line, adding to count one entry for each partner listed.
func readPDBConectLine(line string, count map[[2]int]int) {
	field := func(i int) (int, bool) {
		if len(line) < i+5 {
			return 0, false
		}
		v, err := strconv.Atoi(strings.TrimSpace(line[i : i+5]))
		return v, err == nil
	}
	origin, ok := field(6)
	if !ok {
		return
	}
	for i := 11; i <= 26; i += 5 {
		if partner, ok := field(i); ok {
			count[[2]int{origin, partner}]++
		}
	}
}

// PDBRead reads a molecule in PDB format from pdb. Only the first model
// is read. Chains are split when the chain identifier changes or at TER
// records. For atoms with alternate locations, only the first location
// is kept. Bonds are read from CONECT records, where a bond listed
// n times has order n. No other bonds are assigned, see AssignBonds.
func PDBRead(pdb io.Reader) (*Molecule, error) {
	b := NewBuilder("")
	scanner := bufio.NewScanner(pdb)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	serials := make(map[int]int) //serial number -> atom index
	conect := make(map[[2]int]int)
	curchain, curres := -1, -1
	var last resKey
	newchain := true
	lineno := 0
reading:
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "ATOM  ") || strings.HasPrefix(line, "HETATM"):
			if len(line) > 16 && line[16] != ' ' && line[16] != 'A' {
				continue
			}
			at, coords, rk, err := readPDBAtomLine(line)
			if err != nil {
				return nil, NewError(fmt.Sprintf("Error reading PDB line %d", lineno), "PDBRead", err)
			}
			if newchain || rk.chain != last.chain {
				curchain = b.AddChain(rk.chain)
				newchain = false
				curres = -1
			}
			if curres < 0 || rk != last {
				curres = b.AddResidue(curchain, rk.name, rk.seq, rk.ins)
				last = rk
			}
			serials[at.ID] = b.AddAtom(curres, at, coords)
		case strings.HasPrefix(line, "TER"):
			newchain = true
		case strings.HasPrefix(line, "ENDMDL"):
			break reading
		case strings.HasPrefix(line, "CONECT"):
			readPDBConectLine(line, conect)
		case strings.HasPrefix(line, "TITLE") && len(line) > 10:
			b.mol.Name = strings.TrimSpace(b.mol.Name + " " + strings.TrimSpace(line[10:]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, NewError("Error reading PDB", "PDBRead", err)
	}
	if b.Len() == 0 {
		return nil, Errorf("PDBRead", "No atoms found in PDB")
	}
	pairs := make([][2]int, 0, len(conect))
	for k := range conect {
		if k[0] < k[1] || conect[[2]int{k[1], k[0]}] == 0 {
			pairs = append(pairs, k)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	for _, p := range pairs {
		i, ok1 := serials[p[0]]
		j, ok2 := serials[p[1]]
		if !ok1 || !ok2 || i == j {
			continue //the bond involves atoms not read, such as other alternate locations.
		}
		order := conect[p]
		if rev := conect[[2]int{p[1], p[0]}]; rev > order {
			order = rev
		}
		b.AddBond(i, j, float64(order))
	}
	return b.Molecule(), nil
}

// PDBFileRead reads the PDB file pdbname. If the name ends with ".zst",
// the file is decompressed with zstd.
func PDBFileRead(pdbname string) (*Molecule, error) {
	f, err := os.Open(pdbname)
	if err != nil {
		return nil, NewError("Can't open PDB file "+pdbname, "PDBFileRead", err)
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(pdbname, ZstdSuffix) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, NewError("Can't decompress "+pdbname, "PDBFileRead", err)
		}
		defer dec.Close()
		r = dec
	}
	mol, err := PDBRead(r)
	if err != nil {
		return nil, errDecorate(err, "PDBFileRead "+pdbname)
	}
	if mol.Name == "" {
		mol.Name = strings.TrimSuffix(strings.TrimSuffix(pdbname, ZstdSuffix), ".pdb")
	}
	return mol, nil
}

//End PDBRead family

// formats the atom name so 1-letter elements start at the 14th column,
// as in the standard.
func pdbAtomName(at *Atom) string {
	if len(at.Name) >= 4 || len(at.Symbol) == 2 {
		return at.Name
	}
	return " " + at.Name
}

func pdbCharge(c float64) string {
	if c == 0 || c != math.Trunc(c) || math.Abs(c) > 9 {
		return ""
	}
	if c > 0 {
		return fmt.Sprintf("%d+", int(c))
	}
	return fmt.Sprintf("%d-", int(-c))
}

// PDBWrite writes mol in PDB format to out. A TER record follows every
// chain, and bonds are written as CONECT records, each bond repeated as
// many times as its order. Serial and residue numbers that don't fit the
// format wrap around, in which case CONECT records are not written.
// Chain names longer than one character don't fit either, and give an error
// before anything is written.
func PDBWrite(out io.Writer, mol *Molecule) error {
	if mol == nil {
		panic(ErrNilMolecule)
	}
	if mol.Coords.NVecs() != mol.Len() {
		panic(ErrCoordsMismatch)
	}
	for _, c := range mol.chains {
		if len(c.Name) > 1 {
			return NewError(fmt.Sprintf("chain %q", c.Name), "PDBWrite", ErrChainName)
		}
	}
	w := bufio.NewWriter(out)
	if mol.Name != "" {
		fmt.Fprintf(w, "TITLE     %s\n", strings.ReplaceAll(mol.Name, "\n", " "))
	}
	serial := make([]int, mol.Len())
	n := 0
	for _, c := range mol.chains {
		chainID := " "
		if c.Name != "" {
			chainID = c.Name[:1]
		}
		for _, r := range c.Residues {
			res := mol.residues[r]
			for _, a := range res.Atoms {
				at := mol.atoms[a]
				n++
				serial[a] = n % 100000
				rec := "ATOM"
				if at.Het {
					rec = "HETATM"
				}
				coords := mol.Coords.Vec(a)
				fmt.Fprintf(w, "%-6s%5d %-4s %-4s%1s%4d%1s   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s%2s\n",
					rec, serial[a], pdbAtomName(at), res.Name, chainID, res.PDBIndex%10000, res.InsCode,
					coords[0], coords[1], coords[2], at.Occupancy, at.Bfactor, strings.ToUpper(at.Symbol), pdbCharge(at.Charge))
			}
		}
		fmt.Fprintln(w, "TER")
	}
	if n < 100000 {
		writeConect(w, mol, serial)
	}
	fmt.Fprintln(w, "END")
	if err := w.Flush(); err != nil {
		return NewError("Error writing PDB", "PDBWrite", err)
	}
	return nil
}

func writeConect(w io.Writer, mol *Molecule, serial []int) {
	for i, at := range mol.atoms {
		partners := make([]int, 0, len(at.Bonds))
		for _, b := range at.Bonds {
			o := int(b.Order)
			if o < 1 {
				o = 1
			}
			for k := 0; k < o; k++ {
				partners = append(partners, serial[b.Cross(at).index])
			}
		}
		sort.Ints(partners)
		for len(partners) > 0 {
			l := len(partners)
			if l > 4 {
				l = 4
			}
			fmt.Fprintf(w, "CONECT%5d", serial[i])
			for _, p := range partners[:l] {
				fmt.Fprintf(w, "%5d", p)
			}
			fmt.Fprintln(w)
			partners = partners[l:]
		}
	}
}

// PDBStringWrite returns mol in PDB format, as a string.
func PDBStringWrite(mol *Molecule) (string, error) {
	var buf bytes.Buffer
	if err := PDBWrite(&buf, mol); err != nil {
		return "", errDecorate(err, "PDBStringWrite")
	}
	return buf.String(), nil
}

// PDBFileWrite writes mol to the file pdbname in PDB format. If the name ends
// with ".zst", the file is compressed with zstd.
func PDBFileWrite(pdbname string, mol *Molecule) (err error) {
	f, err := os.Create(pdbname)
	if err != nil {
		return NewError("Can't create PDB file "+pdbname, "PDBFileWrite", err)
	}
	defer func() {
		if err2 := f.Close(); err == nil && err2 != nil {
			err = NewError("Can't close PDB file "+pdbname, "PDBFileWrite", err2)
		}
	}()
	if !strings.HasSuffix(pdbname, ZstdSuffix) {
		return errDecorate(PDBWrite(f, mol), "PDBFileWrite")
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		return NewError("Can't compress "+pdbname, "PDBFileWrite", err)
	}
	if err := PDBWrite(enc, mol); err != nil {
		enc.Close()
		return errDecorate(err, "PDBFileWrite")
	}
	if err := enc.Close(); err != nil {
		return NewError("Can't compress "+pdbname, "PDBFileWrite", err)
	}
	return nil
}
