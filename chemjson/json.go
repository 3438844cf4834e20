/*
 * json.go, part of chemfix.
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

package chemjson

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	chem "github.com/rmera/chemfix"
)

// Atom is a ready-to-serialize container for an atom and its position.
type Atom struct {
	Name     string
	Element  string
	Position [3]float64
	Het      bool    `json:",omitempty"`
	Charge   float64 `json:",omitempty"`
}

// Residue is a ready-to-serialize container for a residue.
type Residue struct {
	Name          string
	Number        int
	InsertionCode string `json:",omitempty"`
	Atoms         []Atom
}

// Chain is a ready-to-serialize container for a chain.
type Chain struct {
	ID       string
	Residues []Residue
}

// Bond joins the atoms with indexes Atom1 and Atom2, counting atoms
// in the order they appear in the chains of the structure.
type Bond struct {
	Atom1 int
	Atom2 int
	Order float64 `json:",omitempty"`
}

// Structure is the representation of a molecule that crosses process
// boundaries: a topology (chains, residues, atoms and bonds) plus one
// set of positions, in Angstrom.
type Structure struct {
	Name   string `json:",omitempty"`
	Chains []Chain
	Bonds  []Bond `json:",omitempty"`
}

// NAtoms returns the number of atoms in the structure.
func (S *Structure) NAtoms() int {
	n := 0
	for _, c := range S.Chains {
		for _, r := range c.Residues {
			n += len(r.Atoms)
		}
	}
	return n
}

// NResidues returns the number of residues in the structure.
func (S *Structure) NResidues() int {
	n := 0
	for _, c := range S.Chains {
		n += len(c.Residues)
	}
	return n
}

// FromMolecule returns the Structure for mol. Atoms are listed chain by
// chain, so their order can differ from that in mol if mol's residues
// are not sorted by chain.
func FromMolecule(mol *chem.Molecule) *Structure {
	S := &Structure{Name: mol.Name, Chains: make([]Chain, 0, mol.NChains())}
	order := make(map[int]int, mol.Len()) //atom index in mol -> atom index in S
	for i := 0; i < mol.NChains(); i++ {
		c := mol.Chain(i)
		jc := Chain{ID: c.Name, Residues: make([]Residue, 0, len(c.Residues))}
		for _, r := range c.Residues {
			res := mol.Residue(r)
			jr := Residue{Name: res.Name, Number: res.PDBIndex, InsertionCode: res.InsCode, Atoms: make([]Atom, 0, len(res.Atoms))}
			for _, a := range res.Atoms {
				at := mol.Atom(a)
				ja := Atom{Name: at.Name, Element: at.Symbol, Het: at.Het, Charge: at.Charge}
				copy(ja.Position[:], mol.Coords.Vec(a))
				order[a] = len(order)
				jr.Atoms = append(jr.Atoms, ja)
			}
			jc.Residues = append(jc.Residues, jr)
		}
		S.Chains = append(S.Chains, jc)
	}
	for _, b := range mol.Bonds() {
		S.Bonds = append(S.Bonds, Bond{Atom1: order[b.At1.Index()], Atom2: order[b.At2.Index()], Order: b.Order})
	}
	return S
}

// Molecule builds a new chem.Molecule from the structure, keeping its
// order of chains, residues and atoms.
func (S *Structure) Molecule() (*chem.Molecule, error) {
	b := chem.NewBuilder(S.Name)
	for _, c := range S.Chains {
		ci := b.AddChain(c.ID)
		for _, r := range c.Residues {
			ri := b.AddResidue(ci, r.Name, r.Number, r.InsertionCode)
			for _, a := range r.Atoms {
				at := &chem.Atom{Name: a.Name, Symbol: a.Element, Het: a.Het, Charge: a.Charge, Occupancy: 1, ID: b.Len() + 1}
				b.AddAtom(ri, at, a.Position[:])
			}
		}
	}
	n := b.Len()
	for i, v := range S.Bonds {
		if v.Atom1 < 0 || v.Atom2 < 0 || v.Atom1 >= n || v.Atom2 >= n || v.Atom1 == v.Atom2 {
			return nil, chem.Errorf("Structure.Molecule", "Bond %d joins invalid atoms %d and %d (%d atoms)", i, v.Atom1, v.Atom2, n)
		}
		b.AddBond(v.Atom1, v.Atom2, v.Order)
	}
	return b.Molecule(), nil
}

// Operations a worker can be asked to perform.
const (
	OpLoad    = "load"
	OpMutate  = "mutate"
	OpSolvate = "solvate"
)

// SolventParams are the parameters for a solvation request.
type SolventParams struct {
	ForceField    []string
	Box           [3]float64 //Angstrom
	PositiveIon   string
	NegativeIon   string
	IonicStrength float64 //molar
	Neutralize    bool
}

// Request is sent to a worker. Load requests carry a PDB, the others
// carry the Structure the worker returned for the previous request.
type Request struct {
	Op        string
	PDB       string         `json:",omitempty"`
	Structure *Structure     `json:",omitempty"`
	Chain     string         `json:",omitempty"`
	Mutations []string       `json:",omitempty"`
	Solvent   *SolventParams `json:",omitempty"`
}

// Response is sent back by a worker, either with a Structure or with an Error.
type Response struct {
	Structure *Structure `json:",omitempty"`
	Error     *Error     `json:",omitempty"`
}

// Send Marshals the request and writes it to out as one line.
func (R *Request) Send(out io.Writer) *Error {
	if err := json.NewEncoder(out).Encode(R); err != nil {
		return NewError("request", "Request.Send", err)
	}
	return nil
}

// Send Marshals the response and writes it to out as one line.
func (R *Response) Send(out io.Writer) *Error {
	if err := json.NewEncoder(out).Encode(R); err != nil {
		return NewError("postprocess", "Response.Send", err)
	}
	return nil
}

// DecodeRequest reads the next request from dec. It returns io.EOF, unwrapped,
// when there are no more requests.
func DecodeRequest(dec *json.Decoder) (*Request, error) {
	ret := new(Request)
	if err := dec.Decode(ret); err == io.EOF {
		return nil, err
	} else if err != nil {
		return nil, NewError("request", "DecodeRequest", err)
	}
	return ret, nil
}

// DecodeResponse reads one response from in.
func DecodeResponse(in io.Reader) (*Response, *Error) {
	ret := new(Response)
	if err := json.NewDecoder(in).Decode(ret); err != nil {
		return nil, NewError("postprocess", "DecodeResponse", err)
	}
	return ret, nil
}

// Error is an easily JSON-serializable error type,
type Error struct {
	deco          []string
	IsError       bool //If this is false (no error) all the other fields will be at their zero-values.
	InRequest     bool //If error, was it in parsing the request?
	InProcess     bool
	InPostProcess bool   //was it in preparing the output?
	Function      string //which go function gave the error
	Message       string //the error itself
}

// Error implements the error interface
func (J *Error) Error() string {
	if J.Function == "" {
		return J.Message
	}
	return fmt.Sprintf("%s: %s", J.Function, J.Message)
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (J *Error) Decorate(dec string) []string {
	if dec == "" {
		return J.deco
	}
	J.deco = append(J.deco, dec)
	return J.deco
}

// Critical returns true, errors coming from a worker are always critical.
func (J *Error) Critical() bool { return true }

// Marshal serializes the error. Panics on failure.
func (J *Error) Marshal() []byte {
	ret, err2 := json.Marshal(J)
	if err2 != nil {
		panic(strings.Join([]string{J.Error(), err2.Error()}, " - ")) //an error while serializing your error.
	}
	return ret
}

// NewError takes an error and some additional info to create a json-marshal-able error.
// where can be "request", "postprocess" or anything else, meaning that the error
// happened while processing the request.
func NewError(where, function string, err error) *Error {
	jerr := new(Error)
	jerr.IsError = true
	switch where {
	case "request":
		jerr.InRequest = true
	case "postprocess":
		jerr.InPostProcess = true
	default:
		jerr.InProcess = true
	}
	jerr.Function = function
	jerr.Message = err.Error()
	return jerr
}
