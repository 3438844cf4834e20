package chemjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	chem "github.com/rmera/chemfix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readPeptide(t *testing.T) *chem.Molecule {
	t.Helper()
	mol, err := chem.PDBFileRead("../test/peptide.pdb")
	require.NoError(t, err)
	return mol
}

func TestStructureRoundTrip(t *testing.T) {
	mol := readPeptide(t)
	s := FromMolecule(mol)
	assert.Equal(t, mol.Len(), s.NAtoms())
	assert.Equal(t, mol.NResidues(), s.NResidues())
	assert.Len(t, s.Bonds, len(mol.Bonds()))
	assert.Equal(t, "A", s.Chains[0].ID)
	assert.Equal(t, 43, s.Chains[0].Residues[3].Number)

	var buf bytes.Buffer
	req := &Request{Op: OpMutate, Structure: s, Chain: "A", Mutations: []string{"ALA-43-MET"}}
	require.Nil(t, req.Send(&buf))
	got, err := DecodeRequest(json.NewDecoder(&buf))
	require.NoError(t, err)
	assert.Equal(t, req, got)

	mol2, err := got.Structure.Molecule()
	require.NoError(t, err)
	require.Equal(t, mol.Len(), mol2.Len())
	assert.Equal(t, mol.Sequence(), mol2.Sequence())
	for i := 0; i < mol.Len(); i++ {
		assert.Equal(t, mol.Atom(i).Name, mol2.Atom(i).Name)
		assert.Equal(t, mol.Atom(i).Symbol, mol2.Atom(i).Symbol)
		assert.InDeltaSlice(t, mol.Coords.Vec(i), mol2.Coords.Vec(i), 1e-9)
	}
	assert.Len(t, mol2.Bonds(), len(mol.Bonds()))
}

func TestDecodeRequestEOF(t *testing.T) {
	_, err := DecodeRequest(json.NewDecoder(bytes.NewReader(nil)))
	assert.True(t, errors.Is(err, io.EOF))
	_, err = DecodeRequest(json.NewDecoder(bytes.NewBufferString("{not json")))
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	assert.True(t, jerr.InRequest)
}

func TestInvalidBond(t *testing.T) {
	s := &Structure{
		Chains: []Chain{{ID: "A", Residues: []Residue{{Name: "HOH", Number: 1, Atoms: []Atom{{Name: "O", Element: "O"}}}}}},
		Bonds:  []Bond{{Atom1: 0, Atom2: 3}},
	}
	_, err := s.Molecule()
	assert.Error(t, err)
}

func TestErrorResponse(t *testing.T) {
	resp := &Response{Error: NewError("process", "native.ApplyMutations", errors.New("residue not found"))}
	var buf bytes.Buffer
	require.Nil(t, resp.Send(&buf))
	got, jerr := DecodeResponse(&buf)
	require.Nil(t, jerr)
	require.NotNil(t, got.Error)
	assert.Nil(t, got.Structure)
	assert.True(t, got.Error.IsError)
	assert.True(t, got.Error.InProcess)
	assert.Equal(t, "native.ApplyMutations: residue not found", got.Error.Error())
	assert.Contains(t, string(got.Error.Marshal()), "residue not found")
}
