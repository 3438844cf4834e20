/*
 * exec.go, part of chemfix.
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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	chem "github.com/rmera/chemfix"
	"github.com/rmera/chemfix/chemjson"
	"go.uber.org/zap"
)

// Runner runs one worker call, writing the request in stdin to the worker
// and the worker's response to stdout.
type Runner func(ctx context.Context, stdin io.Reader, stdout io.Writer) error

// ExecEngine is an Engine that runs every call in a worker process.
// The worker reads one chemjson.Request from its standard input and writes
// one chemjson.Response to its standard output. The worker is killed if
// the context is cancelled. "chemfix worker" is such a worker.
type ExecEngine struct {
	Command string
	Args    []string
	Env     []string //added to the environment of the current process

	//Run, if not nil, is used instead of running Command.
	Run Runner
}

// SetDefaults sets the command to run the chemfix worker.
func (E *ExecEngine) SetDefaults() {
	E.Command = "chemfix"
	E.Args = []string{"worker"}
}

func (E *ExecEngine) run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if E.Run != nil {
		return E.Run(ctx, stdin, stdout)
	}
	command := exec.CommandContext(ctx, E.Command, E.Args...)
	command.Stdin = stdin
	command.Stdout = stdout
	var stderr bytes.Buffer
	command.Stderr = &stderr
	if len(E.Env) > 0 {
		command.Env = append(os.Environ(), E.Env...)
	}
	if err := command.Run(); err != nil {
		return fmt.Errorf("worker %s failed: %w (%s)", E.Command, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// call sends req to a new worker and returns its structure. An error
// reported by the worker is returned unchanged, as a *chemjson.Error.
func (E *ExecEngine) call(ctx context.Context, req *chemjson.Request) (*chemjson.Structure, error) {
	var in, out bytes.Buffer
	if jerr := req.Send(&in); jerr != nil {
		return nil, jerr
	}
	logger().Debug("calling worker", zap.String("command", E.Command), zap.String("op", req.Op))
	if err := E.run(ctx, &in, &out); err != nil {
		return nil, chem.NewError("", "ExecEngine.call", err)
	}
	resp, jerr := chemjson.DecodeResponse(&out)
	if jerr != nil {
		return nil, jerr
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.Structure == nil {
		return nil, chem.NewError("", "ExecEngine.call", ErrNoTopology)
	}
	logger().Debug("worker done", zap.String("op", req.Op), zap.Int("atoms", resp.Structure.NAtoms()), zap.Int("residues", resp.Structure.NResidues()))
	return resp.Structure, nil
}

// Load sends the PDB to the worker, and returns a handle to the
// structure the worker read.
func (E *ExecEngine) Load(ctx context.Context, pdb []byte) (Handle, error) {
	s, err := E.call(ctx, &chemjson.Request{Op: chemjson.OpLoad, PDB: string(pdb)})
	if err != nil {
		return nil, err
	}
	return &execHandle{engine: E, structure: s}, nil
}

// execHandle keeps the last structure returned by the worker, and sends it
// along with each new request.
type execHandle struct {
	engine    *ExecEngine
	structure *chemjson.Structure
}

func (H *execHandle) Topology() *chemjson.Structure {
	return H.structure
}

func (H *execHandle) ApplyMutations(ctx context.Context, mutations []string, chain string) error {
	s, err := H.engine.call(ctx, &chemjson.Request{Op: chemjson.OpMutate, Structure: H.structure, Chain: chain, Mutations: mutations})
	if err != nil {
		return err
	}
	H.structure = s
	return nil
}

func (H *execHandle) AddSolvent(ctx context.Context, req SolventRequest) error {
	params := &chemjson.SolventParams{
		ForceField:    req.ForceField,
		Box:           req.Box,
		PositiveIon:   req.PositiveIon,
		NegativeIon:   req.NegativeIon,
		IonicStrength: req.IonicStrength,
		Neutralize:    req.Neutralize,
	}
	s, err := H.engine.call(ctx, &chemjson.Request{Op: chemjson.OpSolvate, Structure: H.structure, Solvent: params})
	if err != nil {
		return err
	}
	H.structure = s
	return nil
}
