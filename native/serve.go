/*
 * serve.go, part of chemfix.
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
	"encoding/json"
	"errors"
	"io"

	chem "github.com/rmera/chemfix"
	"github.com/rmera/chemfix/chemjson"
	"github.com/rmera/chemfix/fixer"
	"go.uber.org/zap"
)

// Serve reads requests from r and writes one response per request to w,
// until r is exhausted or ctx is cancelled. Errors in processing a request
// are sent back in the response. Serve only returns an error if a request
// can't be decoded (after sending the error in a response) or if a
// response can't be written.
func (E *Engine) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	dec := json.NewDecoder(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		req, err := chemjson.DecodeRequest(dec)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var jerr *chemjson.Error
			if errors.As(err, &jerr) {
				(&chemjson.Response{Error: jerr}).Send(w)
			}
			return err
		}
		resp := E.process(ctx, req)
		if jerr := resp.Send(w); jerr != nil {
			return jerr
		}
	}
}

// Serve serves the zero-value Engine. See Engine.Serve.
func Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	return new(Engine).Serve(ctx, r, w)
}

func (E *Engine) process(ctx context.Context, req *chemjson.Request) *chemjson.Response {
	fname := "native." + req.Op
	fail := func(err error) *chemjson.Response {
		logger().Warn("request failed", zap.String("op", req.Op), zap.Error(err))
		return &chemjson.Response{Error: chemjson.NewError("process", fname, err)}
	}
	var h fixer.Handle
	var err error
	switch req.Op {
	case chemjson.OpLoad:
		if h, err = E.Load(ctx, []byte(req.PDB)); err != nil {
			return fail(err)
		}
	case chemjson.OpMutate, chemjson.OpSolvate:
		if req.Structure == nil {
			return fail(chem.NewError("", fname, fixer.ErrNoTopology))
		}
		mol, err := req.Structure.Molecule()
		if err != nil {
			return fail(err)
		}
		h = E.Open(mol)
		if req.Op == chemjson.OpMutate {
			err = h.ApplyMutations(ctx, req.Mutations, req.Chain)
		} else if req.Solvent == nil {
			err = chem.Errorf(fname, "no solvent parameters")
		} else {
			s := req.Solvent
			err = h.AddSolvent(ctx, fixer.SolventRequest{
				ForceField:    s.ForceField,
				Box:           s.Box,
				PositiveIon:   s.PositiveIon,
				NegativeIon:   s.NegativeIon,
				IonicStrength: s.IonicStrength,
				Neutralize:    s.Neutralize,
			})
		}
		if err != nil {
			return fail(err)
		}
	default:
		return fail(chem.NewError(req.Op, fname, ErrBadOp))
	}
	return &chemjson.Response{Structure: h.Topology()}
}
