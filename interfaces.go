/*
 * interfaces.go, part of chemfix.
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
	"errors"
	"fmt"
	"strings"
)

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call returns the "decoration" slice resulting from the current call. An empty string just returns the current value.
	Critical() bool
}

// CError is the concrete error type used in the chem package and
// in the packages built on top of it.
type CError struct {
	msg      string
	deco     []string
	critical bool
	wrapped  error
}

// NewError returns a CError with the given message, decorated with
// the name of the function that produced it. If wrapped is not nil,
// the error wraps it, so errors.Is and errors.As can see through.
func NewError(msg, caller string, wrapped error) CError {
	return CError{msg: msg, deco: []string{caller}, critical: true, wrapped: wrapped}
}

// Errorf is like NewError, but the message is formatted. It wraps
// nothing.
func Errorf(caller, format string, a ...any) CError {
	return CError{msg: fmt.Sprintf(format, a...), deco: []string{caller}, critical: true}
}

func (err CError) Error() string {
	if err.wrapped != nil && err.msg != "" {
		return err.msg + ": " + err.wrapped.Error()
	} else if err.wrapped != nil {
		return err.wrapped.Error()
	}
	return err.msg
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored
func (err CError) Critical() bool { return err.critical }

// Unwrap returns the wrapped error, if any.
func (err CError) Unwrap() error { return err.wrapped }

// Trace returns the list of functions the error went through, the
// innermost first.
func (err CError) Trace() string {
	return strings.Join(err.deco, " <- ")
}

// ErrDecorate asserts that the error implements chem.Error and decorates
// the error with the caller's name before returning it.
// If used with a non-chem.Error error, it will return it wrapped in a CError
// carrying the caller's name.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(CError); ok {
		err2.deco = err2.Decorate(caller)
		return err2
	}
	if err3, ok := err.(Error); ok {
		err3.Decorate(caller)
		return err3
	}
	return CError{deco: []string{caller}, critical: true, wrapped: err}
}

func errDecorate(err error, caller string) error {
	return ErrDecorate(err, caller)
}

// ErrChainName is returned when writing a molecule with a chain name that the
// PDB format can't hold.
var ErrChainName = errors.New("chemfix: chain name longer than one character")

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// for errors use CError.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNilMolecule     = PanicMsg("chemfix: Given a nil molecule")
	ErrAtomOutOfRange  = PanicMsg("chemfix: Atom index out of range")
	ErrResOutOfRange   = PanicMsg("chemfix: Residue index out of range")
	ErrChainOutOfRange = PanicMsg("chemfix: Chain index out of range")
	ErrSelfBond        = PanicMsg("chemfix: Attempted to bond an atom to itself")
	ErrCoordsMismatch  = PanicMsg("chemfix: Number of coordinates doesn't match the number of atoms")
	ErrNotInBond       = PanicMsg("chemfix: The origin atom given is not present in the bond")
)
