/*
 * main.go, part of chemfix.
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

// Command chemfix applies point mutations and water boxes to PDB files.
//
//	chemfix mutate -i in.pdb -o out.pdb A.K42A 45S
//	chemfix solvate -i in.pdb -o out.pdb.zst --padding 10 --concentration 0.15
//	chemfix worker
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	chem "github.com/rmera/chemfix"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp().root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

// errorMessage formats err for the terminal, followed by the functions
// it went through, if it is a chem.CError.
func errorMessage(err error) string {
	var cerr chem.CError
	if errors.As(err, &cerr) && cerr.Trace() != "" {
		return fmt.Sprintf("chemfix: %v (in %s)", err, cerr.Trace())
	}
	return "chemfix: " + err.Error()
}
