/*
 * doc.go, part of chemfix.
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

/*
Package chem is the molecule model of chemfix.

A Molecule is an arena: atoms, residues, chains and bonds live in flat
slices owned by the molecule and refer to each other by index, while the
cartesian coordinates are kept in a v3.Matrix, one row per atom.
Molecules are built with a Builder, which always copies the atoms it
is given, so two molecules never share objects. Functions that "change" a
molecule, such as those in the fixer package, build a new one instead.

The package reads and writes PDB files, optionally compressed with zstd,
and assigns bonds from interatomic distances when the file doesn't carry
CONECT records.

Errors returned by the package implement the chem.Error interface. Functions
panic, with a PanicMsg, when given data that can only come from a programming
error, such as out of range indexes.
*/
package chem
