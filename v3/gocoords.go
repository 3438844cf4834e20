/*
 * gocoords.go, part of chemfix.
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

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SomeVecs puts in the receiver the vectors of A with the indexes in clist,
// in the same order as clist.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	if F.NVecs() != len(clist) {
		panic(ErrShape)
	}
	for key, val := range clist {
		F.SetRow(key, mat.Row(nil, val, A.Dense))
	}
}

// AddVec adds the vector vec to each vector of the matrix A, putting the
// result on the receiver.
func (F *Matrix) AddVec(A *Matrix, vec []float64) {
	if len(vec) != 3 || F.NVecs() != A.NVecs() {
		panic(ErrShape)
	}
	for i := 0; i < A.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)+vec[j])
		}
	}
}

// Cross returns the cross product of the 3-vectors a and b.
func Cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Dist returns the euclidean distance between the vectors i and j of F.
func (F *Matrix) Dist(i, j int) float64 {
	return floats.Distance(F.Vec(i), F.Vec(j), 2)
}

// Bounds returns, for each of the 3 dimensions, the smallest and largest
// coordinate in F. Panics on an empty matrix.
func (F *Matrix) Bounds() (min, max [3]float64) {
	if F.NVecs() == 0 {
		panic(ErrEmpty)
	}
	col := make([]float64, F.NVecs())
	for j := 0; j < 3; j++ {
		mat.Col(col, j, F.Dense)
		min[j] = floats.Min(col)
		max[j] = floats.Max(col)
	}
	return min, max
}

// Extent returns the size of the axis-aligned bounding box of F in each
// dimension. An empty matrix has zero extent.
func (F *Matrix) Extent() [3]float64 {
	var ret [3]float64
	if F.NVecs() == 0 {
		return ret
	}
	min, max := F.Bounds()
	for i := range ret {
		ret[i] = max[i] - min[i]
	}
	return ret
}

// Centroid returns the geometric center of the vectors in F.
func (F *Matrix) Centroid() []float64 {
	ret := make([]float64, 3)
	n := F.NVecs()
	if n == 0 {
		return ret
	}
	for i := 0; i < n; i++ {
		floats.Add(ret, F.Vec(i))
	}
	floats.Scale(1/float64(n), ret)
	return ret
}

// String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r := F.NVecs()
	v := make([]string, 0, r+2)
	v = append(v, "[")
	for i := 0; i < r; i++ {
		row := F.Vec(i)
		v = append(v, fmt.Sprintf(" %8.3f %8.3f %8.3f", row[0], row[1], row[2]))
	}
	v = append(v, " ]")
	return strings.Join(v, "\n")
}
