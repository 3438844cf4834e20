/*
Package native is a structure repair and solvation engine written in Go,
implementing fixer.Engine without external software.

Mutations keep the backbone of the residue and cut its side chain down to
the CB atom, building one with ideal geometry if needed (or removing it,
for glycine). Solvation fills a box with waters on a grid, in TIP3P
geometry, leaving out those that clash with the solute, and replaces the
waters farthest from the solute with ions.

Serve runs the engine as a worker, speaking the chemjson protocol, so it
can be used through a fixer.ExecEngine, for instance by running
"chemfix worker".
*/
package native
