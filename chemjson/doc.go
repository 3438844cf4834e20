// Package chemjson implements serialization and unserialization of
// chemfix data types. Its planned use is the communication of chemfix
// programs with other, independent programs which can be written in
// languages other than Go, as long as those languages implement a
// way of serializing and unserializing JSON data.
// chemjson also implements the transmission of requests, so an external
// program can ask a worker to load, mutate or solvate a structure and
// later collect the results, for instance, via UNIX pipes.
package chemjson
