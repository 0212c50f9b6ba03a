// Package policy provides optional declarative rules that can be applied on
// top of the worker runners – for example to require confirmation before a
// program is spawned or to restrict the set of spawnable programs.
package policy
