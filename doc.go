// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package aterm defines a store for maximally shared ("hash-consed") terms, the
basic data structure used to represent symbolic expressions in verification
tools such as rewriters, state space generators and equation solvers.

Basics

A term is either an integer leaf or the application of a function symbol to a
list of terms, its arguments. Function symbols are pairs (name, arity) interned
in the store with method Symbol. Terms are built with methods Apply and Int and
are handled through values of type Term.

The store guarantees that two structurally equal terms are represented by the
same node. Hence two terms are equal if and only if their handles are equal,
and comparing terms is done in constant time.

Memory management

Nodes are reference counted. Every call to Apply or Int returns a term with one
reference owned by the caller; AddRef adds a reference and DelRef gives one
back. A node also holds one reference on each of its arguments and on its
function symbol. When the count of a node drops to zero, the node is removed
from the store, together with all its subterms that become unreferenced. Since
a node can only be built from existing nodes, terms form an acyclic graph and
reference counting is enough to reclaim all unused memory.

Nodes are stored in blocks of 64 bits words, one set of blocks for each size
of node (the size of a node with n arguments is 3+n words). Slots of reclaimed
nodes are reused for new nodes of the same size. Blocks are never returned to
the Go runtime before the store is closed.

Use of build tags

When building with the build tag `debug`, the store checks more invariants at
runtime, counts the steps through hash chains and logs (at debug level) each
resize of the term table and each new block. Method Check can be used in all
builds to verify the consistency of the whole store.

Concurrency

A Store is not safe for concurrent use. Stores are independent from each
other, and different goroutines can use different stores.
*/
package aterm
