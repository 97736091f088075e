/*
Package seed bootstraps the fleet's data directories.

The generator produces the on-disk layout the workers assume: for each
node, data/node{N} with {table}_part{p}.txt files for every partition
the node hosts. Placement is circular: node i is primary for partition
i and holds replicas of its two neighbours, so with the reference
three-node topology every partition exists on every node.

Seeded values satisfy the worker's invariants from the start: balances
are non-negative, loan paid never exceeds total, and stored loan
statuses are consistent with the paid amount and deadline. Monetary
values are generated in whole cents; floats are never involved.
*/
package seed
