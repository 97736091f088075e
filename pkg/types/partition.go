package types

// PartitionFor returns the partition index hosting the given record ID,
// using the fleet-wide placement rule ((id-1) mod P) + 1. Every table
// is partitioned with the same rule, so an account and its history
// always land on the same partition index.
func PartitionFor(id, partitions int) int {
	return ((id - 1) % partitions) + 1
}
