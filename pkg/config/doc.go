/*
Package config loads the worker node configuration.

Configuration is resolved in three layers: built-in defaults (the
reference three-node, three-partition topology), an optional YAML file,
and CLI flag overrides applied by cmd/bancod. The arqueo_scope setting
makes the fleet audit contract explicit: "all" (default) sums every
accounts partition present on the node, "primary" sums only the node's
own partition; the fleet orchestrator must poll accordingly.

Example file:

	host: 0.0.0.0
	port: 9001
	node_id: 1
	partitions: 3
	nodes: 3
	data_dir: data
	log_dir: logs
	arqueo_scope: all
	metrics_addr: 127.0.0.1:9101
*/
package config
