// Package config provides configuration structures for graph execution.
//
// Configuration follows the same lifecycle as every other config section in
// the module: decoded from a file (JSON or YAML), merged over defaults with
// Merge, then handed to a constructor which resolves string references such
// as the observer name into live objects. Config values are not kept around
// after construction.
//
//	cfg := config.DefaultGraphConfig("interview")
//	cfg.Merge(&loaded)
//	graph, err := state.NewGraph[S, U](cfg, reduce)
package config
