// Package config provides centralized configuration management for the
// analysis pipeline. Values are loaded from three sources in increasing
// precedence:
//
//	1. Built-in defaults
//	2. An optional YAML file (config.yaml or configs/config.yaml)
//	3. Environment variables, namespaced NHANES_*
//
// For example:
//
//	NHANES_PATHS_DATA_DIR=/srv/nhanes/data
//	NHANES_PATHS_OUT_DIR=/srv/nhanes/results
//	NHANES_LOGGING_LEVEL=debug
//	NHANES_FETCH_CONCURRENCY=8
//
// Field constraints are declared as validator struct tags and checked after
// loading:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
