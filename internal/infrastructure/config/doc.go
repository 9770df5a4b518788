// Package config handles loading and validating brewshell configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The device list is not part of this file. It lives in the RTU conf
// referenced by rtu.config_file and is loaded by package rtu.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.RTU.ConfigFile)
package config
