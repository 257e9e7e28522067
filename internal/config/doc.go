// Package config loads the utf8 command's settings.
//
// Settings come from a single YAML file named by the --config flag or the
// UTF8_CONFIG environment variable. Without either, Default is used.
// Command-line flags override whatever the file sets.
//
//	mode: decode
//	format: text
//	lenient: false
//	names: true
//	chunk_size: 0
//	log:
//	  level: info
//	  format: console
package config
