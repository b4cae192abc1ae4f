// SPDX-License-Identifier: MPL-2.0

// Package config loads wheelpack's settings with Viper, using CUE as the file
// format.
//
// A config file is looked up at the --config path, then at
// <user config dir>/wheelpack/config.cue, then at ./config.cue. The file is
// validated against the embedded #Config schema (config_schema.cue) and
// merged over the defaults. WHEELPACK_* environment variables override both;
// nested keys use an underscore, e.g. WHEELPACK_UI_VERBOSE.
package config
