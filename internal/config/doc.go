// Package config provides configuration structures and utilities for
// a11yscan: the options of an audit run, their validation, and the YAML
// file carrying per-site request settings.
package config
