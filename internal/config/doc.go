// Package config loads the typemeta configuration from a YAML file, a .env
// file and TYPEMETA_* environment variables, in increasing precedence.
package config
