// Package config defines the format-agnostic project configuration model and
// the Loader interface implemented by the format-specific packages
// (hclconfig, tomlconfig).
//
// A project file is optional. When present it names the build script, the
// default target, logging settings and the variables exposed to scripts as
// lbuild.vars. Command-line flags always take precedence.
package config
