// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the build lifecycle: loading the project
// file, evaluating the build script, resolving dependencies and running the
// requested target. It is decoupled from any specific entrypoint like a CLI.
package app
