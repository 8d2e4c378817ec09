// Package commands implements the kalvianroots CLI's subcommand tree.
// Init wires a shared familyservice.Service once, in the root command's
// PersistentPreRunE; every subcommand reads it from the package-level
// Service and Cfg variables rather than rebuilding it per invocation.
package commands
