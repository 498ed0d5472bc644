// Package config defines the format-agnostic model for user card
// definitions, along with the Loader interface implemented by concrete
// configuration formats.
//
// The `config.Model` is what the app turns into format table entries.
// Concrete loaders, such as the HCL one, live in separate packages.
package config
