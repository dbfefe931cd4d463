// Package config defines the format-agnostic project model for the
// application, along with the Loader interface that format-specific
// packages implement.
//
// The `config.Model` is the single source of truth for the `app` package.
// Concrete loaders for HCL and YAML live in the hclconfig and yamlconfig
// packages.
package config
