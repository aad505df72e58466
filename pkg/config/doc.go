// Package config loads cloak's configuration.
//
// Values come from three layers, each overriding the previous one: the
// embedded defaults, the project file <root>/.cloak.toml, and CLOAK_*
// environment variables. The result is decoded into Config.
package config
