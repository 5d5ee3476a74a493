// Package config loads and validates the application configuration: the
// shared NATS connection settings and the set of wrapper instances to run.
//
// Configuration is JSON with ${VAR} environment expansion. Wrapper settings
// are validated up front so a bad instance entry fails startup instead of
// surfacing later at open time.
package config
