// Command relay serves the request relay endpoint.
//
// Configuration is read from defaults, an optional -config file, then
// environment variables; -port and -host override the listen address.
package main
