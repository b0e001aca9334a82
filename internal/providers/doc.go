// Package providers holds the relay's outbound integrations.
//
// Only one exists today: http/client, the dispatcher that performs the
// relayed call against the target server.
package providers
