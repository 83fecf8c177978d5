// Package timeouts holds the time bounds shared by the API and the MCP bridge.
package timeouts

import "time"

const (
	// GRPCDial bounds how long a client waits for the health endpoint to
	// report SERVING.
	GRPCDial = 2 * time.Second
	// HealthProbe bounds one grpc.health.v1 Check call.
	HealthProbe = time.Second
	// APIRequest bounds one outbound call from the MCP bridge to the API.
	APIRequest = 5 * time.Second
	// ReadHeader bounds how long an HTTP server waits for request headers.
	ReadHeader = 5 * time.Second
	// Shutdown bounds the graceful drain of in-flight requests.
	Shutdown = 5 * time.Second
)
