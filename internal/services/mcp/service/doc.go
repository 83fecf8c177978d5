// Package service hosts the MCP bridge in front of the users API.
//
// The same tool set is served over stdio for local clients and over
// streamable HTTP for remote ones. The HTTP transport requires a bearer API
// key and only answers loopback or explicitly allowed hosts.
package service
