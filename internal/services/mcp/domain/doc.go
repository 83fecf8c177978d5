// Package domain exposes the users API as MCP tools.
//
// Each tool maps one protocol call onto one API request and returns a
// structured result that MCP clients can render. API failures surface as
// tool errors carrying the API's own message.
package domain
