// Package internal holds credential entropy helpers shared by the root
// engine. Nothing here is part of the public API.
package internal
