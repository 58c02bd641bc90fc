// Package imagen provides an implementation of the generation.ImageGenerator
// interface backed by the Vertex AI Imagen prediction endpoint.
//
// This package is an infrastructure adapter: it translates a prompt into the
// service's predict request, authenticates it with a bearer token, and maps
// the response back to raw image bytes.
//
// Key components:
//
// 1. Client:
//   - Implements generation.ImageGenerator
//   - POSTs {instances, parameters} to the per-project, per-region endpoint
//   - Decodes the first prediction's base64 payload
//
// 2. Credentials:
//   - The client receives an oauth2.TokenSource through its constructor
//   - DefaultTokenSource resolves Application Default Credentials
//   - Token() is called before each request so expiring tokens are refreshed
//
// 3. Error Handling:
//   - Every failure is returned as an error wrapping a generation sentinel
//   - Non-OK responses carry the status code and body in *StatusError
//   - Nothing panics past this boundary
package imagen
