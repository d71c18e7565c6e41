// Package docs carries the OpenAPI description of the HTTP API. The file is
// maintained by hand and served through the swagger UI at /swagger/.
package docs

import _ "embed"

//go:embed openapi.json
var OpenAPI []byte
