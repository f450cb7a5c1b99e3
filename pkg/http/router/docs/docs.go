package docs

import _ "embed"

// OpenAPI describes the /api routes. It is maintained by hand next to the controllers.
//
//go:embed openapi.json
var OpenAPI []byte
