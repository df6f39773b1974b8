package schemas

import "embed"

// SchemasFS - JSON-схемы событий и тел запросов.
//
//go:embed events/*/*.json requests/*/*.json
var SchemasFS embed.FS
