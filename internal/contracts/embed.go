package contracts

import "embed"

// Схемы запросов, зашитые в бинарник.
//
//go:embed schemas
var schemasFS embed.FS
