package kadencja

import (
	_ "embed"
)

// Embed the default board, effect and item catalog
//
//go:embed static/board.yaml
var BoardYAML []byte
