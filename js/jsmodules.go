package js

// Modules bundled with the runner; each registers itself on import.
import (
	_ "github.com/liuxd6825/k6lazy/js/modules/lazy"
)
