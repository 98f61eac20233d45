package cascade

import _ "embed"

// FoundationCSS is the built-in default stylesheet, always the first cascade
// tier unless the manifest disables default styles. Plugin and custom tiers
// rely on appearing after it so normal cascade specificity lets them override.
//
//go:embed foundation.css
var FoundationCSS string
