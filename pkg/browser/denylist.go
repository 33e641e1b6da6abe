package browser

import (
	"fmt"

	"github.com/gobwas/glob"
)

// blockedResourceTypes are request resource types aborted wholesale to
// reduce noise and flakiness. Fonts contribute nothing to the workflow.
var blockedResourceTypes = map[string]bool{
	"font": true,
}

// blockedDomainPatterns match analytics and consent-vendor hosts whose
// requests are aborted before they leave the page.
var blockedDomainPatterns = []string{
	"*quantcount.com*",
	"*onetrust.com*",
	"*cookiebot.com*",
	"*googletagmanager.com*",
}

// denylist decides which intercepted requests to abort.
type denylist struct {
	globs []glob.Glob
}

func newDenylist(patterns []string) (*denylist, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid denylist pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return &denylist{globs: globs}, nil
}

// Blocks reports whether a request with the given resource type and URL
// should be aborted.
func (d *denylist) Blocks(resourceType, requestURL string) bool {
	if blockedResourceTypes[resourceType] {
		return true
	}
	for _, g := range d.globs {
		if g.Match(requestURL) {
			return true
		}
	}
	return false
}
