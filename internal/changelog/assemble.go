package changelog

import (
	"time"
)

// AssembleOptions carries the release-level inputs that do not come from the
// commits themselves.
type AssembleOptions struct {
	// PriorVersion is the version the release follows, usually the start
	// boundary tag of the commit range.
	PriorVersion string

	// TagPrefix is prepended to the computed version in the release
	// heading. Defaults to "v".
	TagPrefix string

	// Date is the release date. The zero value means the current date.
	Date time.Time
}

// Assemble builds a Release from classified commits: it computes the next
// version from the prior one, stamps the release date, and groups commits
// into sections ordered by the registry's declaration order. Within a
// section, commits keep the order they were supplied in.
func Assemble(reg *Registry, commits []ClassifiedCommit, opts AssembleOptions) (*Release, error) {
	next, err := NextVersion(opts.PriorVersion, commits)
	if err != nil {
		return nil, err
	}

	prefix := opts.TagPrefix
	if prefix == "" {
		prefix = "v"
	}
	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}

	bySection := make(map[string][]ClassifiedCommit)
	for _, c := range commits {
		bySection[c.Type.Section] = append(bySection[c.Type.Section], c)
	}

	release := &Release{
		Version: prefix + next,
		Date:    date,
	}
	for _, name := range reg.Sections() {
		if len(bySection[name]) == 0 {
			continue
		}
		release.Sections = append(release.Sections, Section{
			Name:    name,
			Commits: bySection[name],
		})
	}
	return release, nil
}
