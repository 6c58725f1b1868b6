package atlassian

// ContentURL exports contentURL for testing.
func (c *Client) ContentURL(repo, path, branch string) string {
	return c.contentURL(repo, path, branch)
}

// SortVersionsDescending exports sortVersionsDescending for testing.
var SortVersionsDescending = sortVersionsDescending //nolint:gochecknoglobals // test export
