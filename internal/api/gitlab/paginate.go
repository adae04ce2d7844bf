package gitlab

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vilaca/dora-metrics/internal/api"
)

// paginate requests successive pages of path, starting at page 1, until a page
// comes back empty. extra is merged into every page's query.
// Total-count headers are not consulted; an empty page is the only terminator.
func paginate[T any](ctx context.Context, c *Client, path string, extra url.Values) ([]T, error) {
	var all []T

	for page := 1; ; page++ {
		query := url.Values{}
		for key, values := range extra {
			query[key] = append([]string(nil), values...)
		}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(api.DefaultPageSize))

		var batch []T
		if err := c.doRequest(ctx, path, query, &batch); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		if len(batch) == 0 {
			return all, nil
		}

		all = append(all, batch...)
	}
}
