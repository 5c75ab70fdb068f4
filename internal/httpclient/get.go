package httpclient

import (
	"context"
	"net/http"
)

func (c *httpClientWrapper) DoGET(ctx context.Context, urlStr string, out any) error {
	c.logger.Debug("starting GET request", "url", urlStr)

	if err := c.do(ctx, http.MethodGet, urlStr, nil, out, http.StatusOK); err != nil {
		return err
	}

	c.logger.Debug("GET request complete", "url", urlStr)
	return nil
}
