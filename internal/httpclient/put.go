package httpclient

import (
	"context"
	"net/http"
)

func (c *httpClientWrapper) DoPUT(ctx context.Context, urlStr string, in, out any) error {
	c.logger.Debug("starting PUT request", "url", urlStr)

	if err := c.do(ctx, http.MethodPut, urlStr, in, out, http.StatusOK, http.StatusCreated, http.StatusNoContent); err != nil {
		return err
	}

	c.logger.Debug("PUT request complete", "url", urlStr)
	return nil
}
