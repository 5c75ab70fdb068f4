package httpclient

import (
	"context"
	"net/http"
)

func (c *httpClientWrapper) DoPOST(ctx context.Context, urlStr string, in, out any) error {
	c.logger.Debug("starting POST request", "url", urlStr)

	if err := c.do(ctx, http.MethodPost, urlStr, in, out, http.StatusOK, http.StatusCreated); err != nil {
		return err
	}

	c.logger.Debug("POST request complete", "url", urlStr)
	return nil
}
