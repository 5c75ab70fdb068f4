package httpclient

import (
	"context"
	"net/http"
)

// DoDELETE sends a DELETE request, accepting 200 and 204.
func (c *httpClientWrapper) DoDELETE(ctx context.Context, urlStr string) error {
	c.logger.Debug("starting DELETE request", "url", urlStr)

	if err := c.do(ctx, http.MethodDelete, urlStr, nil, nil, http.StatusNoContent, http.StatusOK); err != nil {
		return err
	}

	c.logger.Debug("DELETE request complete", "url", urlStr)
	return nil
}
