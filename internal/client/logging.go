package client

import (
	"context"
	"log/slog"
	"strings"
)

const clientComponentName = "client"

func (c *Client) logDebug(operation, correlationID, message string, attrs ...any) {
	base := []any{
		"component", clientComponentName,
		"operation", strings.TrimSpace(operation),
		"correlation_id", strings.TrimSpace(correlationID),
	}
	c.logger.Debug(message, append(base, attrs...)...)
}

func (c *Client) logInfo(operation, correlationID, message string, attrs ...any) {
	base := []any{
		"component", clientComponentName,
		"operation", strings.TrimSpace(operation),
		"correlation_id", strings.TrimSpace(correlationID),
	}
	c.logger.Info(message, append(base, attrs...)...)
}

// fail tags err with category, logs it and returns the tagged error. Crypto
// failures are routine for records meant for other wallets and stay at info.
func (c *Client) fail(operation, correlationID, category string, err error) error {
	if err == nil {
		return nil
	}
	err = WrapCategorizedError(category, err)
	category = ErrorCategory(err)
	level := slog.LevelError
	if category == ErrorCategoryCrypto {
		level = slog.LevelInfo
	}
	c.logger.Log(context.Background(), level, "client error",
		"component", clientComponentName,
		"operation", strings.TrimSpace(operation),
		"category", category,
		"correlation_id", strings.TrimSpace(correlationID),
		"error", err.Error(),
	)
	return err
}
