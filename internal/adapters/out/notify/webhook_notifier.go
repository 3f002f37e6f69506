// Package notify delivers outbound side effects over HTTP webhooks:
// vendor assignment notifications, operator alerts, and domain events.
// Everything here runs strictly after the owning transaction commits, so
// delivery failures are retried and absorbed rather than propagated back
// into committed state.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/cenkalti/backoff/v4"
)

// requestTimeout bounds a single webhook attempt.
const requestTimeout = 10 * time.Second

// maxAttempts bounds retries per delivery before giving up.
const maxAttempts = 3

// WebhookVendorNotifier implements ports.VendorNotifier by POSTing
// assignment notifications to the vendor gateway.
type WebhookVendorNotifier struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewWebhookVendorNotifier creates a vendor notifier targeting the given
// gateway base URL.
func NewWebhookVendorNotifier(baseURL string, logger *slog.Logger) *WebhookVendorNotifier {
	return &WebhookVendorNotifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger.With("component", "vendor_notifier"),
	}
}

// NotifyAssignment tells the vendor an order awaits their response until
// the deadline. Retries transient failures with exponential backoff.
func (n *WebhookVendorNotifier) NotifyAssignment(
	ctx context.Context,
	vendorID, orderID kernel.UUID,
	deadline time.Time,
) error {
	payload := map[string]any{
		"vendorId": vendorID.String(),
		"orderId":  orderID.String(),
		"deadline": deadline.UTC().Format(time.RFC3339),
	}

	err := postWithRetry(ctx, n.client, n.baseURL+"/assignments", payload)
	if err != nil {
		n.logger.WarnContext(ctx, "vendor notification failed",
			"vendorId", vendorID.String(), "orderId", orderID.String(), "error", err)
		return err
	}

	return nil
}

// WebhookAdminNotifier implements ports.AdminNotifier by POSTing operator
// alerts to the ops channel webhook.
type WebhookAdminNotifier struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewWebhookAdminNotifier creates an admin notifier targeting the given
// alert webhook URL.
func NewWebhookAdminNotifier(url string, logger *slog.Logger) *WebhookAdminNotifier {
	return &WebhookAdminNotifier{
		url:    url,
		client: &http.Client{Timeout: requestTimeout},
		logger: logger.With("component", "admin_notifier"),
	}
}

// Alert delivers an operator alert. Retries transient failures with
// exponential backoff.
func (n *WebhookAdminNotifier) Alert(ctx context.Context, subject, detail string) error {
	payload := map[string]any{
		"subject": subject,
		"detail":  detail,
		"sentAt":  time.Now().UTC().Format(time.RFC3339),
	}

	err := postWithRetry(ctx, n.client, n.url, payload)
	if err != nil {
		n.logger.WarnContext(ctx, "admin alert failed", "subject", subject, "error", err)
		return err
	}

	return nil
}

// postWithRetry POSTs a JSON payload, retrying with exponential backoff.
// Context cancellation stops the retry loop.
func postWithRetry(ctx context.Context, client *http.Client, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	operation := func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if reqErr != nil {
			return backoff.Permanent(reqErr)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, doErr := client.Do(req)
		if doErr != nil {
			return doErr
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return backoff.Permanent(fmt.Errorf("webhook rejected request with status %d", resp.StatusCode))
		}

		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxAttempts-1), ctx)
	return backoff.Retry(operation, policy)
}
