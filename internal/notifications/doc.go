// Package notifications sends ntfy push notifications for batch lifecycle
// events when a topic is configured.
package notifications
