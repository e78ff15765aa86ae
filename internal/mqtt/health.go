package mqtt

import "ZeroTrustDashboard/internal/models"

// Health reports the broker link, including handlers still waiting for a
// first connection.
func (c *Client) Health() models.BrokerHealth {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return models.BrokerHealth{
		Connected:      c.connected && c.client.IsConnected(),
		Broker:         c.cfg.BrokerURL(),
		LastConnected:  c.lastConnected,
		LastDisconnect: c.lastDisconnect,
		Subscriptions:  len(c.handlers),
	}
}
