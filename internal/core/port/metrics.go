package port

// Metrics receives counters from the core and the delivery adapters.
type Metrics interface {
	RecordTransition(result string)
	RecordSample(cropID string, outOfOrder bool)
	RecordAlertFired(cropID string)
	RecordNotification(result string)
	RecordBusDrop(subscription string)
	RecordBusRetry(subscription string)
	SetGatewayConnections(n int)
	RecordGatewayDisconnect(reason string)
	RecordReplayed(n int)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordTransition(string)        {}
func (NopMetrics) RecordSample(string, bool)      {}
func (NopMetrics) RecordAlertFired(string)        {}
func (NopMetrics) RecordNotification(string)      {}
func (NopMetrics) RecordBusDrop(string)           {}
func (NopMetrics) RecordBusRetry(string)          {}
func (NopMetrics) SetGatewayConnections(int)      {}
func (NopMetrics) RecordGatewayDisconnect(string) {}
func (NopMetrics) RecordReplayed(int)             {}
