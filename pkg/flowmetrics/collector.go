package flowmetrics

import (
	"time"

	"github.com/cuemby/flowrt/pkg/flow"
	"github.com/cuemby/flowrt/pkg/nodetype"
)

// Collector periodically samples a live top-level Container and
// publishes gauges for it, the way the orchestrator's Collector polls
// the manager on a ticker rather than hooking every state change.
type Collector struct {
	container *flow.Container
	interval  time.Duration
	stopCh    chan struct{}
}

// NewCollector creates a collector for container, sampling every
// interval.
func NewCollector(container *flow.Container, interval time.Duration) *Collector {
	return &Collector{container: container, interval: interval, stopCh: make(chan struct{})}
}

// Start begins collecting metrics in a background goroutine.
func (c *Collector) Start() {
	ticker := time.NewTicker(c.interval)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	OpenContainers.Set(float64(1))
}

// Instrument wires c's delivery-error hook to PacketsRouted{outcome="error"},
// one increment per failed delivery; successful routes are not counted.
// It composes with any pre-existing OnDeliveryError hook rather than
// overwriting it, since callers (e.g. a CLI's own logging hook) may have
// set one already.
func Instrument(c *flow.Container) {
	prior := c.OnDeliveryError
	c.OnDeliveryError = func(src *nodetype.Node, srcPort uint16, dst *nodetype.Node, dstPort uint16, err error) {
		PacketsRouted.WithLabelValues("error").Inc()
		if prior != nil {
			prior(src, srcPort, dst, dstPort, err)
		}
	}
}

// RecordNodeOpened increments NodesOpened for typeName. Call from a
// nodetype.Type.Open implementation or wrapper that wants per-type open
// counts.
func RecordNodeOpened(typeName string) {
	NodesOpened.WithLabelValues(typeName).Inc()
}

// RecordNodeClosed increments NodesClosed for typeName.
func RecordNodeClosed(typeName string) {
	NodesClosed.WithLabelValues(typeName).Inc()
}
