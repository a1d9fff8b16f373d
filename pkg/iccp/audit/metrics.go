//
//  Copyright © EduShield Inc. All rights reserved.
//

package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics.  Registered once on the default registerer; exposed via
// the decision point's /metrics endpoint.
var (
	entriesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iccp_audit_entries_recorded_total",
		Help: "Audit entries accepted onto the pipeline queue",
	})

	entriesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iccp_audit_entries_dropped_total",
		Help: "Audit entries discarded because the pipeline queue was full",
	})

	sinkErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iccp_audit_sink_errors_total",
		Help: "Sink write failures, including per-flush timeouts",
	}, []string{"sink"})
)
