package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ForwardsMinted counts new forwards by kind ("root" or "child").
	ForwardsMinted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tapforward_forwards_minted_total",
		Help: "Total number of forwards created, by kind",
	}, []string{"kind"})

	// ForwardsReused counts create-or-reuse calls resolved to an existing forward.
	ForwardsReused = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapforward_forwards_reused_total",
		Help: "Total number of forward creations absorbed into existing rows",
	})

	// ViewsRecorded counts unique views successfully recorded.
	ViewsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapforward_views_recorded_total",
		Help: "Total number of unique forward views recorded",
	})

	// ViewsDeduplicated counts view inserts absorbed by the uniqueness constraint.
	ViewsDeduplicated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tapforward_views_deduplicated_total",
		Help: "Total number of duplicate or self views not counted, by reason",
	}, []string{"reason"})

	// UnlocksReached counts forwards crossing their unlock threshold.
	UnlocksReached = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapforward_unlocks_reached_total",
		Help: "Total number of forwards that reached their unlock threshold",
	})

	// InvalidParentRefs counts visits carrying an unresolvable referral code.
	InvalidParentRefs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapforward_invalid_parent_refs_total",
		Help: "Total number of visits with referral codes that did not resolve",
	})
)
