package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Interaction metrics
var (
	// InteractionsTotal counts dispatched interactions by route and outcome.
	InteractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leo_interactions_total",
			Help: "Interactions dispatched by kind, route and outcome",
		},
		[]string{"kind", "route", "outcome"},
	)

	// InteractionDuration tracks handler latency in seconds.
	InteractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leo_interaction_duration_seconds",
			Help:    "Interaction handler duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"kind", "route"},
	)
)

// Reputation metrics
var (
	// GrantsTotal counts ledger entries written by origin.
	GrantsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leo_reputation_grants_total",
			Help: "Reputation grants by origin",
		},
		[]string{"origin"},
	)

	// GrantsRejectedTotal counts grants refused before reaching the ledger.
	GrantsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leo_reputation_grants_rejected_total",
			Help: "Reputation grants rejected by reason",
		},
		[]string{"reason"},
	)
)

// Poll metrics
var (
	// PollsCreatedTotal counts created polls by type.
	PollsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leo_polls_created_total",
			Help: "Polls created by type",
		},
		[]string{"type"},
	)

	// VotesTotal counts vote attempts by outcome.
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leo_poll_votes_total",
			Help: "Poll votes by outcome",
		},
		[]string{"outcome"},
	)
)

// Greeter metrics
var (
	// GreetingsTotal counts join messages by whether the bot had to greet.
	GreetingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leo_greetings_total",
			Help: "Join messages checked by the greeter, by outcome",
		},
		[]string{"outcome"},
	)
)
