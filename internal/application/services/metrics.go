package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	feedNFT   = "nft"
	feedToken = "token"
)

var (
	upstreamPagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaderboard_upstream_pages_fetched_total",
			Help: "Total number of upstream history pages fetched",
		},
		[]string{"feed"},
	)

	upstreamPaginationTruncated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaderboard_upstream_pagination_truncated_total",
			Help: "Paginations that stopped early because a page request failed",
		},
		[]string{"feed"},
	)

	reputationFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leaderboard_reputation_fallbacks_total",
			Help: "Requests served with an empty reputation table after an upstream failure",
		},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaderboard_cache_lookups_total",
			Help: "Leaderboard response cache lookups by result",
		},
		[]string{"result"},
	)

	buildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leaderboard_build_duration_seconds",
			Help:    "Time taken to fetch, aggregate and build a leaderboard",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)
