// Package metrics provides Prometheus metrics for StudyGram: counters,
// gauges, and histograms for progression, gems, content generation, and
// health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Progression ────────────────────────────────────────────────────────────

// ExperienceGranted tracks total experience granted by source.
var ExperienceGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "studygram",
	Name:      "experience_granted_total",
	Help:      "Total experience granted.",
}, []string{"source"})

// LevelUps tracks title promotions.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "studygram",
	Name:      "levelups_total",
	Help:      "Total title promotions.",
})

// StreakDays tracks the current streak length.
var StreakDays = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "studygram",
	Name:      "streak_days",
	Help:      "Current login streak in days.",
})

// ─── Quests & Badges ────────────────────────────────────────────────────────

// QuestProgress tracks quest progress ticks by quest type.
var QuestProgress = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "studygram",
	Name:      "quest_progress_total",
	Help:      "Total quest progress recorded.",
}, []string{"type"})

// QuestsClaimed tracks successful quest claims.
var QuestsClaimed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "studygram",
	Name:      "quests_claimed_total",
	Help:      "Total quest rewards claimed.",
})

// ClaimsRejected tracks rejected claim attempts by reason.
var ClaimsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "studygram",
	Name:      "claims_rejected_total",
	Help:      "Total rejected quest claims.",
}, []string{"reason"})

// BadgesUnlocked tracks badge unlocks.
var BadgesUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "studygram",
	Name:      "badges_unlocked_total",
	Help:      "Total badges unlocked.",
})

// ─── Gems ───────────────────────────────────────────────────────────────────

// GemsGranted tracks gems entering the wallet.
var GemsGranted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "studygram",
	Name:      "gems_granted_total",
	Help:      "Total gems granted.",
})

// GemsBalance tracks the current wallet balance.
var GemsBalance = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "studygram",
	Name:      "gems_balance_current",
	Help:      "Current gems wallet balance.",
})

// ─── Content Generation ─────────────────────────────────────────────────────

// ContentRequests tracks upstream content-generation calls by task.
var ContentRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "studygram",
	Name:      "contentgen_requests_total",
	Help:      "Total content-generation requests.",
}, []string{"task"})

// ContentFailures tracks failed content-generation calls by task and reason.
var ContentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "studygram",
	Name:      "contentgen_failures_total",
	Help:      "Total failed content-generation requests.",
}, []string{"task", "reason"})

// ContentLatency tracks upstream request duration in seconds.
var ContentLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "studygram",
	Name:      "contentgen_latency_seconds",
	Help:      "Content-generation request duration in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"task"})

// ─── API ────────────────────────────────────────────────────────────────────

// APIRequests tracks HTTP requests by route and status class.
var APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "studygram",
	Name:      "api_requests_total",
	Help:      "Total HTTP API requests.",
}, []string{"route", "status"})
