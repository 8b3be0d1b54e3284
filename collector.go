package main

import (
	"github.com/9seconds/ipinfo/infolib"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsPrefix = "ipinfo_"

var (
	lookupsDesc = prometheus.NewDesc(metricsPrefix+"provider_lookups_total",
		"Number of lookups made by provider",
		[]string{"provider", "result"}, nil)
	positionDesc = prometheus.NewDesc(metricsPrefix+"provider_position",
		"Position of provider in fallback order",
		[]string{"provider"}, nil)
)

type usageCollector struct {
	resolver *infolib.Resolver
}

func (u usageCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- lookupsDesc
	ch <- positionDesc
}

func (u usageCollector) Collect(ch chan<- prometheus.Metric) {
	for idx, stats := range u.resolver.UsageStats() {
		success, failure := stats.Counters()

		ch <- prometheus.MustNewConstMetric(lookupsDesc, prometheus.CounterValue,
			float64(success), stats.Name, "success")
		ch <- prometheus.MustNewConstMetric(lookupsDesc, prometheus.CounterValue,
			float64(failure), stats.Name, "failure")
		ch <- prometheus.MustNewConstMetric(positionDesc, prometheus.GaugeValue,
			float64(idx), stats.Name)
	}
}
