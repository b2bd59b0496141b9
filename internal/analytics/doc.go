// Package analytics computes every derived view of a filtered KYC record
// set: scalar KPIs, data-quality counts, ageing buckets, chart series and
// action items. All results are pure projections — nothing here mutates or
// caches records, and everything is recomputed on each filter application.
package analytics
