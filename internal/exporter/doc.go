// Package exporter produces the downloadable artifacts of the dashboard:
// CSV exports of the filtered dataset and of derived action items (UTF-8 BOM
// prefixed for Excel compatibility), and the standard xlsx fill-in template
// whose header row prevents schema mismatch on the next upload.
package exporter
