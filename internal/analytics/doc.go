// Package analytics is the financial analytics engine. It turns an immutable
// snapshot of transactions and goals into spending aggregates, recurring and
// gray charge detections, and goal forecasts.
//
// Every function in this package is pure: none reads the clock, performs I/O,
// or mutates its arguments. Calling a function twice with the same snapshot
// yields identical results.
package analytics
