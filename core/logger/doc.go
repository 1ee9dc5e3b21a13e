// Package logger records interpreter events as newline delimited JSON and
// summarizes them into reports.
package logger
