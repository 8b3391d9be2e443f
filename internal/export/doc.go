// Package export renders the session timetable as XLSX and PDF documents.
//
// Both formats carry the same two views: the session table with hours,
// duration and pairs, and a 24-row timeline marking which sessions are open
// in each UTC hour plus whether the hour falls in a volatility window.
package export
