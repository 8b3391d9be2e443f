// Package server exposes the session clock over HTTP.
//
// Routes:
//
//	GET /                               embedded dashboard page
//	GET /static/*                       page assets
//	GET /api/snapshot                   latest snapshot
//	GET /api/sessions                   session table with current status
//	GET /api/sessions/{id}              one session with its status
//	GET /api/rates                      latest rate table
//	GET /api/price?pair=EUR/JPY         derived price for one pair
//	GET /api/news                       latest headlines
//	GET /clock.svg?mode=utc|local       rendered clock face
//	GET /api/export/timetable.xlsx      timetable workbook
//	GET /api/export/timetable.pdf       timetable document
//	GET /ws                             snapshot stream
//	GET /health                         liveness and feed freshness
//	GET /metrics                        Prometheus exposition
package server
