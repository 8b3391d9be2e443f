// Package stream pushes dashboard snapshots to browsers over WebSocket.
//
// Every frame is a JSON text message {"type":"snapshot","data":{...}}. A new
// client receives the most recent snapshot immediately. Each client has a
// small send buffer; when a slow client falls behind, older frames are dropped
// so the next frame it reads is the newest one.
package stream
