// Package redis mirrors the latest rate table and headline set to Redis so
// a restarted instance, or a sibling behind the same load balancer, can
// serve feed data before its own first fetch completes.
package redis
