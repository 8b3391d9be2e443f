// Package api provides best-effort REST clients for the dashboard's external
// feeds.
//
// Rates endpoint (open.er-api.com shape):
//   - GET {base_url}/latest/{BASE}
//   - {"result":"success","base_code":"USD","time_last_update_unix":N,"rates":{...}}
//
// News endpoint (NewsAPI shape):
//   - GET {base_url}/top-headlines?category=business&language=en&pageSize=N
//   - {"status":"ok","articles":[{"title","description","url","source":{"name"},"publishedAt"}]}
//
// Failures are reported as ErrNetworkUnavailable or ErrMalformedResponse and
// are never fatal to the caller.
package api
