// Package fetch performs the HTTP GETs the archiver needs: the series
// listing, each series page and each sheet download.
//
// Every request runs under its own deadline, the body is read through a
// size cap, and non-2xx responses are errors. All failures wrap
// model.ErrNetwork.
//
// A Client owns its own http.Transport. The download pool builds one Client
// per worker so no connection state is shared across concurrent workers.
// Requests may optionally be routed through a SOCKS5 proxy.
package fetch
