// Package rates derives display prices for currency pairs from a single-base
// rate table (units of currency per one unit of the base, USD by default).
//
// A pair BASE/QUOTE is priced directly when BASE is the table base, inversely
// when QUOTE is the table base, and by triangulation through the base
// otherwise. Arithmetic runs on shopspring/decimal so formatted prices do not
// pick up float noise.
package rates
