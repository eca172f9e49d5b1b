// Package tracker provides the accounting engine for a personal stock
// portfolio: lot-level bookkeeping with deterministic, auditable results.
//
// The core functionalities include:
//   - Ledger Management: every purchase becomes an immutable lot; sales
//     consume lots oldest-first (FIFO) and failed disposals leave the ledger
//     untouched.
//   - Corporate Actions: splits, mergers, de-listings and cross-exchange
//     remaps transform lots in strict effective-date order, idempotently,
//     without losing the acquisition history.
//   - Gains and Dividends: realized gains per consumed lot with pro-rated
//     fees, mark-to-market unrealized gains, and dividend amounts computed
//     from the quantity held at each ex-date.
//   - Aggregation: per-instrument and portfolio-level summaries in a single
//     reporting currency, tolerant of missing market data.
//
// All arithmetic is fixed-point decimal, and currency conversion is applied
// last on summed native subtotals. The engines never perform I/O: feeds are
// handed over as immutable snapshots (PriceTable, RateTable), and the
// collaborator packages (store, quote, config, render, cmd) connect them to
// the outside world for the `stt` command-line tool.
package tracker
