// Package hfledger provides the ledger engine of a personal, local-first
// budget tracker. It keeps a small set of named money pools and the ordered
// log of transactions that moved money between them.
//
// The core functionalities include:
//   - Pools: a primary balance (reconciled against a real checking account),
//     a prepaid discretionary sub-budget and a reserved pool, both funded from
//     the primary one.
//   - Transactions: typed records (deposit, bill, discretionary spend or
//     top-up, reserve fund or release) whose effect on the pools is defined
//     once in an effect table. Deleting a transaction applies the exact
//     inverse of that effect.
//   - Overrides: the primary balance can be set directly and the secondary
//     pools can be reset. Overrides are kept as adjustments so that replaying
//     the log always reproduces the current balances.
//   - Persistence: the full ledger state is a Snapshot that Stores load and
//     save. Saving happens through observers after every mutation and never
//     rolls back the in-memory change.
//
// The engine is not safe for concurrent use: callers serialize access
// themselves (see the api package).
package hfledger
