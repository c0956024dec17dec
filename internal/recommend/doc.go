// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

// Package recommend implements the project recommendation engine: a
// request-scoped pipeline of cache probe, concurrent data fetches, batch
// scoring, ranking, enrichment, cache write, and asynchronous event
// emission.
//
// Collaborators are injected through small interfaces (DataProvider, Cache,
// Emitter) so the engine has no knowledge of the storage or messaging
// stack behind them. Concurrent identical cache misses are collapsed with
// singleflight; the two per-user fetches run under an errgroup.
package recommend
