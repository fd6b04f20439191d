// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package retrieval defines the specialist retrieval provider contract.
//
// A provider answers a free-text query with a small number of ranked text
// snippets concatenated into one blob. Failures are reported as errors
// wrapping core.ErrNoResults or core.ErrProviderUnavailable so callers can
// substitute user-visible messages instead of propagating transport details.
//
// Implementation sub-packages:
//
//   - retrieval/arxiv: academic paper search via the arXiv Atom API
//   - retrieval/web: general web search via DuckDuckGo
//   - retrieval/mock: test doubles
package retrieval

import "context"

// Provider retrieves ranked text snippets for a free-text query.
// Implementations must be thread-safe for concurrent use.
type Provider interface {
	// Retrieve returns ranked snippets for the query concatenated into a
	// single blob. Returns an error wrapping core.ErrNoResults when the
	// search succeeds but matches nothing, or core.ErrProviderUnavailable
	// on transport or protocol failure.
	Retrieve(ctx context.Context, query string) (string, error)
}
