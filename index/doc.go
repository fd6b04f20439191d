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


// Package index implements the per-document retrieval store.
//
// Each uploaded document is split into fixed-size overlapping windows,
// embedded, and indexed in a flat (brute-force) L2 structure. A single
// document produces tens to low hundreds of chunks, so exact search is
// cheaper and simpler than any approximate tier.
//
// The store holds one immutable snapshot per file id. Builds assemble a
// complete snapshot off to the side and install it with a single map write,
// so readers never observe a document with mismatched chunks and vectors.
// Queries against different documents never block each other, and a rebuild
// of one document does not block queries for any other.
package index
