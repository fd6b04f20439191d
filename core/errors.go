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


package core

import "errors"

// Domain errors
var (
	// ErrEmptyDocument indicates an uploaded document yielded no indexable text.
	ErrEmptyDocument = errors.New("document is empty or has no extractable text")

	// ErrUnknownDocument indicates a file id with no built index.
	ErrUnknownDocument = errors.New("unknown document")

	// ErrEmptyQuery indicates a query with no content.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrNoResults indicates a retrieval provider returned an empty result set.
	ErrNoResults = errors.New("no results")

	// ErrProviderUnavailable indicates an external service could not be reached
	// or returned a malformed response.
	ErrProviderUnavailable = errors.New("provider unavailable")
)
