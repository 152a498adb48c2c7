// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package utils

// request headers understood by the speaker api
const (
	HEADER_REQUEST_ID      = "X-Request-Id"
	HEADER_CHARACTER_KEY   = "X-Speaker-Character"
	HEADER_LANGUAGE_KEY    = "X-Speaker-Language"
	HEADER_ENVIRONMENT_KEY = "X-Speaker-Environment"
)
