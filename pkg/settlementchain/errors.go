// Copyright 2025 Certen Protocol

package settlementchain

import "errors"

// errMissingActionIDTopic is returned when an ActionOpened log does not
// carry its indexed actionId topic (malformed log, never emitted by a
// correctly deployed contract).
var errMissingActionIDTopic = errors.New("settlementchain: log missing indexed actionId topic")
