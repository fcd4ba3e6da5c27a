// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bridge batches the modular exponentiations of a computation.
//
// A computation routes its exponentiations through ModPow. Under Run it is
// executed twice: the first execution records every call and answers it with
// a placeholder, the recorded batch is evaluated in one call to a
// ComputeService, and the second execution is answered from the batch
// results in call order.
//
// Each goroutine uses its own State, attached to its context with WithState.
// States are never shared and carry no locks.
package bridge
