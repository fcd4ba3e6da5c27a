// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/compute_service.go -mock_names=ComputeService=ComputeService . ComputeService
