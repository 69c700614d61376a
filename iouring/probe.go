// Copyright (c) 2023 Paweł Gaczyński
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

package iouring

import (
	"fmt"
	"strings"
)

const (
	probeOpsSize = int(OpLast + 1)
)

type (
	Probe struct {
		LastOp uint8
		OpsLen uint8
		Res    uint16
		Res2   [3]uint32
		Ops    [probeOpsSize]probeOp
	}
	probeOp struct {
		Op    uint8
		Res   uint8
		Flags uint16
		Res2  uint32
	}
)

func (p Probe) IsSupported(op uint8) bool {
	for i := uint8(0); i < p.OpsLen; i++ {
		if p.Ops[i].Op != op {
			continue
		}

		return p.Ops[i].Flags&opSupported > 0
	}

	return false
}

// IsOpSupported reports whether the kernel behind this ring supports op.
func (ring *Ring) IsOpSupported(op uint8) (bool, error) {
	probe, err := ring.RegisterProbe()
	if err != nil {
		return false, err
	}

	return probe.IsSupported(op), nil
}

func probeKernel() (*Probe, error) {
	ring, err := CreateRing(1)
	if err != nil {
		return nil, err
	}

	probe, err := ring.RegisterProbe()
	exitErr := ring.QueueExit()

	if err != nil {
		return nil, err
	}

	return probe, exitErr
}

// CheckAvailableFeatures lists every known opcode with its support status.
func CheckAvailableFeatures() (string, error) {
	probe, err := probeKernel()
	if err != nil {
		return "", err
	}

	var result strings.Builder

	for opCode := OpNop; opCode < OpLast; opCode++ {
		var status string
		if !probe.IsSupported(opCode) {
			status = " NOT"
		}
		fmt.Fprintf(&result, "%s is%s supported\n", OpName(opCode), status)
	}

	return result.String(), nil
}

func IsOpSupported(opCode uint8) (bool, error) {
	probe, err := probeKernel()
	if err != nil {
		return false, err
	}

	return probe.IsSupported(opCode), nil
}
