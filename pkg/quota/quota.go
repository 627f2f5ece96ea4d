/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package quota decides who a caller is allowed to be: role, execution
// priority, and the free-tier command budget. The ledger lives in memory for
// the process lifetime; counts only ever go up.
package quota

import (
	"sync"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/common"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleFree   Role = "FREE"
	RoleNormal Role = "NORMAL"
)

// FreeQuotaLimit is the number of EXECUTE commands a free-plan user gets per
// process lifetime. There is deliberately no reset path.
const FreeQuotaLimit = 3

// Identity is the verified caller. Plan comes from token claims or server
// configuration only; nothing in a request body can set it.
type Identity struct {
	UserId string
	Plan   string
}

func (id Identity) IsAdmin() bool {
	return id.Plan == common.PlanAdmin
}

func (id Identity) IsFreePlan() bool {
	return id.Plan == common.PlanFree
}

type Ledger struct {
	mu   sync.RWMutex
	used map[string]int
}

var (
	ledger *Ledger
	once   sync.Once
)

// GetLedger returns the process-wide quota ledger.
func GetLedger() *Ledger {
	once.Do(func() {
		ledger = NewLedger()
	})
	return ledger
}

func NewLedger() *Ledger {
	return &Ledger{used: map[string]int{}}
}

func (l *Ledger) Used(userId string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.used[userId]
}

// Remaining never goes below zero and never increases for a given user.
func (l *Ledger) Remaining(userId string) int {
	remaining := FreeQuotaLimit - l.Used(userId)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Increment consumes one unit of the user's budget. Called exactly once per
// accepted EXECUTE from a free-plan user, after the priority decision.
func (l *Ledger) Increment(userId string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.used[userId]++
}

// DeriveRole maps a verified identity to its current role. Free-plan users
// hold FREE while budget remains and read as NORMAL once it is spent.
func (l *Ledger) DeriveRole(id Identity) Role {
	switch id.Plan {
	case common.PlanAdmin:
		return RoleAdmin
	case common.PlanNormal:
		return RoleNormal
	}
	if l.Used(id.UserId) < FreeQuotaLimit {
		return RoleFree
	}
	return RoleNormal
}

// PriorityFor maps a role to its execution priority. Lower runs first.
func (l *Ledger) PriorityFor(role Role, remaining int) int {
	switch {
	case role == RoleAdmin:
		return common.AdminPriorityInt
	case role == RoleFree && remaining > 0:
		return common.FreePriorityInt
	default:
		return common.NormalPriorityInt
	}
}
