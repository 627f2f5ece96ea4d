/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package chat_handlers

import (
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/deployment"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/state"
)

type chatRequest struct {
	Message string `json:"message"`
}

type helpResponse struct {
	Type string   `json:"type"`
	Help helpBody `json:"help"`
}

type helpBody struct {
	Summary           string   `json:"summary"`
	Commands          []string `json:"commands"`
	QuotaRemaining    *int     `json:"quotaRemaining,omitempty"`
	InternalEndpoints []string `json:"internalEndpoints,omitempty"`
}

type readResponse struct {
	Type       string                       `json:"type"`
	Subtype    string                       `json:"subtype"`
	Deployment *deployment.DeploymentStatus `json:"deployment,omitempty"`
	System     *state.Snapshot              `json:"system,omitempty"`
}

type dryRunResponse struct {
	Type       string     `json:"type"`
	Preview    string     `json:"preview"`
	Simulation simulation `json:"simulation"`
}

type simulation struct {
	Action       string   `json:"action,omitempty"`
	Current      *int32   `json:"current,omitempty"`
	Target       *int32   `json:"target,omitempty"`
	Direction    string   `json:"direction"`
	WouldExecute bool     `json:"wouldExecute"`
	Warnings     []string `json:"warnings,omitempty"`
}

type acceptResponse struct {
	Status      string                       `json:"status"`
	CommandId   string                       `json:"commandId"`
	ExecutionId string                       `json:"executionId"`
	Command     acceptedCommand              `json:"command"`
	Execution   executionInfo                `json:"execution"`
	User        userInfo                     `json:"user"`
	Before      *deployment.DeploymentStatus `json:"before,omitempty"`
}

type acceptedCommand struct {
	Action   string `json:"action"`
	Replicas *int32 `json:"replicas,omitempty"`
}

type executionInfo struct {
	Priority      int    `json:"priority"`
	PriorityLabel string `json:"priorityLabel"`
	QueuePosition int    `json:"queuePosition"`
}

type userInfo struct {
	Id             string `json:"id"`
	Role           string `json:"role"`
	QuotaRemaining *int   `json:"quotaRemaining,omitempty"`
}
