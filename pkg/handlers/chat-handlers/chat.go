/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package chat_handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/apimachinery/pkg/util/uuid"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/deployment"
	commonerrors "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/errors"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/handlers/authority"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/journal"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/metrics"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/parser"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/quota"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/scheduler"
	apiutils "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/utils"
)

var priorityLabels = map[int]string{
	1: "high",
	2: "medium",
	3: "low",
}

// Chat accepts one chat message and routes it through the command pipeline.
func (h *Handler) Chat(c *gin.Context) {
	handle(c, h.chat)
}

func (h *Handler) chat(c *gin.Context) (interface{}, error) {
	identity := authority.RequestIdentity(c)
	if identity.UserId == "" {
		return nil, commonerrors.NewUnauthorized("no verified identity in request")
	}

	var req chatRequest
	if _, err := apiutils.ParseRequestBody(c.Request, &req); err != nil {
		return nil, err
	}
	if req.Message == "" {
		return nil, commonerrors.NewValidationError("the message field is required")
	}

	cmd := parser.Parse(req.Message)
	metrics.CommandsTotal.WithLabelValues(string(cmd.Action)).Inc()

	switch cmd.Action {
	case parser.ActionHelp:
		return h.help(identity), nil
	case parser.ActionRead:
		return h.read(c, cmd)
	case parser.ActionDryRun:
		return h.dryRun(c, cmd), nil
	case parser.ActionExecute:
		return h.execute(c, identity, cmd)
	}
	// Parse is total; this is unreachable unless the action set grows.
	return nil, commonerrors.NewInternalError(fmt.Sprintf("unhandled action %q", cmd.Action))
}

// help synthesizes a role-tailored help document.
func (h *Handler) help(identity quota.Identity) helpResponse {
	role := h.ledger.DeriveRole(identity)
	body := helpBody{
		Summary: fmt.Sprintf("I operate the %s deployment in the %s namespace.",
			deployment.Name, deployment.Namespace),
		Commands: []string{
			fmt.Sprintf("scale %s to <n> - set the replica count (%d..%d)",
				deployment.Name, deployment.MinReplicas, deployment.MaxReplicas),
			"restart - trigger a rolling restart",
			fmt.Sprintf("dry run scale %s to <n> - preview a scale without executing", deployment.Name),
			"status - current deployment state",
			"queue - scheduler and worker state",
		},
	}
	switch role {
	case quota.RoleAdmin:
		body.InternalEndpoints = []string{
			"GET /api/v1/internal/status",
			"GET /api/v1/internal/health",
			"GET /api/v1/internal/events",
		}
	case quota.RoleFree:
		body.QuotaRemaining = ptr.To(h.ledger.Remaining(identity.UserId))
	}
	return helpResponse{Type: "HELP", Help: body}
}

// read answers a non-mutating question synchronously. Deployment reads
// consult the cluster; system reads consult the registry. Nothing enqueues.
func (h *Handler) read(c *gin.Context, cmd parser.Command) (interface{}, error) {
	if cmd.Subtype == parser.SubtypeSystem {
		snap := h.registry.View()
		return readResponse{Type: "READ", Subtype: cmd.Subtype, System: &snap}, nil
	}
	status, err := h.adapter.Status(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return readResponse{Type: "READ", Subtype: cmd.Subtype, Deployment: status}, nil
}

// dryRun previews what an execution would do without touching the quota or
// the queue. The current-state lookup is best-effort: an unreachable cluster
// degrades to a warning, not an error response.
func (h *Handler) dryRun(c *gin.Context, cmd parser.Command) dryRunResponse {
	sim := simulation{Action: string(cmd.Kind), Direction: "none"}

	switch cmd.Kind {
	case parser.KindScale:
		sim.Target = cmd.Replicas
		target := *cmd.Replicas
		if target < deployment.MinReplicas || target > deployment.MaxReplicas {
			sim.Warnings = append(sim.Warnings, fmt.Sprintf(
				"%d is outside the allowed replica range %d..%d; the command would be rejected",
				target, deployment.MinReplicas, deployment.MaxReplicas))
		} else {
			sim.WouldExecute = true
		}
		if status, err := h.adapter.Status(c.Request.Context()); err != nil {
			sim.Warnings = append(sim.Warnings,
				fmt.Sprintf("current deployment state is unavailable: %v", err))
		} else {
			sim.Current = ptr.To(status.SpecReplicas)
			switch {
			case target > status.SpecReplicas:
				sim.Direction = "up"
			case target < status.SpecReplicas:
				sim.Direction = "down"
			}
		}
	case parser.KindRestart:
		sim.WouldExecute = true
	default:
		sim.Warnings = append(sim.Warnings, "no executable command found to simulate")
	}

	preview := "nothing would execute"
	if sim.WouldExecute {
		if cmd.Kind == parser.KindScale {
			preview = fmt.Sprintf("would scale %s/%s to %d replicas",
				deployment.Namespace, deployment.Name, *cmd.Replicas)
		} else {
			preview = fmt.Sprintf("would restart %s/%s", deployment.Namespace, deployment.Name)
		}
	}
	return dryRunResponse{Type: "DRY_RUN", Preview: preview, Simulation: sim}
}

// execute validates, prices, and enqueues a mutation. The response is an
// acceptance: the worker runs the command later and the caller polls the
// internal status surface for the outcome.
func (h *Handler) execute(c *gin.Context, identity quota.Identity, cmd parser.Command) (interface{}, error) {
	if cmd.Kind == parser.KindScale {
		if cmd.Replicas == nil {
			return nil, commonerrors.NewValidationError("scale command without a replica target")
		}
		if *cmd.Replicas < deployment.MinReplicas || *cmd.Replicas > deployment.MaxReplicas {
			return nil, commonerrors.NewValidationError(fmt.Sprintf(
				"replicas must be within %d..%d, got %d",
				deployment.MinReplicas, deployment.MaxReplicas, *cmd.Replicas))
		}
	}

	remaining := h.ledger.Remaining(identity.UserId)
	if identity.IsFreePlan() && remaining == 0 {
		metrics.QuotaRejectionsTotal.Inc()
		return nil, commonerrors.NewQuotaExceeded(fmt.Sprintf(
			"the free tier budget of %d commands is spent", quota.FreeQuotaLimit))
	}

	// Priority is decided on the pre-increment view: the last free-tier
	// command still runs at the free priority.
	role := h.ledger.DeriveRole(identity)
	priority := h.ledger.PriorityFor(role, remaining)

	commandId := string(uuid.NewUUID())
	executionId := string(uuid.NewUUID())

	before := h.beforeSnapshot(c)

	user := userInfo{Id: identity.UserId, Role: string(role)}
	if identity.IsFreePlan() {
		h.ledger.Increment(identity.UserId)
		user.QuotaRemaining = ptr.To(h.ledger.Remaining(identity.UserId))
	}

	position := h.queue.Enqueue(&scheduler.Item{
		ExecutionId: executionId,
		CommandId:   commandId,
		UserId:      identity.UserId,
		Role:        role,
		Priority:    priority,
		Command:     cmd,
		EnqueuedAt:  time.Now(),
	})
	h.journal.Record(journal.Entry{
		ExecutionId: executionId,
		CommandId:   commandId,
		UserId:      identity.UserId,
		Phase:       journal.PhaseQueued,
		Message:     fmt.Sprintf("queued %s at priority %d, position %d", cmd.Kind, priority, position),
	})

	c.Status(http.StatusAccepted)
	return acceptResponse{
		Status:      "accepted",
		CommandId:   commandId,
		ExecutionId: executionId,
		Command:     acceptedCommand{Action: string(cmd.Kind), Replicas: cmd.Replicas},
		Execution: executionInfo{
			Priority:      priority,
			PriorityLabel: priorityLabels[priority],
			QueuePosition: position,
		},
		User:   user,
		Before: before,
	}, nil
}

// beforeSnapshot captures the deployment state ahead of the mutation.
// Failures are logged and ignored; acceptance does not depend on it.
func (h *Handler) beforeSnapshot(c *gin.Context) *deployment.DeploymentStatus {
	status, err := h.adapter.Status(c.Request.Context())
	if err != nil {
		klog.V(2).Infof("before-snapshot unavailable: %v", err)
		return nil
	}
	return status
}
