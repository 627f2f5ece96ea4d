/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package parser

import (
	"testing"

	"gotest.tools/assert"
	"k8s.io/utils/ptr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		action   Action
		kind     Kind
		replicas *int32
		subtype  string
	}{
		{name: "bare help", in: "help", action: ActionHelp},
		{name: "help wins over scale", in: "help me scale loadlab to 5", action: ActionHelp},
		{name: "help mixed case", in: "HELP", action: ActionHelp},
		{name: "empty input", in: "", action: ActionHelp},
		{name: "whitespace only", in: "   ", action: ActionHelp},
		{name: "help with punctuation", in: "help!", action: ActionHelp},
		{name: "help substring is not help", in: "unhelpful pods", action: ActionRead, subtype: SubtypeDeployment},

		{name: "dry run scale out of range", in: "dry run scale loadlab to 9", action: ActionDryRun, kind: KindScale, replicas: ptr.To(int32(9))},
		{name: "simulate restart", in: "simulate restart", action: ActionDryRun, kind: KindRestart},
		{name: "preview scale", in: "preview scale to 2", action: ActionDryRun, kind: KindScale, replicas: ptr.To(int32(2))},
		{name: "hyphenated dry run without action", in: "dry-run", action: ActionDryRun},
		{name: "what if scale", in: "what if we scale loadlab to 3", action: ActionDryRun, kind: KindScale, replicas: ptr.To(int32(3))},
		{name: "what happens restart", in: "what happens if we restart", action: ActionDryRun, kind: KindRestart},

		{name: "plain scale", in: "scale loadlab to 3", action: ActionExecute, kind: KindScale, replicas: ptr.To(int32(3))},
		{name: "scale mixed case", in: "Scale LoadLab TO 5", action: ActionExecute, kind: KindScale, replicas: ptr.To(int32(5))},
		{name: "scale above ceiling not clamped", in: "please scale the app to 10", action: ActionExecute, kind: KindScale, replicas: ptr.To(int32(10))},
		{name: "scale negative not clamped", in: "scale loadlab to -1", action: ActionExecute, kind: KindScale, replicas: ptr.To(int32(-1))},
		{name: "scale without subject", in: "scale to 4", action: ActionExecute, kind: KindScale, replicas: ptr.To(int32(4))},
		{name: "scale wins over restart", in: "restart then scale loadlab to 3", action: ActionExecute, kind: KindScale, replicas: ptr.To(int32(3))},

		{name: "restart", in: "restart", action: ActionExecute, kind: KindRestart},
		{name: "redeploy", in: "redeploy the service", action: ActionExecute, kind: KindRestart},
		{name: "rollout", in: "trigger a rollout", action: ActionExecute, kind: KindRestart},

		{name: "scale with word target falls to read", in: "scale loadlab to ten", action: ActionRead, subtype: SubtypeDeployment},
		{name: "scale target overflows int32 falls to read", in: "scale loadlab to 99999999999", action: ActionRead, subtype: SubtypeDeployment},
		{name: "scale without target falls to read", in: "scale up", action: ActionRead, subtype: SubtypeDeployment},

		{name: "status read", in: "what is the status", action: ActionRead, subtype: SubtypeDeployment},
		{name: "pods read", in: "pods?", action: ActionRead, subtype: SubtypeDeployment},
		{name: "queue read", in: "how long is the queue", action: ActionRead, subtype: SubtypeSystem},
		{name: "worker read", in: "is the worker busy", action: ActionRead, subtype: SubtypeSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := Parse(tt.in)
			assert.Equal(t, cmd.Action, tt.action)
			assert.Equal(t, cmd.Kind, tt.kind)
			assert.Equal(t, cmd.Subtype, tt.subtype)
			assert.Equal(t, cmd.Raw, tt.in)
			if tt.replicas == nil {
				assert.Assert(t, cmd.Replicas == nil)
			} else {
				assert.Assert(t, cmd.Replicas != nil)
				assert.Equal(t, *cmd.Replicas, *tt.replicas)
			}
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	first := Parse("scale loadlab to 4")
	second := Parse("scale loadlab to 4")
	assert.DeepEqual(t, first, second)
}
