/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package parser turns one free-form chat line into a typed command. It is
// pure translation: no I/O, no cluster calls, no bounds enforcement. Replica
// targets are handed to the API gate exactly as the user wrote them.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alexflint/go-restructure"
)

type Action string

const (
	ActionHelp    Action = "HELP"
	ActionRead    Action = "READ"
	ActionDryRun  Action = "DRY_RUN"
	ActionExecute Action = "EXECUTE"
)

type Kind string

const (
	KindScale   Kind = "SCALE"
	KindRestart Kind = "RESTART"
)

const (
	SubtypeDeployment = "deployment"
	SubtypeSystem     = "system"
)

// Command is the parsed form of one chat message. Replicas is set only for
// scale commands and carries the raw requested value, which may be out of
// range. Subtype is set only for reads.
type Command struct {
	Raw      string
	Action   Action
	Kind     Kind
	Replicas *int32
	Subtype  string
}

// scaleExpr matches "scale ... to <N>" anywhere in the lowercased input.
type scaleExpr struct {
	_      struct{} `regexp:"\\bscale\\b"`
	_      struct{} `regexp:".*?"`
	_      struct{} `regexp:"\\bto\\b\\s+"`
	Target string   `regexp:"-?\\d+"`
}

var dryRunMarkers = []string{"dry run", "dry-run", "what happens", "what if", "simulate", "preview"}

// helpExpr matches the word help, not substrings of other words: "unhelpful
// pods" is a read, not a help request.
var helpExpr = regexp.MustCompile(`\bhelp\b`)

var restartMarkers = []string{"restart", "redeploy", "rollout"}

var systemMarkers = []string{"queue", "worker", "system", "mutex"}

// Parse classifies one chat line. It never fails: anything that matches no
// rule is a deployment read. Rule order is fixed and the help rule wins over
// everything, so "help me scale to 3" is a help request, not a scale.
func Parse(text string) Command {
	cmd := Command{Raw: text}
	lowered := strings.ToLower(strings.TrimSpace(text))

	if lowered == "" || helpExpr.MatchString(lowered) {
		cmd.Action = ActionHelp
		return cmd
	}
	if containsAny(lowered, dryRunMarkers) {
		cmd.Action = ActionDryRun
		if replicas, ok := matchScale(lowered); ok {
			cmd.Kind = KindScale
			cmd.Replicas = replicas
		} else if containsAny(lowered, restartMarkers) {
			cmd.Kind = KindRestart
		}
		return cmd
	}
	if replicas, ok := matchScale(lowered); ok {
		cmd.Action = ActionExecute
		cmd.Kind = KindScale
		cmd.Replicas = replicas
		return cmd
	}
	if containsAny(lowered, restartMarkers) {
		cmd.Action = ActionExecute
		cmd.Kind = KindRestart
		return cmd
	}
	cmd.Action = ActionRead
	cmd.Subtype = readSubtype(lowered)
	return cmd
}

// matchScale extracts the replica target from a scale phrase. Targets that do
// not fit an int32 are treated as no match and fall through to later rules.
func matchScale(lowered string) (*int32, bool) {
	expr := &scaleExpr{}
	ok, _ := restructure.Find(expr, lowered)
	if !ok {
		return nil, false
	}
	target, err := strconv.ParseInt(expr.Target, 10, 32)
	if err != nil {
		return nil, false
	}
	replicas := int32(target)
	return &replicas, true
}

func readSubtype(lowered string) string {
	if containsAny(lowered, systemMarkers) {
		return SubtypeSystem
	}
	return SubtypeDeployment
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
