//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package graph implements the cyclic two-node execution graph at the heart
// of a run: a reasoning node, a tool-execution node and a routing predicate
// between them, advanced step by step with a checkpoint after every step.
package graph

import (
	"github.com/agentgraph-ai/agentgraph/model"
)

// Node identifiers.
const (
	// NodeAgent is the reasoning node. It invokes the model on the current
	// message sequence and appends exactly one assistant message.
	NodeAgent = "agent"
	// NodeAction is the tool-execution node. It executes every tool call of
	// the last assistant message and appends one tool message per call.
	NodeAction = "action"
	// End is the virtual terminal node. Routing to End completes the run.
	End = "__end__"
)

// Routing outcomes of the continuation predicate.
const (
	RouteContinue = "continue"
	RouteEnd      = "end"
)

// ShouldContinue is the routing predicate applied after every agent step. It
// inspects only the last message: the run continues to the action node if
// and only if that message is an assistant message carrying at least one
// tool call.
func ShouldContinue(messages []model.Message) string {
	if len(messages) == 0 {
		return RouteEnd
	}
	last := messages[len(messages)-1]
	if last.Role == model.RoleAssistant && len(last.ToolCalls) > 0 {
		return RouteContinue
	}
	return RouteEnd
}

// NextNode maps a node and its routing outcome to the node executed next.
// The topology is static: agent routes to action or End through
// ShouldContinue, and action always routes back to agent.
func NextNode(node, route string) string {
	switch node {
	case NodeAgent:
		if route == RouteContinue {
			return NodeAction
		}
		return End
	case NodeAction:
		return NodeAgent
	default:
		return End
	}
}
