//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package tool

import (
	"fmt"
	"sort"
	"sync"
)

// TypeRetrieval is the roster tag of the per-assistant retrieval tool. It is
// not served by the registry: retrieval needs an assistant id, a thread id
// and a document store, so the runner constructs it directly. The tag lives
// here so the configuration resolver and the runner agree on it.
const TypeRetrieval = "retrieval"

// Factory builds a callable tool from its per-roster configuration.
type Factory func(cfg map[string]any) (CallableTool, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register registers a tool factory under the given roster tag.
func Register(tag string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[tag] = factory
}

// Registered reports whether a factory exists for the given tag. The
// retrieval tag is always considered registered.
func Registered(tag string) bool {
	if tag == TypeRetrieval {
		return true
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[tag]
	return ok
}

// Tags returns the registered roster tags, including retrieval, sorted.
func Tags() []string {
	registryMu.RLock()
	tags := make([]string, 0, len(registry)+1)
	for tag := range registry {
		tags = append(tags, tag)
	}
	registryMu.RUnlock()
	tags = append(tags, TypeRetrieval)
	sort.Strings(tags)
	return tags
}

// Resolve builds the tool registered under tag with the given configuration.
func Resolve(tag string, cfg map[string]any) (CallableTool, error) {
	registryMu.RLock()
	factory, ok := registry[tag]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown tool tag %q", tag)
	}
	return factory(cfg)
}
