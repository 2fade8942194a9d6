//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package model

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a model bound to the given options. Factories are
// registered once per backend tag and resolved at configuration time, never
// at call time.
type Factory func(opts Options) (Model, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register registers a model factory under the given tag. Registering the
// same tag twice replaces the previous factory; adapters register their tags
// from init.
func Register(tag string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[tag] = factory
}

// Registered reports whether a factory exists for the given tag.
func Registered(tag string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[tag]
	return ok
}

// Tags returns the registered tags in sorted order.
func Tags() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	tags := make([]string, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Resolve builds a model for the given tag. Unknown tags are an error.
func Resolve(tag string, opts Options) (Model, error) {
	registryMu.RLock()
	factory, ok := registry[tag]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown model tag %q", tag)
	}
	return factory(opts)
}
