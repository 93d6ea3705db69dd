package config

import (
	"log"
	"slices"

	"github.com/fsnotify/fsnotify"
)

// ReloadableSettings are the values applied to a running process when the
// config file changes
type ReloadableSettings struct {
	Plan     string
	LogLevel string
}

// Watch calls onChange with the re-read plan and log level every time the
// config file is written. It reports false when no config file was loaded.
// An unknown plan in the new file keeps the previous plan.
func (c *Config) Watch(onChange func(ReloadableSettings)) bool {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return false
	}

	current := ReloadableSettings{Plan: c.App.Plan, LogLevel: c.App.LogLevel}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		current = nextSettings(current, c.v.GetString("app.plan"), c.v.GetString("app.logLevel"))
		log.Printf("[CONFIG] Config file changed (%s): plan=%s logLevel=%s", e.Name, current.Plan, current.LogLevel)
		onChange(current)
	})
	c.v.WatchConfig()
	return true
}

func nextSettings(prev ReloadableSettings, plan, logLevel string) ReloadableSettings {
	next := ReloadableSettings{Plan: plan, LogLevel: logLevel}
	if !slices.Contains(KnownPlans, plan) {
		log.Printf("[CONFIG] Ignoring unknown plan %q from reloaded config", plan)
		next.Plan = prev.Plan
	}
	if logLevel == "" {
		next.LogLevel = prev.LogLevel
	}
	return next
}
