package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
	if !opCfg.CircuitBreaker.Enabled && opCfg.CircuitBreaker.MaxRequests == 0 {
		opCfg.CircuitBreaker = c.AI.CircuitBreaker
	}
}

// operation returns a pointer to the raw configuration of op, or nil
func (c *Config) operation(op string) *OperationAIConfig {
	switch op {
	case OperationAnalyze:
		return &c.AI.Analyze
	case OperationInterview:
		return &c.AI.Interview
	case OperationAnswer:
		return &c.AI.Answer
	case OperationEmail:
		return &c.AI.Email
	}
	return nil
}

// GetOperationConfig returns the AI configuration for op with fallback to
// global config. Unknown operations get the global configuration only.
func (c *Config) GetOperationConfig(op string) OperationAIConfig {
	var config OperationAIConfig
	if raw := c.operation(op); raw != nil {
		config = *raw
	}

	c.applyOperationDefaults(&config)
	return config
}
