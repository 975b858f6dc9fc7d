package config

import (
	"errors"
	"fmt"
)

var (
	// ErrLoadConfig wraps failures reading the YAML file or the environment.
	ErrLoadConfig = errors.New("load config failed")
	// ErrInvalidConfig marks a setting Validate refused.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidCities narrows ErrInvalidConfig to the selectable city list.
	ErrInvalidCities = fmt.Errorf("%w: cities", ErrInvalidConfig)
)
