package config

import "errors"

var ErrConfigFileUnreadable = errors.New("failed to read config file")
var ErrConfigFileInvalid = errors.New("failed to parse config file")
var ErrInvalidConfig = errors.New("invalid config")
